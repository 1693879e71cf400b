package handler

import (
	"context"

	"github.com/mac0206/library-system/pkg/kafka"
	"github.com/mac0206/library-system/reporting/internal/model"
	"github.com/mac0206/library-system/reporting/internal/service"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

type ReportingService interface {
	Dashboard(ctx context.Context) (model.DashboardStats, error)
	StoredDashboard(ctx context.Context) (model.DashboardStats, error)
	MostBorrowed(ctx context.Context, limit int) ([]model.ItemBorrowingStats, error)
	MemberStats(ctx context.Context, limit int) ([]model.MemberBorrowingStats, error)
	BorrowingHistory(ctx context.Context, memberID, itemID string) ([]model.BorrowingHistory, error)
	OverdueLoans(ctx context.Context) ([]model.BorrowingHistory, error)
	StoreEvent(ctx context.Context, event kafka.LoanEvent) error
	ListEvents(ctx context.Context, limit int) ([]model.LoanEventRecord, error)
	CheckDependencies(ctx context.Context) map[string]model.DependencyStatus
}

var _ ReportingService = (*service.Service)(nil)
