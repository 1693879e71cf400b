package handler

import (
	"context"

	"github.com/mac0206/library-system/circulation/internal/model"
	"github.com/mac0206/library-system/circulation/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ CirculationService = (*service.Service)(nil)

type CirculationService interface {
	Borrow(ctx context.Context, itemID, memberID string, days int) (model.Loan, error)
	Return(ctx context.Context, loanID string) (model.Loan, error)
	ReturnByItemID(ctx context.Context, itemID string) (model.Loan, error)
	UpdateOverdue(ctx context.Context) (int, error)

	GetAllLoans(ctx context.Context) ([]model.Loan, error)
	GetActiveLoans(ctx context.Context) ([]model.Loan, error)
	GetOverdueLoans(ctx context.Context) ([]model.Loan, error)
	GetLoanByID(ctx context.Context, id string) (model.Loan, error)
	GetLoansByMemberID(ctx context.Context, memberID string) ([]model.Loan, error)
	GetLoansByItemID(ctx context.Context, itemID string) ([]model.Loan, error)

	CheckAvailability(ctx context.Context, itemID string) (bool, error)
	CheckCatalogHealth(ctx context.Context) error
}
