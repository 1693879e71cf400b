package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mac0206/library-system/pkg/circuitbreaker"
	"github.com/mac0206/library-system/pkg/kafka"
	"github.com/mac0206/library-system/reporting/internal/model"
	"github.com/mac0206/library-system/reporting/internal/repository"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

const DefaultStatsLimit = 10

// CatalogClient is the slice of the catalog service reporting reads.
type CatalogClient interface {
	ListItems(ctx context.Context) ([]model.Item, error)
	ListMembers(ctx context.Context) ([]model.Member, error)
	GetItem(ctx context.Context, itemID string) (model.Item, error)
	GetMember(ctx context.Context, memberID string) (model.Member, error)
	Health(ctx context.Context) error
	CB() circuitbreaker.CircuitBreaker
}

// CirculationClient is the slice of the circulation service reporting reads.
type CirculationClient interface {
	ListLoans(ctx context.Context) ([]model.Loan, error)
	ListActiveLoans(ctx context.Context) ([]model.Loan, error)
	ListOverdueLoans(ctx context.Context) ([]model.Loan, error)
	ListLoansByMember(ctx context.Context, memberID string) ([]model.Loan, error)
	ListLoansByItem(ctx context.Context, itemID string) ([]model.Loan, error)
	Health(ctx context.Context) error
	CB() circuitbreaker.CircuitBreaker
}

type Service struct {
	log         *zap.Logger
	repo        repository.Repository
	catalog     CatalogClient
	circulation CirculationClient
}

func NewService(log *zap.Logger, repo repository.Repository, catalog CatalogClient, circulation CirculationClient) *Service {
	return &Service{
		log:         log.Named("service"),
		repo:        repo,
		catalog:     catalog,
		circulation: circulation,
	}
}

// Dashboard aggregates live counters from both upstreams and saves the
// result as the stored snapshot. A snapshot write failure is logged,
// not surfaced: the live answer is still good.
func (s *Service) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	var (
		items   []model.Item
		members []model.Member
		active  []model.Loan
		overdue []model.Loan
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.catalog.CB().Call(func() error {
			var err error
			items, err = s.catalog.ListItems(gCtx)
			return err
		})
	})
	g.Go(func() error {
		return s.catalog.CB().Call(func() error {
			var err error
			members, err = s.catalog.ListMembers(gCtx)
			return err
		})
	})
	g.Go(func() error {
		return s.circulation.CB().Call(func() error {
			var err error
			active, err = s.circulation.ListActiveLoans(gCtx)
			return err
		})
	})
	g.Go(func() error {
		return s.circulation.CB().Call(func() error {
			var err error
			overdue, err = s.circulation.ListOverdueLoans(gCtx)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return model.DashboardStats{}, err
	}

	available := 0
	for _, item := range items {
		if item.Availability {
			available++
		}
	}
	stats := model.DashboardStats{
		TotalItems:     len(items),
		TotalMembers:   len(members),
		ActiveLoans:    len(active),
		OverdueLoans:   len(overdue),
		AvailableItems: available,
		LastUpdated:    time.Now().UTC(),
	}
	if err := s.repo.SaveSnapshot(ctx, stats); err != nil {
		s.log.Warn("snapshot save failed", zap.Error(err))
	}
	return stats, nil
}

// StoredDashboard serves the last persisted snapshot without touching
// the upstream services.
func (s *Service) StoredDashboard(ctx context.Context) (model.DashboardStats, error) {
	return s.repo.GetSnapshot(ctx)
}

// MostBorrowed ranks items by how often they appear in the full loan
// log. Items the catalog no longer resolves are kept in the ranking
// under the Unknown placeholder.
func (s *Service) MostBorrowed(ctx context.Context, limit int) ([]model.ItemBorrowingStats, error) {
	if limit <= 0 {
		limit = DefaultStatsLimit
	}
	var loans []model.Loan
	err := s.circulation.CB().Call(func() error {
		var err error
		loans, err = s.circulation.ListLoans(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, loan := range loans {
		counts[loan.ItemID]++
	}

	stats := make([]model.ItemBorrowingStats, 0, len(counts))
	for itemID, count := range counts {
		entry := model.ItemBorrowingStats{
			ItemID:      itemID,
			Title:       model.Unknown,
			Author:      model.Unknown,
			BorrowCount: count,
		}
		if item, err := s.getItem(ctx, itemID); err == nil {
			entry.Title = item.Title
			entry.Author = item.Author
		}
		stats = append(stats, entry)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].BorrowCount > stats[j].BorrowCount })
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

// MemberStats ranks members by borrow count over the full loan log.
func (s *Service) MemberStats(ctx context.Context, limit int) ([]model.MemberBorrowingStats, error) {
	if limit <= 0 {
		limit = DefaultStatsLimit
	}
	var loans []model.Loan
	err := s.circulation.CB().Call(func() error {
		var err error
		loans, err = s.circulation.ListLoans(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, loan := range loans {
		counts[loan.MemberID]++
	}

	stats := make([]model.MemberBorrowingStats, 0, len(counts))
	for memberID, count := range counts {
		entry := model.MemberBorrowingStats{
			MemberID:    memberID,
			Name:        model.Unknown,
			StudentID:   model.Unknown,
			BorrowCount: count,
		}
		if member, err := s.getMember(ctx, memberID); err == nil {
			entry.Name = member.Name
			entry.StudentID = member.StudentID
		}
		stats = append(stats, entry)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].BorrowCount > stats[j].BorrowCount })
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

// BorrowingHistory lists loans joined with item titles and member
// names, newest first. Either filter narrows the upstream query; both
// empty means the full log.
func (s *Service) BorrowingHistory(ctx context.Context, memberID, itemID string) ([]model.BorrowingHistory, error) {
	var loans []model.Loan
	err := s.circulation.CB().Call(func() error {
		var err error
		switch {
		case memberID != "":
			loans, err = s.circulation.ListLoansByMember(ctx, memberID)
		case itemID != "":
			loans, err = s.circulation.ListLoansByItem(ctx, itemID)
		default:
			loans, err = s.circulation.ListLoans(ctx)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.joinHistory(ctx, loans), nil
}

// OverdueLoans is the overdue slice of the history view.
func (s *Service) OverdueLoans(ctx context.Context) ([]model.BorrowingHistory, error) {
	var loans []model.Loan
	err := s.circulation.CB().Call(func() error {
		var err error
		loans, err = s.circulation.ListOverdueLoans(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.joinHistory(ctx, loans), nil
}

func (s *Service) joinHistory(ctx context.Context, loans []model.Loan) []model.BorrowingHistory {
	history := make([]model.BorrowingHistory, 0, len(loans))
	for _, loan := range loans {
		entry := model.BorrowingHistory{
			Loan:       loan,
			ItemTitle:  model.Unknown,
			MemberName: model.Unknown,
		}
		if item, err := s.getItem(ctx, loan.ItemID); err == nil {
			entry.ItemTitle = item.Title
		}
		if member, err := s.getMember(ctx, loan.MemberID); err == nil {
			entry.MemberName = member.Name
		}
		history = append(history, entry)
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Loan.BorrowDate.After(history[j].Loan.BorrowDate)
	})
	return history
}

func (s *Service) getItem(ctx context.Context, itemID string) (model.Item, error) {
	var item model.Item
	err := s.catalog.CB().Call(func() error {
		var err error
		item, err = s.catalog.GetItem(ctx, itemID)
		return err
	})
	return item, err
}

func (s *Service) getMember(ctx context.Context, memberID string) (model.Member, error) {
	var member model.Member
	err := s.catalog.CB().Call(func() error {
		var err error
		member, err = s.catalog.GetMember(ctx, memberID)
		return err
	})
	return member, err
}

// StoreEvent persists a consumed loan event.
func (s *Service) StoreEvent(ctx context.Context, event kafka.LoanEvent) error {
	return s.repo.InsertLoanEvent(ctx, event)
}

func (s *Service) ListEvents(ctx context.Context, limit int) ([]model.LoanEventRecord, error) {
	if limit <= 0 {
		limit = DefaultStatsLimit
	}
	return s.repo.ListLoanEvents(ctx, limit)
}

// CheckDependencies probes both upstreams and never fails itself.
func (s *Service) CheckDependencies(ctx context.Context) map[string]model.DependencyStatus {
	deps := map[string]model.DependencyStatus{}
	if err := s.catalog.Health(ctx); err != nil {
		deps["catalog"] = model.DependencyStatus{Message: err.Error()}
	} else {
		deps["catalog"] = model.DependencyStatus{Healthy: true}
	}
	if err := s.circulation.Health(ctx); err != nil {
		deps["circulation"] = model.DependencyStatus{Message: err.Error()}
	} else {
		deps["circulation"] = model.DependencyStatus{Healthy: true}
	}
	return deps
}
