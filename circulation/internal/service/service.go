package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/circulation/internal/errs"
	"github.com/mac0206/library-system/circulation/internal/model"
	"github.com/mac0206/library-system/circulation/internal/repository"
	"github.com/mac0206/library-system/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

// CatalogClient is the slice of the catalog service API the engine
// needs. Implementations own the legacy-path fallback; the engine only
// sees canonical item ids.
type CatalogClient interface {
	GetItem(ctx context.Context, itemID string) (model.Item, error)
	SetItemAvailability(ctx context.Context, itemID string, available bool) error
	GetMember(ctx context.Context, memberID string) (model.Member, error)
	UpdateMemberItems(ctx context.Context, memberID string, borrowedItems []string) error
	Health(ctx context.Context) error
}

// Publisher emits loan lifecycle events. Publishing is always
// best-effort and never affects the outcome of a loan operation.
type Publisher interface {
	Publish(topic string, v any) error
}

type Service struct {
	log     *zap.Logger
	repo    repository.Repository
	catalog CatalogClient
	pub     Publisher
}

func NewService(repo repository.Repository, catalog CatalogClient, pub Publisher, log *zap.Logger) *Service {
	return &Service{
		log:     log,
		repo:    repo,
		catalog: catalog,
		pub:     pub,
	}
}

// borrowState tags the saga steps of a borrow so forward progress and
// rollback are explicit rather than buried in error handling.
type borrowState struct {
	loanCreated         bool
	availabilityFlipped bool
	memberUpdated       bool
}

// Borrow creates a loan for itemID/memberID.
//
// The item availability flip is the hard consistency step: if it
// fails, the just-created loan is deleted and the operation fails. The
// member bookkeeping step is soft: failures are logged and swallowed.
func (s *Service) Borrow(ctx context.Context, itemID, memberID string, days int) (model.Loan, error) {
	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, errs.ErrItemNotFound) {
			return model.Loan{}, errs.ErrItemNotFound
		}
		return model.Loan{}, errors.Wrap(errs.ErrAvailabilityCheck, err.Error())
	}
	if !item.Availability {
		return model.Loan{}, errs.ErrItemUnavailable
	}

	// only status=active blocks a new borrow; an overdue-but-unreturned
	// loan slips through this check, matching the historical behavior
	if _, err := s.repo.GetActiveLoanByItem(ctx, itemID); err == nil {
		return model.Loan{}, errs.ErrItemOnLoan
	} else if !errors.Is(err, errs.ErrNoActiveLoan) {
		return model.Loan{}, err
	}

	borrowDate := time.Now().UTC()
	loan := model.Loan{
		ID:         uuid.NewString(),
		ItemID:     itemID,
		MemberID:   memberID,
		BorrowDate: borrowDate,
		DueDate:    model.CalculateDueDate(borrowDate, days),
		IsOverdue:  false,
		Status:     model.StatusActive,
	}

	var st borrowState
	created, err := s.repo.CreateLoan(ctx, loan)
	if err != nil {
		return model.Loan{}, err
	}
	st.loanCreated = true

	if err := s.catalog.SetItemAvailability(ctx, itemID, false); err != nil {
		s.log.Error("borrow: availability flip failed, rolling back loan",
			zap.String("loanId", created.ID), zap.Error(err))
		s.rollbackBorrow(ctx, st, created.ID)
		return model.Loan{}, errors.Wrap(errs.ErrAvailabilityRollback, err.Error())
	}
	st.availabilityFlipped = true

	if err := s.addToMemberItems(ctx, memberID, itemID); err != nil {
		s.log.Warn("borrow: member bookkeeping failed",
			zap.String("memberId", memberID), zap.Error(err))
	} else {
		st.memberUpdated = true
	}

	s.publish(kafka.LoanEvent{
		EventType: kafka.EventLoanBorrowed,
		LoanID:    created.ID,
		ItemID:    created.ItemID,
		MemberID:  created.MemberID,
		Timestamp: borrowDate,
	})

	return created, nil
}

func (s *Service) rollbackBorrow(ctx context.Context, st borrowState, loanID string) {
	if !st.loanCreated {
		return
	}
	if err := s.repo.DeleteLoan(ctx, loanID); err != nil {
		s.log.Error("borrow rollback: delete loan", zap.String("loanId", loanID), zap.Error(err))
	}
}

// Return finalizes a loan. Once the loan is persisted as returned, a
// failing availability flip still fails the operation but the loan is
// not reverted; the resulting item/loan disagreement is a documented
// gap of the protocol, left to operator reconciliation.
func (s *Service) Return(ctx context.Context, loanID string) (model.Loan, error) {
	loan, err := s.repo.GetLoan(ctx, loanID)
	if err != nil {
		return model.Loan{}, err
	}
	if loan.Status == model.StatusReturned {
		return model.Loan{}, errs.ErrAlreadyReturned
	}

	returnDate := time.Now().UTC()
	updated, err := s.repo.MarkReturned(ctx, loanID, returnDate)
	if err != nil {
		if errors.Is(err, errs.ErrLoanNotFound) {
			return model.Loan{}, err
		}
		return model.Loan{}, errors.Wrap(errs.ErrLoanUpdate, err.Error())
	}

	if err := s.catalog.SetItemAvailability(ctx, updated.ItemID, true); err != nil {
		s.log.Error("return: availability flip failed",
			zap.String("loanId", loanID), zap.String("itemId", updated.ItemID), zap.Error(err))
		return model.Loan{}, errors.Wrap(errs.ErrAvailabilityUpdate, err.Error())
	}

	if err := s.removeFromMemberItems(ctx, updated.MemberID, updated.ItemID); err != nil {
		s.log.Warn("return: member bookkeeping failed",
			zap.String("memberId", updated.MemberID), zap.Error(err))
	}

	s.publish(kafka.LoanEvent{
		EventType: kafka.EventLoanReturned,
		LoanID:    updated.ID,
		ItemID:    updated.ItemID,
		MemberID:  updated.MemberID,
		Timestamp: returnDate,
	})

	return updated, nil
}

// ReturnByItemID resolves the unique active loan for itemID and
// delegates to Return.
func (s *Service) ReturnByItemID(ctx context.Context, itemID string) (model.Loan, error) {
	loan, err := s.repo.GetActiveLoanByItem(ctx, itemID)
	if err != nil {
		return model.Loan{}, err
	}
	return s.Return(ctx, loan.ID)
}

// UpdateOverdue promotes every active loan past its due date and
// returns the count of loans currently overdue. It is invoked
// on-demand; there is no background timer.
func (s *Service) UpdateOverdue(ctx context.Context) (int, error) {
	count, err := s.repo.SweepOverdue(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	s.publish(kafka.LoanEvent{
		EventType:    kafka.EventLoanOverdueSweep,
		OverdueCount: count,
		Timestamp:    time.Now().UTC(),
	})
	return count, nil
}

// GetOverdueLoans sweeps first so the result is fresh as of call time.
func (s *Service) GetOverdueLoans(ctx context.Context) ([]model.Loan, error) {
	if _, err := s.repo.SweepOverdue(ctx, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.repo.ListLoansByStatus(ctx, model.StatusOverdue)
}

func (s *Service) GetActiveLoans(ctx context.Context) ([]model.Loan, error) {
	return s.repo.ListLoansByStatus(ctx, model.StatusActive)
}

func (s *Service) GetAllLoans(ctx context.Context) ([]model.Loan, error) {
	return s.repo.ListLoans(ctx)
}

func (s *Service) GetLoanByID(ctx context.Context, id string) (model.Loan, error) {
	return s.repo.GetLoan(ctx, id)
}

func (s *Service) GetLoansByMemberID(ctx context.Context, memberID string) ([]model.Loan, error) {
	return s.repo.ListLoansByMember(ctx, memberID)
}

func (s *Service) GetLoansByItemID(ctx context.Context, itemID string) ([]model.Loan, error) {
	return s.repo.ListLoansByItem(ctx, itemID)
}

// CheckAvailability is a read-through to the catalog service.
func (s *Service) CheckAvailability(ctx context.Context, itemID string) (bool, error) {
	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, errs.ErrItemNotFound) {
			return false, errs.ErrItemNotFound
		}
		return false, errors.Wrap(errs.ErrAvailabilityCheck, err.Error())
	}
	return item.Availability, nil
}

// CheckCatalogHealth probes the catalog dependency.
func (s *Service) CheckCatalogHealth(ctx context.Context) error {
	return s.catalog.Health(ctx)
}

func (s *Service) addToMemberItems(ctx context.Context, memberID, itemID string) error {
	member, err := s.catalog.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	for _, id := range member.BorrowedItems {
		if id == itemID {
			return nil
		}
	}
	return s.catalog.UpdateMemberItems(ctx, memberID, append(member.BorrowedItems, itemID))
}

func (s *Service) removeFromMemberItems(ctx context.Context, memberID, itemID string) error {
	member, err := s.catalog.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	items := make([]string, 0, len(member.BorrowedItems))
	for _, id := range member.BorrowedItems {
		if id != itemID {
			items = append(items, id)
		}
	}
	return s.catalog.UpdateMemberItems(ctx, memberID, items)
}

func (s *Service) publish(event kafka.LoanEvent) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(kafka.LoanTopic, event); err != nil {
		s.log.Warn("publish loan event", zap.String("type", event.EventType), zap.Error(err))
	}
}
