package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/circulation/internal/errs"
	"github.com/mac0206/library-system/circulation/internal/model"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	DeleteLoan(ctx context.Context, id string) error
	GetLoan(ctx context.Context, id string) (model.Loan, error)
	ListLoans(ctx context.Context) ([]model.Loan, error)
	ListLoansByStatus(ctx context.Context, status model.Status) ([]model.Loan, error)
	ListLoansByMember(ctx context.Context, memberID string) ([]model.Loan, error)
	ListLoansByItem(ctx context.Context, itemID string) ([]model.Loan, error)
	GetActiveLoanByItem(ctx context.Context, itemID string) (model.Loan, error)
	MarkReturned(ctx context.Context, id string, returnDate time.Time) (model.Loan, error)
	SweepOverdue(ctx context.Context, now time.Time) (int, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const loansTableName = `loans`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var loanColumns = []string{
	"id", "item_id", "member_id", "borrow_date", "due_date",
	"return_date", "is_overdue", "status", "created_at", "updated_at",
}

func (r *repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	q, args, err := qb.Insert(loansTableName).
		Columns("id", "item_id", "member_id", "borrow_date", "due_date", "is_overdue", "status").
		Values(loan.ID, loan.ItemID, loan.MemberID, loan.BorrowDate, loan.DueDate, loan.IsOverdue, loan.Status).
		Suffix("returning " + columns()).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var created model.Loan
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		// the partial unique index closes the check-then-create race:
		// two concurrent borrows for one item cannot both insert
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Loan{}, errs.ErrItemOnLoan
		}
		r.log.Error("CreateLoan", zap.String("q", q), zap.Any("args", args))
		return model.Loan{}, err
	}
	return created, nil
}

func (r *repository) DeleteLoan(ctx context.Context, id string) error {
	q, args, err := qb.Delete(loansTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrLoanNotFound
	}
	return nil
}

func (r *repository) GetLoan(ctx context.Context, id string) (model.Loan, error) {
	q, args, err := qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrLoanNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) ListLoans(ctx context.Context) ([]model.Loan, error) {
	return r.list(ctx, nil)
}

func (r *repository) ListLoansByStatus(ctx context.Context, status model.Status) ([]model.Loan, error) {
	return r.list(ctx, sq.Eq{"status": status})
}

func (r *repository) ListLoansByMember(ctx context.Context, memberID string) ([]model.Loan, error) {
	return r.list(ctx, sq.Eq{"member_id": memberID})
}

func (r *repository) ListLoansByItem(ctx context.Context, itemID string) ([]model.Loan, error) {
	return r.list(ctx, sq.Eq{"item_id": itemID})
}

func (r *repository) list(ctx context.Context, where interface{}) ([]model.Loan, error) {
	b := qb.Select(loanColumns...).From(loansTableName).OrderBy("borrow_date desc")
	if where != nil {
		b = b.Where(where)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	loans := make([]model.Loan, 0)
	if err := r.db.SelectContext(ctx, &loans, q, args...); err != nil {
		return nil, err
	}
	return loans, nil
}

// GetActiveLoanByItem looks up the loan blocking a new borrow of
// itemID. Only status=active is considered, matching the historical
// check: an overdue-but-unreturned loan does not block here.
func (r *repository) GetActiveLoanByItem(ctx context.Context, itemID string) (model.Loan, error) {
	q, args, err := qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"item_id": itemID, "status": model.StatusActive}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrNoActiveLoan
		}
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) MarkReturned(ctx context.Context, id string, returnDate time.Time) (model.Loan, error) {
	q, args, err := qb.Update(loansTableName).
		Set("return_date", returnDate).
		Set("status", model.StatusReturned).
		Set("is_overdue", false).
		Set("updated_at", returnDate).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + columns()).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrLoanNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

// SweepOverdue promotes every active loan past its due date in a
// single bulk update and returns the number of loans currently
// overdue.
func (r *repository) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	q := `
	update loans
	set is_overdue = true, status = $1, updated_at = $2
	where status = $3 and due_date < $2 and return_date is null`
	if _, err := r.db.ExecContext(ctx, q, model.StatusOverdue, now, model.StatusActive); err != nil {
		return 0, err
	}

	var count int
	cq := `select count(*) from loans where status = $1`
	if err := r.db.QueryRowContext(ctx, cq, model.StatusOverdue).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func columns() string {
	s := loanColumns[0]
	for _, c := range loanColumns[1:] {
		s += ", " + c
	}
	return s
}
