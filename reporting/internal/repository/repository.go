package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/pkg/kafka"
	"github.com/mac0206/library-system/reporting/internal/model"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	SaveSnapshot(ctx context.Context, stats model.DashboardStats) error
	GetSnapshot(ctx context.Context) (model.DashboardStats, error)
	InsertLoanEvent(ctx context.Context, event kafka.LoanEvent) error
	ListLoanEvents(ctx context.Context, limit int) ([]model.LoanEventRecord, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

// SaveSnapshot keeps exactly one row, overwritten on every refresh.
func (r *repository) SaveSnapshot(ctx context.Context, stats model.DashboardStats) error {
	q := `insert into dashboard_snapshots (id, total_items, total_members, active_loans, overdue_loans, available_items, last_updated)
	values (1, @total_items, @total_members, @active_loans, @overdue_loans, @available_items, @last_updated)
	on conflict (id) do update set
		total_items = excluded.total_items,
		total_members = excluded.total_members,
		active_loans = excluded.active_loans,
		overdue_loans = excluded.overdue_loans,
		available_items = excluded.available_items,
		last_updated = excluded.last_updated`
	args := pgx.NamedArgs{
		"total_items":     stats.TotalItems,
		"total_members":   stats.TotalMembers,
		"active_loans":    stats.ActiveLoans,
		"overdue_loans":   stats.OverdueLoans,
		"available_items": stats.AvailableItems,
		"last_updated":    stats.LastUpdated,
	}
	_, err := r.db.Exec(ctx, q, args)
	return err
}

func (r *repository) GetSnapshot(ctx context.Context) (model.DashboardStats, error) {
	const q = `
	select total_items, total_members, active_loans, overdue_loans, available_items, last_updated
	from dashboard_snapshots
	where id = 1
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return model.DashboardStats{}, err
	}
	defer rows.Close()
	stats, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DashboardStats])
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("pgx.CollectOneRow: %w", err)
	}
	return stats, nil
}

func (r *repository) InsertLoanEvent(ctx context.Context, event kafka.LoanEvent) error {
	q := `insert into loan_events (event_type, loan_id, item_id, member_id, overdue_count, timestamp)
	values (@event_type, @loan_id, @item_id, @member_id, @overdue_count, @timestamp)`
	args := pgx.NamedArgs{
		"event_type":    event.EventType,
		"loan_id":       event.LoanID,
		"item_id":       event.ItemID,
		"member_id":     event.MemberID,
		"overdue_count": event.OverdueCount,
		"timestamp":     event.Timestamp,
	}
	_, err := r.db.Exec(ctx, q, args)
	return err
}

func (r *repository) ListLoanEvents(ctx context.Context, limit int) ([]model.LoanEventRecord, error) {
	q := `
	select id, event_type, loan_id, item_id, member_id, overdue_count, timestamp, created_at
	from loan_events
	order by timestamp desc
	limit @limit
`
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.LoanEventRecord])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return events, nil
}
