package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/catalog/internal/errs"
	"github.com/mac0206/library-system/catalog/internal/model"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateItem(ctx context.Context, item model.Item) (model.Item, error)
	GetItem(ctx context.Context, id string) (model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	ListAvailableItems(ctx context.Context) ([]model.Item, error)
	ListItemsByOwner(ctx context.Context, owner string) ([]model.Item, error)
	ListItemsByType(ctx context.Context, itemType model.ItemType) ([]model.Item, error)
	UpdateItem(ctx context.Context, id string, req model.UpdateItemRequest) (model.Item, error)
	DeleteItem(ctx context.Context, id string) error

	CreateMember(ctx context.Context, member model.Member) (model.Member, error)
	GetMember(ctx context.Context, id string) (model.Member, error)
	GetMemberByStudentID(ctx context.Context, studentID string) (model.Member, error)
	ListMembers(ctx context.Context) ([]model.Member, error)
	UpdateMember(ctx context.Context, id string, req model.UpdateMemberRequest) (model.Member, error)
	DeleteMember(ctx context.Context, id string) error
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

const (
	itemsTableName   = `items`
	membersTableName = `members`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	itemColumns = []string{
		"id", "title", "type", "availability", "owner", "author", "isbn",
		"created_at", "updated_at",
	}
	memberColumns = []string{
		"id", "name", "student_id", "borrowed_items", "email",
		"created_at", "updated_at",
	}
)

func columns(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}

func (r *repository) CreateItem(ctx context.Context, item model.Item) (model.Item, error) {
	q, args, err := qb.Insert(itemsTableName).
		Columns("id", "title", "type", "availability", "owner", "author", "isbn").
		Values(item.ID, item.Title, item.Type, item.Availability, item.Owner, item.Author, item.ISBN).
		Suffix("returning " + columns(itemColumns)).
		ToSql()
	if err != nil {
		return model.Item{}, err
	}
	var created model.Item
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		r.log.Error("CreateItem", zap.String("q", q), zap.Any("args", args))
		return model.Item{}, err
	}
	return created, nil
}

func (r *repository) GetItem(ctx context.Context, id string) (model.Item, error) {
	q, args, err := qb.Select(itemColumns...).
		From(itemsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Item{}, err
	}
	var item model.Item
	if err := r.db.GetContext(ctx, &item, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, errs.ErrItemNotFound
		}
		return model.Item{}, err
	}
	return item, nil
}

func (r *repository) ListItems(ctx context.Context) ([]model.Item, error) {
	return r.selectItems(ctx, qb.Select(itemColumns...).From(itemsTableName).OrderBy("created_at desc"))
}

func (r *repository) ListAvailableItems(ctx context.Context) ([]model.Item, error) {
	return r.selectItems(ctx, qb.Select(itemColumns...).
		From(itemsTableName).
		Where(sq.Eq{"availability": true}).
		OrderBy("created_at desc"))
}

func (r *repository) ListItemsByOwner(ctx context.Context, owner string) ([]model.Item, error) {
	return r.selectItems(ctx, qb.Select(itemColumns...).
		From(itemsTableName).
		Where(sq.Eq{"owner": owner}).
		OrderBy("created_at desc"))
}

func (r *repository) ListItemsByType(ctx context.Context, itemType model.ItemType) ([]model.Item, error) {
	return r.selectItems(ctx, qb.Select(itemColumns...).
		From(itemsTableName).
		Where(sq.Eq{"type": itemType}).
		OrderBy("created_at desc"))
}

func (r *repository) selectItems(ctx context.Context, b sq.SelectBuilder) ([]model.Item, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.Item, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) UpdateItem(ctx context.Context, id string, req model.UpdateItemRequest) (model.Item, error) {
	b := qb.Update(itemsTableName).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + columns(itemColumns))
	if req.Title != nil {
		b = b.Set("title", *req.Title)
	}
	if req.Type != nil {
		b = b.Set("type", *req.Type)
	}
	if req.Availability != nil {
		b = b.Set("availability", *req.Availability)
	}
	if req.Owner != nil {
		b = b.Set("owner", *req.Owner)
	}
	if req.Author != nil {
		b = b.Set("author", *req.Author)
	}
	if req.ISBN != nil {
		b = b.Set("isbn", *req.ISBN)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return model.Item{}, err
	}
	var item model.Item
	if err := r.db.GetContext(ctx, &item, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, errs.ErrItemNotFound
		}
		return model.Item{}, err
	}
	return item, nil
}

func (r *repository) DeleteItem(ctx context.Context, id string) error {
	q, args, err := qb.Delete(itemsTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrItemNotFound
	}
	return nil
}

func (r *repository) CreateMember(ctx context.Context, member model.Member) (model.Member, error) {
	q, args, err := qb.Insert(membersTableName).
		Columns("id", "name", "student_id", "borrowed_items", "email").
		Values(member.ID, member.Name, member.StudentID, member.BorrowedItems, member.Email).
		Suffix("returning " + columns(memberColumns)).
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var created model.Member
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Member{}, errs.ErrDuplicateStudentID
		}
		r.log.Error("CreateMember", zap.String("q", q), zap.Any("args", args))
		return model.Member{}, err
	}
	return created, nil
}

func (r *repository) GetMember(ctx context.Context, id string) (model.Member, error) {
	q, args, err := qb.Select(memberColumns...).
		From(membersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var member model.Member
	if err := r.db.GetContext(ctx, &member, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, errs.ErrMemberNotFound
		}
		return model.Member{}, err
	}
	return member, nil
}

func (r *repository) GetMemberByStudentID(ctx context.Context, studentID string) (model.Member, error) {
	q, args, err := qb.Select(memberColumns...).
		From(membersTableName).
		Where(sq.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var member model.Member
	if err := r.db.GetContext(ctx, &member, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, errs.ErrMemberNotFound
		}
		return model.Member{}, err
	}
	return member, nil
}

func (r *repository) ListMembers(ctx context.Context) ([]model.Member, error) {
	q, args, err := qb.Select(memberColumns...).
		From(membersTableName).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	members := make([]model.Member, 0)
	if err := r.db.SelectContext(ctx, &members, q, args...); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) UpdateMember(ctx context.Context, id string, req model.UpdateMemberRequest) (model.Member, error) {
	b := qb.Update(membersTableName).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + columns(memberColumns))
	if req.Name != nil {
		b = b.Set("name", *req.Name)
	}
	if req.StudentID != nil {
		b = b.Set("student_id", *req.StudentID)
	}
	if req.BorrowedItems != nil {
		b = b.Set("borrowed_items", model.StringSlice(*req.BorrowedItems))
	}
	if req.Email != nil {
		b = b.Set("email", *req.Email)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return model.Member{}, err
	}
	var member model.Member
	if err := r.db.GetContext(ctx, &member, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, errs.ErrMemberNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Member{}, errs.ErrDuplicateStudentID
		}
		return model.Member{}, err
	}
	return member, nil
}

func (r *repository) DeleteMember(ctx context.Context, id string) error {
	q, args, err := qb.Delete(membersTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrMemberNotFound
	}
	return nil
}
