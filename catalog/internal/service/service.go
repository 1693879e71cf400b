package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mac0206/library-system/catalog/internal/errs"
	"github.com/mac0206/library-system/catalog/internal/model"
	"github.com/mac0206/library-system/catalog/internal/repository"
)

type Service struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

// CreateItem validates and stores a new item. Availability defaults to
// true and type to book, matching the historical schema defaults.
func (s *Service) CreateItem(ctx context.Context, req model.CreateItemRequest) (model.Item, error) {
	title := strings.TrimSpace(req.Title)
	owner := strings.TrimSpace(req.Owner)
	if title == "" {
		return model.Item{}, errs.ErrTitleRequired
	}
	if owner == "" {
		return model.Item{}, errs.ErrOwnerRequired
	}
	itemType := req.Type
	if itemType == "" {
		itemType = model.TypeBook
	}
	if !model.ValidItemType(itemType) {
		return model.Item{}, errs.ErrInvalidItemType
	}
	availability := true
	if req.Availability != nil {
		availability = *req.Availability
	}

	return s.repo.CreateItem(ctx, model.Item{
		ID:           uuid.NewString(),
		Title:        title,
		Type:         itemType,
		Availability: availability,
		Owner:        owner,
		Author:       strings.TrimSpace(req.Author),
		ISBN:         strings.TrimSpace(req.ISBN),
	})
}

func (s *Service) GetItemByID(ctx context.Context, id string) (model.Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) GetAllItems(ctx context.Context) ([]model.Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *Service) GetAvailableItems(ctx context.Context) ([]model.Item, error) {
	return s.repo.ListAvailableItems(ctx)
}

func (s *Service) GetItemsByOwner(ctx context.Context, owner string) ([]model.Item, error) {
	return s.repo.ListItemsByOwner(ctx, owner)
}

func (s *Service) GetItemsByType(ctx context.Context, itemType model.ItemType) ([]model.Item, error) {
	if !model.ValidItemType(itemType) {
		return nil, errs.ErrInvalidItemType
	}
	return s.repo.ListItemsByType(ctx, itemType)
}

// UpdateItem applies a partial update. An empty body is a no-op read
// so bare availability flips and full edits share one path.
func (s *Service) UpdateItem(ctx context.Context, id string, req model.UpdateItemRequest) (model.Item, error) {
	if req.Empty() {
		return s.repo.GetItem(ctx, id)
	}
	if req.Type != nil && !model.ValidItemType(*req.Type) {
		return model.Item{}, errs.ErrInvalidItemType
	}
	if req.Owner != nil && strings.TrimSpace(*req.Owner) == "" {
		return model.Item{}, errs.ErrOwnerRequired
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return model.Item{}, errs.ErrTitleRequired
	}
	return s.repo.UpdateItem(ctx, id, req)
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	return s.repo.DeleteItem(ctx, id)
}

func (s *Service) CreateMember(ctx context.Context, req model.CreateMemberRequest) (model.Member, error) {
	name := strings.TrimSpace(req.Name)
	studentID := strings.TrimSpace(req.StudentID)
	if name == "" {
		return model.Member{}, errs.ErrNameRequired
	}
	if studentID == "" {
		return model.Member{}, errs.ErrStudentIDRequired
	}
	borrowed := req.BorrowedItems
	if borrowed == nil {
		borrowed = []string{}
	}

	return s.repo.CreateMember(ctx, model.Member{
		ID:            uuid.NewString(),
		Name:          name,
		StudentID:     studentID,
		BorrowedItems: borrowed,
		Email:         strings.TrimSpace(req.Email),
	})
}

func (s *Service) GetMemberByID(ctx context.Context, id string) (model.Member, error) {
	return s.repo.GetMember(ctx, id)
}

func (s *Service) GetMemberByStudentID(ctx context.Context, studentID string) (model.Member, error) {
	return s.repo.GetMemberByStudentID(ctx, studentID)
}

func (s *Service) GetAllMembers(ctx context.Context) ([]model.Member, error) {
	return s.repo.ListMembers(ctx)
}

func (s *Service) UpdateMember(ctx context.Context, id string, req model.UpdateMemberRequest) (model.Member, error) {
	if req.Empty() {
		return s.repo.GetMember(ctx, id)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return model.Member{}, errs.ErrNameRequired
	}
	if req.StudentID != nil && strings.TrimSpace(*req.StudentID) == "" {
		return model.Member{}, errs.ErrStudentIDRequired
	}
	return s.repo.UpdateMember(ctx, id, req)
}

func (s *Service) DeleteMember(ctx context.Context, id string) error {
	return s.repo.DeleteMember(ctx, id)
}
