package handler

import (
	"context"

	"github.com/mac0206/library-system/catalog/internal/model"
	"github.com/mac0206/library-system/catalog/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ CatalogService = (*service.Service)(nil)

type CatalogService interface {
	CreateItem(ctx context.Context, req model.CreateItemRequest) (model.Item, error)
	GetItemByID(ctx context.Context, id string) (model.Item, error)
	GetAllItems(ctx context.Context) ([]model.Item, error)
	GetAvailableItems(ctx context.Context) ([]model.Item, error)
	GetItemsByOwner(ctx context.Context, owner string) ([]model.Item, error)
	GetItemsByType(ctx context.Context, itemType model.ItemType) ([]model.Item, error)
	UpdateItem(ctx context.Context, id string, req model.UpdateItemRequest) (model.Item, error)
	DeleteItem(ctx context.Context, id string) error

	CreateMember(ctx context.Context, req model.CreateMemberRequest) (model.Member, error)
	GetMemberByID(ctx context.Context, id string) (model.Member, error)
	GetMemberByStudentID(ctx context.Context, studentID string) (model.Member, error)
	GetAllMembers(ctx context.Context) ([]model.Member, error)
	UpdateMember(ctx context.Context, id string, req model.UpdateMemberRequest) (model.Member, error)
	DeleteMember(ctx context.Context, id string) error
}
