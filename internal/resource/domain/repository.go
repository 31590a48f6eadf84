package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	UpsertGroup(ctx context.Context, db *gorm.DB, group *ResourceGroup) error
	FindGroup(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID, name string) (*ResourceGroup, error)
	Upsert(ctx context.Context, db *gorm.DB, resource *Resource) error
	FindByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*Resource, error)
	ListRunningByTypePrefix(ctx context.Context, db *gorm.DB, typePrefix string, limit int) ([]Resource, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
