package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, sub *Subscription) error
	FindByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*Subscription, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]Subscription, error)
	DeactivateMissing(ctx context.Context, db *gorm.DB, seenExternalIDs []string) (int64, error)
}
