package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, budget *Budget) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Budget, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]Budget, error)
	ListActiveMonthlyWithSubscription(ctx context.Context, db *gorm.DB) ([]Budget, error)
	UpdateCurrentSpend(ctx context.Context, db *gorm.DB, id snowflake.ID, spend float64) error
}
