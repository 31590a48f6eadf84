package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, alert *Alert) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Alert, error)
	// ExistsForBudgetThreshold reports whether a budget alert for the given
	// threshold was already created on the calendar day containing `day`.
	ExistsForBudgetThreshold(ctx context.Context, db *gorm.DB, budgetID snowflake.ID, threshold float64, day time.Time) (bool, error)
	MarkRead(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	SetNotifiedChannels(ctx context.Context, db *gorm.DB, id snowflake.ID, channels []string) error
	MarkResolved(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	ListUnresolved(ctx context.Context, db *gorm.DB, limit int) ([]Alert, error)
}
