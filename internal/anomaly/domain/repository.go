package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertIgnoreDuplicate writes an anomaly, reporting whether a row was
	// actually created. An existing (resource, day) row is left untouched.
	InsertIgnoreDuplicate(ctx context.Context, db *gorm.DB, anomaly *CostAnomaly) (bool, error)
	FindByResourceDate(ctx context.Context, db *gorm.DB, resourceID snowflake.ID, day time.Time) (*CostAnomaly, error)
	ListUnresolved(ctx context.Context, db *gorm.DB, limit int) ([]CostAnomaly, error)
}
