package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertIgnoreDuplicate appends a cost record, reporting whether a row
	// was actually written. An existing (resource, date, service) row is
	// left untouched.
	InsertIgnoreDuplicate(ctx context.Context, db *gorm.DB, record *CostRecord) (bool, error)
	FindByKey(ctx context.Context, db *gorm.DB, resourceID *snowflake.ID, usageDate time.Time, serviceName string) (*CostRecord, error)
	SumForSubscription(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID, from, to time.Time) (float64, error)
	DailyTotalsForSubscription(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID, from, to time.Time) ([]DailyCost, error)
	DailyTotalsForResource(ctx context.Context, db *gorm.DB, resourceID snowflake.ID, from, to time.Time) ([]DailyCost, error)
	ListPairsWithRecords(ctx context.Context, db *gorm.DB, from, to time.Time) ([]ResourcePair, error)
}
