package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// CostRecord is one day's attributed spend for a resource/service pair.
// Records for a closed day are append-only: at most one row may exist per
// (resource, usage date, service) and duplicate inserts are no-ops.
type CostRecord struct {
	ID             snowflake.ID      `gorm:"primaryKey"`
	ResourceID     *snowflake.ID     `gorm:"uniqueIndex:ux_cost_records_resource_date_service,priority:1"`
	SubscriptionID snowflake.ID      `gorm:"not null;index:ix_cost_records_sub_date,priority:1"`
	UsageDate      time.Time         `gorm:"not null;uniqueIndex:ux_cost_records_resource_date_service,priority:2;index:ix_cost_records_sub_date,priority:2"`
	Cost           float64           `gorm:"not null;default:0"`
	Currency       string            `gorm:"type:text;not null;default:USD"`
	ServiceName    string            `gorm:"type:text;not null;uniqueIndex:ux_cost_records_resource_date_service,priority:3"`
	Region         string            `gorm:"type:text;not null"`
	Tags           datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CostRecord) TableName() string { return "cost_records" }

// DailyCost is a per-day aggregate used by the detector and forecaster.
type DailyCost struct {
	Day   time.Time
	Total float64
}

// ResourcePair identifies a (resource, subscription) cost series.
type ResourcePair struct {
	ResourceID     snowflake.ID
	SubscriptionID snowflake.ID
}
