package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// UsageMetric is one utilization time-series point. The table is append-only;
// retention is left to the operator.
type UsageMetric struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	ResourceID snowflake.ID `gorm:"not null;index:ix_usage_metrics_resource_time,priority:1"`
	MetricName string       `gorm:"type:text;not null;index:ix_usage_metrics_resource_time,priority:2"`
	Value      float64      `gorm:"not null;default:0"`
	Unit       string       `gorm:"type:text;not null"`
	RecordedAt time.Time    `gorm:"not null;index:ix_usage_metrics_resource_time,priority:3"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (UsageMetric) TableName() string { return "usage_metrics" }
