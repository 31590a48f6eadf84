package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type AnomalySeverity string

const (
	AnomalySeverityMedium   AnomalySeverity = "medium"
	AnomalySeverityHigh     AnomalySeverity = "high"
	AnomalySeverityCritical AnomalySeverity = "critical"
)

// CostAnomaly records a single day whose spend deviated from the resource's
// baseline. One row per (resource, day); re-detection of the same day is a
// no-op.
type CostAnomaly struct {
	ID             snowflake.ID    `gorm:"primaryKey"`
	ResourceID     snowflake.ID    `gorm:"not null;uniqueIndex:ux_cost_anomalies_resource_date"`
	SubscriptionID snowflake.ID    `gorm:"not null"`
	AnomalyDate    time.Time       `gorm:"not null;uniqueIndex:ux_cost_anomalies_resource_date"`
	ExpectedCost   float64         `gorm:"not null;default:0"`
	ActualCost     float64         `gorm:"not null;default:0"`
	DeviationPct   float64         `gorm:"not null;default:0"`
	ZScore         float64         `gorm:"not null;default:0"`
	Severity       AnomalySeverity `gorm:"type:text;not null;default:medium"`
	Resolved       bool            `gorm:"not null;default:false"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CostAnomaly) TableName() string { return "cost_anomalies" }
