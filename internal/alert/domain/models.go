package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type AlertType string

const (
	AlertTypeBudget         AlertType = "budget"
	AlertTypeAnomaly        AlertType = "anomaly"
	AlertTypeRecommendation AlertType = "recommendation"
	AlertTypeSystem         AlertType = "system"
)

type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "low"
	AlertSeverityMedium   AlertSeverity = "medium"
	AlertSeverityHigh     AlertSeverity = "high"
	AlertSeverityCritical AlertSeverity = "critical"
)

// Alert is a persisted notification record. Rows are append-mostly: after
// creation only the read/resolved flags may change, and resolved_at is set
// exactly once.
type Alert struct {
	ID              snowflake.ID  `gorm:"primaryKey"`
	AlertType       AlertType     `gorm:"type:text;not null"`
	Severity        AlertSeverity `gorm:"type:text;not null"`
	Title           string        `gorm:"type:text;not null"`
	Message         string        `gorm:"type:text;not null"`
	ResourceID      *snowflake.ID `gorm:"index"`
	BudgetID        *snowflake.ID `gorm:"index:ix_alerts_budget_day,priority:1"`
	BudgetThreshold *float64      `gorm:"index:ix_alerts_budget_day,priority:2"`
	Read            bool          `gorm:"not null;default:false"`
	Resolved        bool          `gorm:"not null;default:false"`
	ResolvedAt      *time.Time    `gorm:""`
	// NotifiedChannels lists the channels that actually delivered, written
	// after best-effort notification.
	NotifiedChannels pq.StringArray    `gorm:"type:text[]"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_alerts_budget_day,priority:3"`
}

func (Alert) TableName() string { return "alerts" }
