package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
)

// Budget is a spend ceiling with ordered alert thresholds (percent of
// amount). current_spend is a denormalized cache recomputed after each cost
// sync; it is derived state, never source of truth.
type Budget struct {
	ID              snowflake.ID                 `gorm:"primaryKey"`
	Name            string                       `gorm:"type:text;not null"`
	Amount          float64                      `gorm:"not null;default:0"`
	Period          BudgetPeriod                 `gorm:"type:text;not null;default:monthly"`
	SubscriptionID  *snowflake.ID                `gorm:"index"`
	ResourceGroupID *snowflake.ID                `gorm:""`
	CurrentSpend    float64                      `gorm:"not null;default:0"`
	Thresholds      datatypes.JSONSlice[float64] `gorm:"type:jsonb"`
	Active          bool                         `gorm:"not null;default:true"`
	CreatedAt       time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Budget) TableName() string { return "budgets" }
