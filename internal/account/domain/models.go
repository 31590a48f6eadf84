package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// AdminAccount is a notification recipient for high-severity alerts.
type AdminAccount struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Email     string       `gorm:"type:text;not null;uniqueIndex:ux_admin_accounts_email"`
	Name      string       `gorm:"type:text;not null"`
	Active    bool         `gorm:"not null;default:true"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (AdminAccount) TableName() string { return "admin_accounts" }
