package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type SubscriptionState string

const (
	SubscriptionStateActive   SubscriptionState = "active"
	SubscriptionStateInactive SubscriptionState = "inactive"
)

// Subscription mirrors one upstream billing account. Rows are never deleted,
// only flipped to inactive when the account stops appearing upstream.
type Subscription struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	ExternalID  string            `gorm:"type:text;not null;uniqueIndex:ux_subscriptions_external_id"`
	DisplayName string            `gorm:"type:text;not null"`
	State       SubscriptionState `gorm:"type:text;not null;default:active"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Subscription) TableName() string { return "subscriptions" }

// MapState folds upstream account lifecycle states onto the stored enum.
// Anything other than an enabled/active account is treated as inactive.
func MapState(state string) SubscriptionState {
	switch state {
	case "Enabled", "enabled", "Active", "active":
		return SubscriptionStateActive
	default:
		return SubscriptionStateInactive
	}
}
