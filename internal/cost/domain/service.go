package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Append writes one immutable cost fact. Returns false when the
	// (resource, date, service) key already exists.
	Append(ctx context.Context, req AppendRequest) (bool, error)
	MonthToDateSpend(ctx context.Context, subscriptionID snowflake.ID, now time.Time) (float64, error)
	DailySeries(ctx context.Context, subscriptionID snowflake.ID, from, to time.Time) ([]DailyCost, error)
}

type AppendRequest struct {
	ResourceID     *snowflake.ID
	SubscriptionID snowflake.ID
	UsageDate      time.Time
	Cost           float64
	Currency       string
	ServiceName    string
	Region         string
	Tags           map[string]interface{}
}

var (
	ErrInvalidSubscription = errors.New("invalid_subscription")
	ErrInvalidUsageDate    = errors.New("invalid_usage_date")
)

// Day truncates t to its UTC calendar day, the canonical form for
// usage_date and anomaly_date columns.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
