package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Budget, error)
	// RecomputeSpend refreshes current_spend for every active monthly budget
	// scoped to a subscription, summing cost records from the first day of
	// the current month through today. Full recompute, never incremental.
	RecomputeSpend(ctx context.Context) (int, error)
	// CheckBudgetAlerts walks each active budget's thresholds in descending
	// order and raises at most one alert per budget per day for the highest
	// newly-crossed threshold.
	CheckBudgetAlerts(ctx context.Context) (int, error)
}

type CreateRequest struct {
	Name            string
	Amount          float64
	Period          BudgetPeriod
	SubscriptionID  *snowflake.ID
	ResourceGroupID *snowflake.ID
	Thresholds      []float64
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidAmount = errors.New("invalid_amount")
)
