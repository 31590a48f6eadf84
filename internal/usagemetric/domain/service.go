package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Append(ctx context.Context, req AppendRequest) error
	ListForResource(ctx context.Context, resourceID snowflake.ID, metricName string, from, to time.Time) ([]UsageMetric, error)
}

type AppendRequest struct {
	ResourceID snowflake.ID
	MetricName string
	Value      float64
	Unit       string
	RecordedAt time.Time
}

var (
	ErrInvalidResource   = errors.New("invalid_resource")
	ErrInvalidMetricName = errors.New("invalid_metric_name")
)
