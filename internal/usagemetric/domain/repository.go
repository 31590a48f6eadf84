package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, metric *UsageMetric) error
	ListForResource(ctx context.Context, db *gorm.DB, resourceID snowflake.ID, metricName string, from, to time.Time) ([]UsageMetric, error)
}
