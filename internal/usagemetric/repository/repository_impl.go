package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	usagemetricdomain "github.com/cloudlens/cloudlens/internal/usagemetric/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() usagemetricdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, m *usagemetricdomain.UsageMetric) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO usage_metrics (id, resource_id, metric_name, value, unit, recorded_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.ResourceID,
		m.MetricName,
		m.Value,
		m.Unit,
		m.RecordedAt,
		m.CreatedAt,
	).Error
}

func (r *repo) ListForResource(ctx context.Context, db *gorm.DB, resourceID snowflake.ID, metricName string, from, to time.Time) ([]usagemetricdomain.UsageMetric, error) {
	var metrics []usagemetricdomain.UsageMetric
	err := db.WithContext(ctx).Raw(
		`SELECT id, resource_id, metric_name, value, unit, recorded_at, created_at
		 FROM usage_metrics
		 WHERE resource_id = ? AND metric_name = ? AND recorded_at >= ? AND recorded_at <= ?
		 ORDER BY recorded_at ASC`,
		resourceID,
		metricName,
		from,
		to,
	).Scan(&metrics).Error
	if err != nil {
		return nil, err
	}
	return metrics, nil
}
