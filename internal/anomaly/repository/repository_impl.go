package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	anomalydomain "github.com/cloudlens/cloudlens/internal/anomaly/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() anomalydomain.Repository {
	return &repo{}
}

func (r *repo) InsertIgnoreDuplicate(ctx context.Context, db *gorm.DB, anomaly *anomalydomain.CostAnomaly) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO cost_anomalies (id, resource_id, subscription_id, anomaly_date, expected_cost, actual_cost, deviation_pct, z_score, severity, resolved, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (resource_id, anomaly_date) DO NOTHING`,
		anomaly.ID,
		anomaly.ResourceID,
		anomaly.SubscriptionID,
		anomaly.AnomalyDate,
		anomaly.ExpectedCost,
		anomaly.ActualCost,
		anomaly.DeviationPct,
		anomaly.ZScore,
		anomaly.Severity,
		anomaly.Resolved,
		anomaly.CreatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindByResourceDate(ctx context.Context, db *gorm.DB, resourceID snowflake.ID, day time.Time) (*anomalydomain.CostAnomaly, error) {
	var anomaly anomalydomain.CostAnomaly
	err := db.WithContext(ctx).Raw(
		`SELECT id, resource_id, subscription_id, anomaly_date, expected_cost, actual_cost, deviation_pct, z_score, severity, resolved, created_at
		 FROM cost_anomalies
		 WHERE resource_id = ? AND anomaly_date = ?`,
		resourceID,
		day,
	).Scan(&anomaly).Error
	if err != nil {
		return nil, err
	}
	if anomaly.ID == 0 {
		return nil, nil
	}
	return &anomaly, nil
}

func (r *repo) ListUnresolved(ctx context.Context, db *gorm.DB, limit int) ([]anomalydomain.CostAnomaly, error) {
	if limit <= 0 {
		limit = 100
	}
	var anomalies []anomalydomain.CostAnomaly
	err := db.WithContext(ctx).Raw(
		`SELECT id, resource_id, subscription_id, anomaly_date, expected_cost, actual_cost, deviation_pct, z_score, severity, resolved, created_at
		 FROM cost_anomalies
		 WHERE resolved = FALSE
		 ORDER BY anomaly_date DESC
		 LIMIT ?`,
		limit,
	).Scan(&anomalies).Error
	if err != nil {
		return nil, err
	}
	return anomalies, nil
}
