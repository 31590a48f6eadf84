package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/cloudlens/cloudlens/internal/alert/domain"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() alertdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, a *alertdomain.Alert) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO alerts (id, alert_type, severity, title, message, resource_id, budget_id, budget_threshold, read, resolved, resolved_at, notified_channels, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.AlertType,
		a.Severity,
		a.Title,
		a.Message,
		a.ResourceID,
		a.BudgetID,
		a.BudgetThreshold,
		a.Read,
		a.Resolved,
		a.ResolvedAt,
		a.NotifiedChannels,
		a.Metadata,
		a.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*alertdomain.Alert, error) {
	var alert alertdomain.Alert
	err := db.WithContext(ctx).Raw(
		`SELECT id, alert_type, severity, title, message, resource_id, budget_id, budget_threshold, read, resolved, resolved_at, notified_channels, metadata, created_at
		 FROM alerts WHERE id = ?`,
		id,
	).Scan(&alert).Error
	if err != nil {
		return nil, err
	}
	if alert.ID == 0 {
		return nil, nil
	}
	return &alert, nil
}

func (r *repo) ExistsForBudgetThreshold(ctx context.Context, db *gorm.DB, budgetID snowflake.ID, threshold float64, day time.Time) (bool, error) {
	day = day.UTC()
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1)
		 FROM alerts
		 WHERE budget_id = ? AND budget_threshold = ? AND created_at >= ? AND created_at < ?`,
		budgetID,
		threshold,
		dayStart,
		dayEnd,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) MarkRead(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE alerts SET read = ? WHERE id = ?`,
		true,
		id,
	).Error
}

func (r *repo) SetNotifiedChannels(ctx context.Context, db *gorm.DB, id snowflake.ID, channels []string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE alerts SET notified_channels = ? WHERE id = ?`,
		pq.StringArray(channels),
		id,
	).Error
}

func (r *repo) MarkResolved(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	// resolved_at is written once; re-resolving keeps the first timestamp.
	return db.WithContext(ctx).Exec(
		`UPDATE alerts SET resolved = ?, resolved_at = COALESCE(resolved_at, ?) WHERE id = ?`,
		true,
		at,
		id,
	).Error
}

func (r *repo) ListUnresolved(ctx context.Context, db *gorm.DB, limit int) ([]alertdomain.Alert, error) {
	var alerts []alertdomain.Alert
	err := db.WithContext(ctx).Raw(
		`SELECT id, alert_type, severity, title, message, resource_id, budget_id, budget_threshold, read, resolved, resolved_at, notified_channels, metadata, created_at
		 FROM alerts WHERE resolved = ? ORDER BY created_at DESC LIMIT ?`,
		false,
		limit,
	).Scan(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}
