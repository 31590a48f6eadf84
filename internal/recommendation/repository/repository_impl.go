package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	recommendationdomain "github.com/cloudlens/cloudlens/internal/recommendation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() recommendationdomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, rec *recommendationdomain.Recommendation) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO recommendations (id, resource_id, category, impact, description, estimated_savings, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (resource_id, category) DO UPDATE SET
		   impact = excluded.impact,
		   description = excluded.description,
		   estimated_savings = excluded.estimated_savings,
		   updated_at = excluded.updated_at`,
		rec.ID,
		rec.ResourceID,
		rec.Category,
		rec.Impact,
		rec.Description,
		rec.EstimatedSavings,
		rec.Status,
		rec.CreatedAt,
		rec.UpdatedAt,
	).Error
}

func (r *repo) ListActiveForResource(ctx context.Context, db *gorm.DB, resourceID snowflake.ID) ([]recommendationdomain.Recommendation, error) {
	var recs []recommendationdomain.Recommendation
	err := db.WithContext(ctx).Raw(
		`SELECT id, resource_id, category, impact, description, estimated_savings, status, created_at, updated_at
		 FROM recommendations
		 WHERE resource_id = ? AND status = ?
		 ORDER BY estimated_savings DESC`,
		resourceID,
		recommendationdomain.RecommendationStatusActive,
	).Scan(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status recommendationdomain.RecommendationStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE recommendations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status,
		id,
	).Error
}
