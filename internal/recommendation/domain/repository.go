package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, rec *Recommendation) error
	ListActiveForResource(ctx context.Context, db *gorm.DB, resourceID snowflake.ID) ([]Recommendation, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status RecommendationStatus) error
}
