package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type RecommendationStatus string

const (
	RecommendationStatusActive      RecommendationStatus = "active"
	RecommendationStatusDismissed   RecommendationStatus = "dismissed"
	RecommendationStatusImplemented RecommendationStatus = "implemented"
)

type RecommendationImpact string

const (
	RecommendationImpactLow    RecommendationImpact = "low"
	RecommendationImpactMedium RecommendationImpact = "medium"
	RecommendationImpactHigh   RecommendationImpact = "high"
)

// Recommendation is an upstream optimization advisory tied to a resource.
type Recommendation struct {
	ID               snowflake.ID         `gorm:"primaryKey"`
	ResourceID       snowflake.ID         `gorm:"not null;uniqueIndex:ux_recommendations_resource_category,priority:1"`
	Category         string               `gorm:"type:text;not null;uniqueIndex:ux_recommendations_resource_category,priority:2"`
	Impact           RecommendationImpact `gorm:"type:text;not null;default:medium"`
	Description      string               `gorm:"type:text;not null"`
	EstimatedSavings float64              `gorm:"not null;default:0"`
	Status           RecommendationStatus `gorm:"type:text;not null;default:active"`
	CreatedAt        time.Time            `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time            `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Recommendation) TableName() string { return "recommendations" }
