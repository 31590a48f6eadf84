package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) error
	Dismiss(ctx context.Context, id snowflake.ID) error
	MarkImplemented(ctx context.Context, id snowflake.ID) error
}

type UpsertRequest struct {
	ResourceID       snowflake.ID
	Category         string
	Impact           RecommendationImpact
	Description      string
	EstimatedSavings float64
}

var (
	ErrInvalidResource = errors.New("invalid_resource")
	ErrInvalidCategory = errors.New("invalid_category")
)
