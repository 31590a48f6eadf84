package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	recommendationdomain "github.com/cloudlens/cloudlens/internal/recommendation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  recommendationdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  recommendationdomain.Repository
	genID *snowflake.Node
}

func New(p Params) recommendationdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("recommendation.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Upsert(ctx context.Context, req recommendationdomain.UpsertRequest) error {
	if req.ResourceID == 0 {
		return recommendationdomain.ErrInvalidResource
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return recommendationdomain.ErrInvalidCategory
	}

	impact := req.Impact
	if impact == "" {
		impact = recommendationdomain.RecommendationImpactMedium
	}

	now := time.Now().UTC()
	return s.repo.Upsert(ctx, s.db, &recommendationdomain.Recommendation{
		ID:               s.genID.Generate(),
		ResourceID:       req.ResourceID,
		Category:         category,
		Impact:           impact,
		Description:      req.Description,
		EstimatedSavings: req.EstimatedSavings,
		Status:           recommendationdomain.RecommendationStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
}

func (s *Service) Dismiss(ctx context.Context, id snowflake.ID) error {
	return s.repo.UpdateStatus(ctx, s.db, id, recommendationdomain.RecommendationStatusDismissed)
}

func (s *Service) MarkImplemented(ctx context.Context, id snowflake.ID) error {
	return s.repo.UpdateStatus(ctx, s.db, id, recommendationdomain.RecommendationStatusImplemented)
}
