package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	usagemetricdomain "github.com/cloudlens/cloudlens/internal/usagemetric/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  usagemetricdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  usagemetricdomain.Repository
	genID *snowflake.Node
}

func New(p Params) usagemetricdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("usagemetric.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Append(ctx context.Context, req usagemetricdomain.AppendRequest) error {
	if req.ResourceID == 0 {
		return usagemetricdomain.ErrInvalidResource
	}
	name := strings.TrimSpace(req.MetricName)
	if name == "" {
		return usagemetricdomain.ErrInvalidMetricName
	}

	recordedAt := req.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	return s.repo.Insert(ctx, s.db, &usagemetricdomain.UsageMetric{
		ID:         s.genID.Generate(),
		ResourceID: req.ResourceID,
		MetricName: name,
		Value:      req.Value,
		Unit:       req.Unit,
		RecordedAt: recordedAt.UTC(),
		CreatedAt:  time.Now().UTC(),
	})
}

func (s *Service) ListForResource(ctx context.Context, resourceID snowflake.ID, metricName string, from, to time.Time) ([]usagemetricdomain.UsageMetric, error) {
	return s.repo.ListForResource(ctx, s.db, resourceID, metricName, from, to)
}
