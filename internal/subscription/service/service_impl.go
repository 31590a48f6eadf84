package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/cloudlens/cloudlens/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  subscriptiondomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  subscriptiondomain.Repository
	genID *snowflake.Node
}

func New(p Params) subscriptiondomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("subscription.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Upsert(ctx context.Context, req subscriptiondomain.UpsertRequest) (*subscriptiondomain.Subscription, error) {
	externalID := strings.TrimSpace(req.ExternalID)
	if externalID == "" {
		return nil, subscriptiondomain.ErrInvalidExternalID
	}

	state := req.State
	if state == "" {
		state = subscriptiondomain.SubscriptionStateActive
	}

	now := time.Now().UTC()
	sub := &subscriptiondomain.Subscription{
		ID:          s.genID.Generate(),
		ExternalID:  externalID,
		DisplayName: strings.TrimSpace(req.DisplayName),
		State:       state,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Upsert(ctx, s.db, sub); err != nil {
		return nil, err
	}

	// The upsert keeps the original row id on conflict; read it back so
	// callers hold the persisted identity.
	return s.repo.FindByExternalID(ctx, s.db, externalID)
}

func (s *Service) ListActive(ctx context.Context) ([]subscriptiondomain.Subscription, error) {
	return s.repo.ListActive(ctx, s.db)
}

func (s *Service) DeactivateMissing(ctx context.Context, seenExternalIDs []string) (int64, error) {
	count, err := s.repo.DeactivateMissing(ctx, s.db, seenExternalIDs)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.log.Info("subscriptions deactivated", zap.Int64("count", count))
	}
	return count, nil
}
