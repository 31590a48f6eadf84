package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	costdomain "github.com/cloudlens/cloudlens/internal/cost/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  costdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  costdomain.Repository
	genID *snowflake.Node
}

func New(p Params) costdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("cost.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Append(ctx context.Context, req costdomain.AppendRequest) (bool, error) {
	if req.SubscriptionID == 0 {
		return false, costdomain.ErrInvalidSubscription
	}
	if req.UsageDate.IsZero() {
		return false, costdomain.ErrInvalidUsageDate
	}

	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	record := &costdomain.CostRecord{
		ID:             s.genID.Generate(),
		ResourceID:     req.ResourceID,
		SubscriptionID: req.SubscriptionID,
		UsageDate:      costdomain.Day(req.UsageDate),
		Cost:           req.Cost,
		Currency:       currency,
		ServiceName:    strings.TrimSpace(req.ServiceName),
		Region:         req.Region,
		Tags:           req.Tags,
		CreatedAt:      time.Now().UTC(),
	}

	return s.repo.InsertIgnoreDuplicate(ctx, s.db, record)
}

func (s *Service) MonthToDateSpend(ctx context.Context, subscriptionID snowflake.ID, now time.Time) (float64, error) {
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.repo.SumForSubscription(ctx, s.db, subscriptionID, monthStart, costdomain.Day(now))
}

func (s *Service) DailySeries(ctx context.Context, subscriptionID snowflake.ID, from, to time.Time) ([]costdomain.DailyCost, error) {
	return s.repo.DailyTotalsForSubscription(ctx, s.db, subscriptionID, costdomain.Day(from), costdomain.Day(to))
}
