package forecast

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/cloudlens/cloudlens/internal/clock"
	costdomain "github.com/cloudlens/cloudlens/internal/cost/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	CostSvc costdomain.Service
}

// Service projects a subscription's daily spend forward from its stored
// cost history.
type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	costSvc costdomain.Service
}

func New(p Params) *Service {
	return &Service{
		log:     p.Log.Named("forecast.service"),
		clock:   p.Clock,
		costSvc: p.CostSvc,
	}
}

func (s *Service) ForecastSubscription(ctx context.Context, subscriptionID snowflake.ID, lookbackDays, horizonDays int) (Result, error) {
	today := costdomain.Day(s.clock.Now())
	from := today.AddDate(0, 0, -lookbackDays)

	series, err := s.costSvc.DailySeries(ctx, subscriptionID, from, today)
	if err != nil {
		return Result{}, err
	}

	history := make([]Point, 0, len(series))
	for _, point := range series {
		history = append(history, Point{Day: point.Day, Cost: point.Total})
	}
	result := Forecast(history, horizonDays)
	if result.InsufficientData {
		s.log.Debug("insufficient history for forecast",
			zap.String("subscription_id", subscriptionID.String()),
			zap.Int("points", len(history)),
		)
	}
	return result, nil
}
