package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/cloudlens/cloudlens/internal/alert/domain"
	anomalydomain "github.com/cloudlens/cloudlens/internal/anomaly/domain"
	"github.com/cloudlens/cloudlens/internal/clock"
	costdomain "github.com/cloudlens/cloudlens/internal/cost/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// minBaselineDays is the shortest cost history a resource needs before its
// daily spend can be scored. Shorter series produce unstable baselines and
// are skipped outright.
const minBaselineDays = 7

// scoredDays is how many trailing calendar days are scored each run.
const scoredDays = 3

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     anomalydomain.Repository
	CostRepo costdomain.Repository
	AlertSvc alertdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     anomalydomain.Repository
	costRepo costdomain.Repository
	alertSvc alertdomain.Service
}

func New(p Params) anomalydomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("anomaly.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		costRepo: p.CostRepo,
		alertSvc: p.AlertSvc,
	}
}

func (s *Service) DetectAnomalies(ctx context.Context, lookbackDays int, zThreshold float64) (int, error) {
	if lookbackDays < minBaselineDays {
		lookbackDays = minBaselineDays
	}
	today := costdomain.Day(s.clock.Now())
	from := today.AddDate(0, 0, -lookbackDays)

	pairs, err := s.costRepo.ListPairsWithRecords(ctx, s.db, from, today)
	if err != nil {
		return 0, err
	}

	created := 0
	var itemErrs error
	for _, pair := range pairs {
		n, err := s.detectForResource(ctx, pair, from, today, zThreshold)
		if err != nil {
			itemErrs = errors.Join(itemErrs, err)
			s.log.Warn("anomaly detection failed for resource",
				zap.String("resource_id", pair.ResourceID.String()),
				zap.Error(err),
			)
			continue
		}
		created += n
	}
	return created, itemErrs
}

func (s *Service) detectForResource(ctx context.Context, pair costdomain.ResourcePair, from, today time.Time, zThreshold float64) (int, error) {
	series, err := s.costRepo.DailyTotalsForResource(ctx, s.db, pair.ResourceID, from, today)
	if err != nil {
		return 0, err
	}
	if len(series) < minBaselineDays {
		return 0, nil
	}

	mean, stddev := meanStddev(series)
	if stddev == 0 {
		return 0, nil
	}

	cutoff := today.AddDate(0, 0, -(scoredDays - 1))
	created := 0
	for _, point := range series {
		if point.Day.Before(cutoff) {
			continue
		}
		z := (point.Total - mean) / stddev
		if z < zThreshold {
			continue
		}
		ok, err := s.record(ctx, pair, point, mean, z)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// record persists the anomaly and, for high/critical severity, raises an
// alert. A pre-existing (resource, day) row makes the whole step a no-op.
func (s *Service) record(ctx context.Context, pair costdomain.ResourcePair, point costdomain.DailyCost, mean, z float64) (bool, error) {
	severity := severityForZScore(z)
	deviation := (point.Total - mean) / mean * 100

	anomaly := &anomalydomain.CostAnomaly{
		ID:             s.genID.Generate(),
		ResourceID:     pair.ResourceID,
		SubscriptionID: pair.SubscriptionID,
		AnomalyDate:    point.Day,
		ExpectedCost:   round2(mean),
		ActualCost:     round2(point.Total),
		DeviationPct:   round2(deviation),
		ZScore:         round2(z),
		Severity:       severity,
		CreatedAt:      time.Now().UTC(),
	}

	inserted, err := s.repo.InsertIgnoreDuplicate(ctx, s.db, anomaly)
	if err != nil {
		return false, err
	}
	if !inserted {
		return false, nil
	}

	if severity == anomalydomain.AnomalySeverityHigh || severity == anomalydomain.AnomalySeverityCritical {
		resourceID := pair.ResourceID
		_, err := s.alertSvc.Send(ctx, alertdomain.SendRequest{
			Type:       alertdomain.AlertTypeAnomaly,
			Severity:   alertdomain.AlertSeverity(severity),
			Title:      fmt.Sprintf("Cost anomaly on %s", point.Day.Format("2006-01-02")),
			Message:    fmt.Sprintf("Daily cost %.2f deviates from the %.2f baseline (z-score %.2f).", anomaly.ActualCost, anomaly.ExpectedCost, anomaly.ZScore),
			ResourceID: &resourceID,
			Metadata: map[string]interface{}{
				"anomaly_id": anomaly.ID.String(),
				"z_score":    fmt.Sprintf("%.2f", anomaly.ZScore),
			},
		})
		if err != nil {
			s.log.Warn("anomaly alert dispatch failed",
				zap.String("anomaly_id", anomaly.ID.String()),
				zap.Error(err),
			)
		}
	}
	return true, nil
}

// meanStddev computes the mean and population standard deviation of the
// series. The scored day stays in the baseline, matching a full-window
// recomputation on every run.
func meanStddev(series []costdomain.DailyCost) (float64, float64) {
	sum := 0.0
	for _, point := range series {
		sum += point.Total
	}
	mean := sum / float64(len(series))

	variance := 0.0
	for _, point := range series {
		diff := point.Total - mean
		variance += diff * diff
	}
	variance /= float64(len(series))
	return mean, math.Sqrt(variance)
}

func severityForZScore(z float64) anomalydomain.AnomalySeverity {
	switch {
	case z >= 4:
		return anomalydomain.AnomalySeverityCritical
	case z >= 3:
		return anomalydomain.AnomalySeverityHigh
	default:
		return anomalydomain.AnomalySeverityMedium
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
