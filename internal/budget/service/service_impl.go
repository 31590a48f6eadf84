package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/cloudlens/cloudlens/internal/alert/domain"
	budgetdomain "github.com/cloudlens/cloudlens/internal/budget/domain"
	"github.com/cloudlens/cloudlens/internal/clock"
	costdomain "github.com/cloudlens/cloudlens/internal/cost/domain"
	"go.uber.org/fx"
	"gorm.io/datatypes"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      budgetdomain.Repository
	CostSvc   costdomain.Service
	AlertRepo alertdomain.Repository
	AlertSvc  alertdomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      budgetdomain.Repository
	genID     *snowflake.Node
	clock     clock.Clock
	costSvc   costdomain.Service
	alertRepo alertdomain.Repository
	alertSvc  alertdomain.Service
}

func New(p Params) budgetdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("budget.service"),
		repo:      p.Repo,
		genID:     p.GenID,
		clock:     p.Clock,
		costSvc:   p.CostSvc,
		alertRepo: p.AlertRepo,
		alertSvc:  p.AlertSvc,
	}
}

func (s *Service) Create(ctx context.Context, req budgetdomain.CreateRequest) (*budgetdomain.Budget, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, budgetdomain.ErrInvalidName
	}
	if req.Amount < 0 {
		return nil, budgetdomain.ErrInvalidAmount
	}

	period := req.Period
	if period == "" {
		period = budgetdomain.BudgetPeriodMonthly
	}

	now := time.Now().UTC()
	budget := &budgetdomain.Budget{
		ID:              s.genID.Generate(),
		Name:            name,
		Amount:          req.Amount,
		Period:          period,
		SubscriptionID:  req.SubscriptionID,
		ResourceGroupID: req.ResourceGroupID,
		Thresholds:      datatypes.NewJSONSlice(req.Thresholds),
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Insert(ctx, s.db, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

func (s *Service) RecomputeSpend(ctx context.Context) (int, error) {
	budgets, err := s.repo.ListActiveMonthlyWithSubscription(ctx, s.db)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	updated := 0
	var itemErrs error
	for _, budget := range budgets {
		spend, err := s.costSvc.MonthToDateSpend(ctx, *budget.SubscriptionID, now)
		if err != nil {
			itemErrs = errors.Join(itemErrs, err)
			s.log.Warn("budget spend recompute failed",
				zap.String("budget_id", budget.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := s.repo.UpdateCurrentSpend(ctx, s.db, budget.ID, spend); err != nil {
			itemErrs = errors.Join(itemErrs, err)
			continue
		}
		updated++
	}
	return updated, itemErrs
}

func (s *Service) CheckBudgetAlerts(ctx context.Context) (int, error) {
	budgets, err := s.repo.ListActive(ctx, s.db)
	if err != nil {
		return 0, err
	}

	today := s.clock.Now()
	created := 0
	var itemErrs error
	for i := range budgets {
		ok, err := s.evaluateBudget(ctx, &budgets[i], today)
		if err != nil {
			itemErrs = errors.Join(itemErrs, err)
			continue
		}
		if ok {
			created++
		}
	}
	return created, itemErrs
}

// evaluateBudget attempts at most one alert per budget per run: the highest
// threshold the current spend percentage meets. A duplicate for the same
// (budget, threshold, day) ends evaluation without falling through to lower
// thresholds, so re-running the check the same day stays silent.
func (s *Service) evaluateBudget(ctx context.Context, budget *budgetdomain.Budget, today time.Time) (bool, error) {
	pct := 0.0
	if budget.Amount > 0 {
		pct = budget.CurrentSpend / budget.Amount * 100
	}

	thresholds := make([]float64, len(budget.Thresholds))
	copy(thresholds, budget.Thresholds)
	sort.Sort(sort.Reverse(sort.Float64Slice(thresholds)))

	for _, threshold := range thresholds {
		if pct < threshold {
			continue
		}

		exists, err := s.alertRepo.ExistsForBudgetThreshold(ctx, s.db, budget.ID, threshold, today)
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}

		budgetID := budget.ID
		thresholdValue := threshold
		_, err = s.alertSvc.Send(ctx, alertdomain.SendRequest{
			Type:            alertdomain.AlertTypeBudget,
			Severity:        severityForThreshold(threshold),
			Title:           fmt.Sprintf("Budget %q reached %.0f%% threshold", budget.Name, threshold),
			Message:         fmt.Sprintf("Current spend %.2f is %.1f%% of the %.2f budget.", budget.CurrentSpend, pct, budget.Amount),
			BudgetID:        &budgetID,
			BudgetThreshold: &thresholdValue,
			Metadata: map[string]interface{}{
				"spend_pct": fmt.Sprintf("%.1f", pct),
			},
		})
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func severityForThreshold(threshold float64) alertdomain.AlertSeverity {
	switch {
	case threshold >= 100:
		return alertdomain.AlertSeverityCritical
	case threshold >= 90:
		return alertdomain.AlertSeverityHigh
	case threshold >= 75:
		return alertdomain.AlertSeverityMedium
	default:
		return alertdomain.AlertSeverityLow
	}
}
