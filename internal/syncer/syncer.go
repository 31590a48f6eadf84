package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	alertdomain "github.com/cloudlens/cloudlens/internal/alert/domain"
	anomalydomain "github.com/cloudlens/cloudlens/internal/anomaly/domain"
	budgetdomain "github.com/cloudlens/cloudlens/internal/budget/domain"
	"github.com/cloudlens/cloudlens/internal/clock"
	costdomain "github.com/cloudlens/cloudlens/internal/cost/domain"
	gatewaydomain "github.com/cloudlens/cloudlens/internal/gateway/domain"
	obsmetrics "github.com/cloudlens/cloudlens/internal/observability/metrics"
	"github.com/cloudlens/cloudlens/internal/ratelimit"
	recommendationdomain "github.com/cloudlens/cloudlens/internal/recommendation/domain"
	resourcedomain "github.com/cloudlens/cloudlens/internal/resource/domain"
	subscriptiondomain "github.com/cloudlens/cloudlens/internal/subscription/domain"
	usagemetricdomain "github.com/cloudlens/cloudlens/internal/usagemetric/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidConfig = errors.New("invalid_syncer_config")
)

// Report is what a caller gets back from a full sync: either Skipped (a run
// was already active) or per-stage item counts and the wall-clock duration.
type Report struct {
	Skipped   bool
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Counts    map[string]int
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock

	SubscriptionSvc   subscriptiondomain.Service
	ResourceSvc       resourcedomain.Service
	ResourceRepo      resourcedomain.Repository
	CostSvc           costdomain.Service
	UsageMetricSvc    usagemetricdomain.Service
	RecommendationSvc recommendationdomain.Service
	AnomalySvc        anomalydomain.Service
	BudgetSvc         budgetdomain.Service
	AlertSvc          alertdomain.Service

	Accounts  gatewaydomain.AccountsGateway
	Inventory gatewaydomain.InventoryGateway
	Costs     gatewaydomain.CostGateway
	Metrics   gatewaydomain.MetricsGateway
	Advisor   gatewaydomain.AdvisorGateway

	Guard  *ratelimit.SyncGuard `optional:"true"`
	Config Config               `optional:"true"`
}

// Syncer runs the staged reconciliation pipeline. At most one run executes
// at a time; a second trigger while a run is active gets a skipped report.
type Syncer struct {
	db    *gorm.DB
	log   *zap.Logger
	cfg   Config
	clock clock.Clock

	subscriptionSvc   subscriptiondomain.Service
	resourceSvc       resourcedomain.Service
	resourceRepo      resourcedomain.Repository
	costSvc           costdomain.Service
	usageMetricSvc    usagemetricdomain.Service
	recommendationSvc recommendationdomain.Service
	anomalySvc        anomalydomain.Service
	budgetSvc         budgetdomain.Service
	alertSvc          alertdomain.Service

	accounts  gatewaydomain.AccountsGateway
	inventory gatewaydomain.InventoryGateway
	costs     gatewaydomain.CostGateway
	metrics   gatewaydomain.MetricsGateway
	advisor   gatewaydomain.AdvisorGateway

	guard   *ratelimit.SyncGuard
	running atomic.Bool
}

func New(p Params) (*Syncer, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil ||
		p.SubscriptionSvc == nil || p.ResourceSvc == nil || p.ResourceRepo == nil ||
		p.CostSvc == nil || p.UsageMetricSvc == nil || p.RecommendationSvc == nil ||
		p.AnomalySvc == nil || p.BudgetSvc == nil || p.AlertSvc == nil ||
		p.Accounts == nil || p.Inventory == nil || p.Costs == nil ||
		p.Metrics == nil || p.Advisor == nil {
		return nil, ErrInvalidConfig
	}
	return &Syncer{
		db:                p.DB,
		log:               p.Log.Named("syncer").With(zap.String("component", "syncer")),
		cfg:               p.Config.withDefaults(),
		clock:             p.Clock,
		subscriptionSvc:   p.SubscriptionSvc,
		resourceSvc:       p.ResourceSvc,
		resourceRepo:      p.ResourceRepo,
		costSvc:           p.CostSvc,
		usageMetricSvc:    p.UsageMetricSvc,
		recommendationSvc: p.RecommendationSvc,
		anomalySvc:        p.AnomalySvc,
		budgetSvc:         p.BudgetSvc,
		alertSvc:          p.AlertSvc,
		accounts:          p.Accounts,
		inventory:         p.Inventory,
		costs:             p.Costs,
		metrics:           p.Metrics,
		advisor:           p.Advisor,
		guard:             p.Guard,
	}, nil
}

// Status reports whether a run is active and the configured schedule.
func (s *Syncer) Status() (bool, string) {
	return s.running.Load(), s.cfg.Schedule
}

func (s *Syncer) RunFullSync(ctx context.Context) (*Report, error) {
	if !s.running.CompareAndSwap(false, true) {
		obsmetrics.Sync().IncRunSkipped()
		s.log.Info("sync already running, skipping trigger")
		return &Report{Skipped: true}, nil
	}
	defer s.running.Store(false)

	if s.guard.Enabled() {
		token, ok, err := s.guard.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire sync lock: %w", err)
		}
		if !ok {
			obsmetrics.Sync().IncRunSkipped()
			s.log.Info("sync lock held by another instance, skipping")
			return &Report{Skipped: true}, nil
		}
		defer func() {
			if err := s.guard.Release(context.WithoutCancel(ctx), token); err != nil {
				s.log.Warn("sync lock release failed", zap.Error(err))
			}
		}()
	}

	start := s.clock.Now()
	report := &Report{RunID: uuid.NewString(), StartedAt: start, Counts: make(map[string]int)}
	syncMetrics := obsmetrics.Sync()
	log := s.log.With(zap.String("run_id", report.RunID))
	log.Info("sync run starting")

	stages := []struct {
		Name string
		Run  func(context.Context) (int, error)
	}{
		{obsmetrics.SyncStageSubscriptions, s.syncSubscriptions},
		{obsmetrics.SyncStageResources, s.syncResources},
		{obsmetrics.SyncStageCosts, s.syncCosts},
		{obsmetrics.SyncStageMetrics, s.syncMetrics},
		{obsmetrics.SyncStageRecommendations, s.syncRecommendations},
		{obsmetrics.SyncStageAnomalies, s.detectAnomalies},
		{obsmetrics.SyncStageBudgets, s.evaluateBudgets},
	}

	for _, stage := range stages {
		count, err := s.runStage(ctx, stage.Name, stage.Run)
		if err != nil {
			syncMetrics.IncRun("error")
			s.recordRunFailure(ctx, report.RunID, stage.Name, err)
			return nil, fmt.Errorf("%s: %w", stage.Name, err)
		}
		report.Counts[stage.Name] = count
	}

	report.Duration = time.Since(start)
	syncMetrics.IncRun("success")
	syncMetrics.ObserveRunDuration(report.Duration)
	s.recordRunSuccess(ctx, report)
	return report, nil
}

// runStage wraps one stage with a timeout and stage-level metrics. Stage
// errors are fatal for the run; per-item failures never reach here.
func (s *Syncer) runStage(parent context.Context, name string, fn func(context.Context) (int, error)) (int, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.StageTimeout)
	defer cancel()

	log := s.log.With(zap.String("stage", name))
	log.Info("stage starting")

	count, err := fn(ctx)
	obsmetrics.Sync().ObserveStageDuration(name, time.Since(start))
	if err != nil {
		obsmetrics.Sync().IncStageError(name, err)
		log.Error("stage failed", zap.Error(err))
		return 0, err
	}
	obsmetrics.Sync().AddItemsSynced(name, count)
	log.Info("stage finished", zap.Int("count", count), zap.Duration("took", time.Since(start)))
	return count, nil
}

func (s *Syncer) syncSubscriptions(ctx context.Context) (int, error) {
	rows, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return 0, err
	}

	seen := make([]string, 0, len(rows))
	count := 0
	for _, row := range rows {
		_, err := s.subscriptionSvc.Upsert(ctx, subscriptiondomain.UpsertRequest{
			ExternalID:  row.ExternalID,
			DisplayName: row.DisplayName,
			State:       subscriptiondomain.MapState(row.State),
		})
		if err != nil {
			obsmetrics.Sync().IncItemSkipped(obsmetrics.SyncStageSubscriptions)
			s.log.Warn("subscription upsert failed",
				zap.String("external_id", row.ExternalID),
				zap.Error(err),
			)
			continue
		}
		seen = append(seen, row.ExternalID)
		count++
	}

	if len(seen) > 0 {
		if _, err := s.subscriptionSvc.DeactivateMissing(ctx, seen); err != nil {
			s.log.Warn("subscription deactivation failed", zap.Error(err))
		}
	}
	return count, nil
}

func (s *Syncer) syncResources(ctx context.Context) (int, error) {
	subscriptions, err := s.subscriptionSvc.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, subscription := range subscriptions {
		rows, err := s.inventory.ListResources(ctx, subscription.ExternalID)
		if err != nil {
			return count, err
		}
		for _, row := range rows {
			_, err := s.resourceSvc.Upsert(ctx, resourcedomain.UpsertRequest{
				ExternalID:     row.ExternalID,
				Name:           row.Name,
				ResourceType:   row.Type,
				Location:       row.Location,
				SubscriptionID: subscription.ID,
				GroupName:      row.GroupName,
				SKU:            row.SKU,
				Status:         gatewaydomain.MapPowerState(row.PowerState),
				Tags:           row.Tags,
				Properties:     row.Properties,
			})
			if err != nil {
				obsmetrics.Sync().IncItemSkipped(obsmetrics.SyncStageResources)
				s.log.Warn("resource upsert failed",
					zap.String("external_id", row.ExternalID),
					zap.Error(err),
				)
				continue
			}
			count++
		}
	}
	return count, nil
}

func (s *Syncer) syncCosts(ctx context.Context) (int, error) {
	subscriptions, err := s.subscriptionSvc.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	to := costdomain.Day(s.clock.Now())
	from := to.AddDate(0, 0, -s.cfg.CostLookbackDays)

	count := 0
	for _, subscription := range subscriptions {
		rows, err := s.costs.QueryCosts(ctx, subscription.ExternalID, from, to)
		if err != nil {
			return count, err
		}
		for _, row := range rows {
			req := costdomain.AppendRequest{
				SubscriptionID: subscription.ID,
				UsageDate:      row.UsageDate,
				Cost:           row.Cost,
				Currency:       row.Currency,
				ServiceName:    row.ServiceName,
				Region:         row.Region,
				Tags:           row.Tags,
			}
			// A cost row naming a resource we have never inventoried is
			// still persisted, with a null resource reference, for audit.
			if row.ResourceExternalID != "" {
				resource, err := s.resourceRepo.FindByExternalID(ctx, s.db, row.ResourceExternalID)
				if err != nil {
					obsmetrics.Sync().IncItemSkipped(obsmetrics.SyncStageCosts)
					s.log.Warn("cost resource lookup failed",
						zap.String("resource_external_id", row.ResourceExternalID),
						zap.Error(err),
					)
					continue
				}
				if resource != nil {
					resourceID := resource.ID
					req.ResourceID = &resourceID
				}
			}

			written, err := s.costSvc.Append(ctx, req)
			if err != nil {
				obsmetrics.Sync().IncItemSkipped(obsmetrics.SyncStageCosts)
				s.log.Warn("cost append failed",
					zap.String("resource_external_id", row.ResourceExternalID),
					zap.Error(err),
				)
				continue
			}
			if written {
				count++
			}
		}
	}
	return count, nil
}

// syncMetrics samples utilization for a small set of running compute
// resources with bounded concurrency. One resource's failure never stops
// the others.
func (s *Syncer) syncMetrics(ctx context.Context) (int, error) {
	resources, err := s.resourceSvc.ListRunningCompute(ctx, s.cfg.MetricSampleSize)
	if err != nil {
		return 0, err
	}

	to := s.clock.Now()
	from := to.Add(-s.cfg.MetricWindow)

	var (
		mu    sync.Mutex
		count int
		wg    sync.WaitGroup
	)
	sem := make(chan struct{}, s.cfg.MetricWorkers)
	for i := range resources {
		resource := resources[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			n, err := s.collectResourceMetrics(ctx, resource, from, to)
			if err != nil {
				obsmetrics.Sync().IncItemSkipped(obsmetrics.SyncStageMetrics)
				s.log.Warn("metric collection failed",
					zap.String("external_id", resource.ExternalID),
					zap.Error(err),
				)
				return
			}
			mu.Lock()
			count += n
			mu.Unlock()
		}()
	}
	wg.Wait()
	return count, nil
}

func (s *Syncer) collectResourceMetrics(ctx context.Context, resource resourcedomain.Resource, from, to time.Time) (int, error) {
	rows, err := s.metrics.QueryMetrics(ctx, resource.ExternalID, from, to)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, row := range rows {
		err := s.usageMetricSvc.Append(ctx, usagemetricdomain.AppendRequest{
			ResourceID: resource.ID,
			MetricName: row.MetricName,
			Value:      row.Value,
			Unit:       row.Unit,
			RecordedAt: row.RecordedAt,
		})
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *Syncer) syncRecommendations(ctx context.Context) (int, error) {
	subscriptions, err := s.subscriptionSvc.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, subscription := range subscriptions {
		rows, err := s.advisor.ListRecommendations(ctx, subscription.ExternalID)
		if err != nil {
			return count, err
		}
		for _, row := range rows {
			resource, err := s.resourceRepo.FindByExternalID(ctx, s.db, row.ResourceExternalID)
			if err != nil || resource == nil {
				obsmetrics.Sync().IncItemSkipped(obsmetrics.SyncStageRecommendations)
				continue
			}
			err = s.recommendationSvc.Upsert(ctx, recommendationdomain.UpsertRequest{
				ResourceID:       resource.ID,
				Category:         row.Category,
				Impact:           gatewaydomain.MapAdvisorImpact(row.Impact),
				Description:      row.Description,
				EstimatedSavings: row.EstimatedSavings,
			})
			if err != nil {
				obsmetrics.Sync().IncItemSkipped(obsmetrics.SyncStageRecommendations)
				s.log.Warn("recommendation upsert failed",
					zap.String("resource_external_id", row.ResourceExternalID),
					zap.Error(err),
				)
				continue
			}
			count++
		}
	}
	return count, nil
}

func (s *Syncer) detectAnomalies(ctx context.Context) (int, error) {
	count, err := s.anomalySvc.DetectAnomalies(ctx, s.cfg.CostLookbackDays, s.cfg.ZScoreThreshold)
	if err != nil {
		// Per-resource scoring failures are already logged item by item;
		// the stage still reports the anomalies it did record.
		s.log.Warn("anomaly detection finished with item errors", zap.Error(err))
	}
	return count, nil
}

func (s *Syncer) evaluateBudgets(ctx context.Context) (int, error) {
	if _, err := s.budgetSvc.RecomputeSpend(ctx); err != nil {
		s.log.Warn("budget spend recompute finished with item errors", zap.Error(err))
	}
	count, err := s.budgetSvc.CheckBudgetAlerts(ctx)
	if err != nil {
		s.log.Warn("budget evaluation finished with item errors", zap.Error(err))
	}
	return count, nil
}

func (s *Syncer) recordRunFailure(ctx context.Context, runID, stage string, stageErr error) {
	_, err := s.alertSvc.Send(context.WithoutCancel(ctx), alertdomain.SendRequest{
		Type:     alertdomain.AlertTypeSystem,
		Severity: alertdomain.AlertSeverityHigh,
		Title:    fmt.Sprintf("Sync run failed at %s stage", stage),
		Message:  fmt.Sprintf("Full sync aborted during the %s stage: %v", stage, stageErr),
		Metadata: map[string]interface{}{
			"run_id": runID,
			"stage":  stage,
		},
	})
	if err != nil {
		s.log.Error("failed to record sync failure alert", zap.Error(err))
	}
}

func (s *Syncer) recordRunSuccess(ctx context.Context, report *Report) {
	metadata := make(map[string]interface{}, len(report.Counts)+1)
	for stage, count := range report.Counts {
		metadata[stage] = count
	}
	metadata["run_id"] = report.RunID
	metadata["duration_ms"] = report.Duration.Milliseconds()

	_, err := s.alertSvc.Send(ctx, alertdomain.SendRequest{
		Type:     alertdomain.AlertTypeSystem,
		Severity: alertdomain.AlertSeverityLow,
		Title:    "Sync run completed",
		Message:  fmt.Sprintf("Full sync finished in %s.", report.Duration.Round(time.Millisecond)),
		Metadata: metadata,
	})
	if err != nil {
		s.log.Error("failed to record sync success alert", zap.Error(err))
	}
}

// RunForever triggers a full sync on the configured interval until the
// context is canceled.
func (s *Syncer) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if _, err := s.RunFullSync(ctx); err != nil {
			s.log.Warn("scheduled sync failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
