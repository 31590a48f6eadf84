package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels stamped on every metric.
type Config struct {
	ServiceName string
	Environment string
}

const (
	SyncStageSubscriptions   = "subscriptions"
	SyncStageResources       = "resources"
	SyncStageCosts           = "costs"
	SyncStageMetrics         = "metrics"
	SyncStageRecommendations = "recommendations"
	SyncStageAnomalies       = "anomalies"
	SyncStageBudgets         = "budgets"
)

const (
	SyncErrorReasonDeadlineExceeded = "deadline_exceeded"
	SyncErrorReasonUpstream         = "upstream"
	SyncErrorReasonUnknown          = "unknown"
)

// SyncMetrics captures sync pipeline health signals.
type SyncMetrics struct {
	runs          *prometheus.CounterVec
	runsSkipped   prometheus.Counter
	runDuration   prometheus.Observer
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	itemsSynced   *prometheus.CounterVec
	itemsSkipped  *prometheus.CounterVec
}

var (
	syncMetricsOnce sync.Once
	syncMetrics     *SyncMetrics
)

// Sync returns the singleton sync metrics registry.
func Sync() *SyncMetrics {
	return SyncWithConfig(Config{})
}

// SyncWithConfig returns the singleton sync metrics registry using config labels.
func SyncWithConfig(cfg Config) *SyncMetrics {
	syncMetricsOnce.Do(func() {
		syncMetrics = newSyncMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return syncMetrics
}

// ResetSyncMetricsForTest resets the sync metrics singleton for tests.
func ResetSyncMetricsForTest() {
	syncMetricsOnce = sync.Once{}
	syncMetrics = nil
}

func newSyncMetrics(registerer prometheus.Registerer, cfg Config) *SyncMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "cloudlens"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "cloudlens_sync_runs_total",
		Help:        "Sync runs by outcome.",
		ConstLabels: constLabels,
	}, []string{"outcome"})

	runsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "cloudlens_sync_runs_skipped_total",
		Help:        "Sync run requests refused because a run was already active.",
		ConstLabels: constLabels,
	})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "cloudlens_sync_run_duration_seconds",
		Help:        "Wall-clock duration of a full sync run.",
		ConstLabels: constLabels,
		Buckets:     prometheus.ExponentialBuckets(0.5, 2, 12),
	})

	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "cloudlens_sync_stage_duration_seconds",
		Help:        "Duration of each sync stage.",
		ConstLabels: constLabels,
		Buckets:     prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"stage"})

	stageErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "cloudlens_sync_stage_errors_total",
		Help:        "Stage-fatal errors by stage and reason.",
		ConstLabels: constLabels,
	}, []string{"stage", "reason"})

	itemsSynced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "cloudlens_sync_items_total",
		Help:        "Items written per stage.",
		ConstLabels: constLabels,
	}, []string{"stage"})

	itemsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "cloudlens_sync_items_skipped_total",
		Help:        "Per-item failures skipped without failing the stage.",
		ConstLabels: constLabels,
	}, []string{"stage"})

	registerer.MustRegister(runs, runsSkipped, runDuration, stageDuration, stageErrors, itemsSynced, itemsSkipped)

	return &SyncMetrics{
		runs:          runs,
		runsSkipped:   runsSkipped,
		runDuration:   runDuration,
		stageDuration: stageDuration,
		stageErrors:   stageErrors,
		itemsSynced:   itemsSynced,
		itemsSkipped:  itemsSkipped,
	}
}

func (m *SyncMetrics) IncRun(outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
}

func (m *SyncMetrics) IncRunSkipped() {
	if m == nil {
		return
	}
	m.runsSkipped.Inc()
}

func (m *SyncMetrics) ObserveRunDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
}

func (m *SyncMetrics) ObserveStageDuration(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *SyncMetrics) IncStageError(stage string, err error) {
	if m == nil {
		return
	}
	m.stageErrors.WithLabelValues(stage, ClassifySyncErrorReason(err)).Inc()
}

func (m *SyncMetrics) AddItemsSynced(stage string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.itemsSynced.WithLabelValues(stage).Add(float64(n))
}

func (m *SyncMetrics) IncItemSkipped(stage string) {
	if m == nil {
		return
	}
	m.itemsSkipped.WithLabelValues(stage).Inc()
}

// ClassifySyncErrorReason buckets stage errors into stable label values.
func ClassifySyncErrorReason(err error) string {
	switch {
	case err == nil:
		return SyncErrorReasonUnknown
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return SyncErrorReasonDeadlineExceeded
	default:
		return SyncErrorReasonUnknown
	}
}
