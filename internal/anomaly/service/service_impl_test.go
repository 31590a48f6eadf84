package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/cloudlens/cloudlens/internal/account/domain"
	accountrepository "github.com/cloudlens/cloudlens/internal/account/repository"
	alertdomain "github.com/cloudlens/cloudlens/internal/alert/domain"
	alertrepository "github.com/cloudlens/cloudlens/internal/alert/repository"
	alertservice "github.com/cloudlens/cloudlens/internal/alert/service"
	anomalydomain "github.com/cloudlens/cloudlens/internal/anomaly/domain"
	"github.com/cloudlens/cloudlens/internal/anomaly/repository"
	"github.com/cloudlens/cloudlens/internal/clock"
	costdomain "github.com/cloudlens/cloudlens/internal/cost/domain"
	costrepository "github.com/cloudlens/cloudlens/internal/cost/repository"
	"github.com/cloudlens/cloudlens/internal/providers/email"
	"github.com/cloudlens/cloudlens/internal/providers/webhook"
	resourcedomain "github.com/cloudlens/cloudlens/internal/resource/domain"
	subscriptiondomain "github.com/cloudlens/cloudlens/internal/subscription/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type anomalyFixture struct {
	db       *gorm.DB
	svc      anomalydomain.Service
	node     *snowflake.Node
	clock    *clock.FakeClock
	costRepo costdomain.Repository
}

func setupAnomalyTest(t *testing.T, today time.Time) *anomalyFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&subscriptiondomain.Subscription{},
		&resourcedomain.Resource{},
		&costdomain.CostRecord{},
		&anomalydomain.CostAnomaly{},
		&alertdomain.Alert{},
		&accountdomain.AdminAccount{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(today)
	alertSvc := alertservice.New(alertservice.Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fakeClock,
		Repo:        alertrepository.Provide(),
		AccountRepo: accountrepository.Provide(),
		Email:       &email.NoOpProvider{},
		Webhook:     &webhook.NoOpProvider{},
	})

	costRepo := costrepository.Provide()
	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fakeClock,
		Repo:     repository.Provide(),
		CostRepo: costRepo,
		AlertSvc: alertSvc,
	})
	return &anomalyFixture{db: db, svc: svc, node: node, clock: fakeClock, costRepo: costRepo}
}

func (f *anomalyFixture) seedDailyCosts(t *testing.T, resourceID, subID snowflake.ID, start time.Time, costs []float64) {
	t.Helper()
	for i, cost := range costs {
		rid := resourceID
		inserted, err := f.costRepo.InsertIgnoreDuplicate(context.Background(), f.db, &costdomain.CostRecord{
			ID:             f.node.Generate(),
			ResourceID:     &rid,
			SubscriptionID: subID,
			UsageDate:      start.AddDate(0, 0, i),
			Cost:           cost,
			Currency:       "USD",
			ServiceName:    "Virtual Machines",
			CreatedAt:      time.Now().UTC(),
		})
		require.NoError(t, err)
		require.True(t, inserted)
	}
}

func TestDetectAnomaliesZScoreBoundary(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	today := start.AddDate(0, 0, 8)
	f := setupAnomalyTest(t, today)

	subID := f.node.Generate()
	resourceID := f.node.Generate()
	// Seven flat days, then a spike, then a mild bump. Against the series
	// baseline the spike clears the threshold and the bump does not.
	f.seedDailyCosts(t, resourceID, subID, start, []float64{10, 10, 10, 10, 10, 10, 10, 50, 11})

	count, err := f.svc.DetectAnomalies(context.Background(), 30, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var anomalies []anomalydomain.CostAnomaly
	require.NoError(t, f.db.Find(&anomalies).Error)
	require.Len(t, anomalies, 1)
	assert.Equal(t, 50.0, anomalies[0].ActualCost)
	assert.Equal(t, resourceID, anomalies[0].ResourceID)
	assert.GreaterOrEqual(t, anomalies[0].ZScore, 2.0)
}

func TestDetectAnomaliesIdempotent(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	today := start.AddDate(0, 0, 7)
	f := setupAnomalyTest(t, today)

	subID := f.node.Generate()
	resourceID := f.node.Generate()
	f.seedDailyCosts(t, resourceID, subID, start, []float64{10, 10, 10, 10, 10, 10, 10, 50})

	first, err := f.svc.DetectAnomalies(context.Background(), 30, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := f.svc.DetectAnomalies(context.Background(), 30, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 0, second)

	var total int64
	require.NoError(t, f.db.Model(&anomalydomain.CostAnomaly{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestDetectAnomaliesSkipsShortAndFlatSeries(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	today := start.AddDate(0, 0, 9)
	f := setupAnomalyTest(t, today)

	subID := f.node.Generate()

	// Five days of history: below the minimum baseline.
	short := f.node.Generate()
	f.seedDailyCosts(t, short, subID, start.AddDate(0, 0, 5), []float64{5, 5, 5, 5, 200})

	// Ten identical days: zero deviation, no meaningful baseline.
	flat := f.node.Generate()
	f.seedDailyCosts(t, flat, subID, start, []float64{8, 8, 8, 8, 8, 8, 8, 8, 8, 8})

	count, err := f.svc.DetectAnomalies(context.Background(), 30, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDetectAnomaliesEndToEndSpike(t *testing.T) {
	start := time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)
	today := start.AddDate(0, 0, 29)
	f := setupAnomalyTest(t, today)

	subID := f.node.Generate()
	resourceID := f.node.Generate()

	costs := make([]float64, 30)
	for i := 0; i < 29; i++ {
		costs[i] = 5
	}
	costs[29] = 40
	f.seedDailyCosts(t, resourceID, subID, start, costs)

	count, err := f.svc.DetectAnomalies(context.Background(), 30, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var anomalies []anomalydomain.CostAnomaly
	require.NoError(t, f.db.Find(&anomalies).Error)
	require.Len(t, anomalies, 1)
	assert.Equal(t, 40.0, anomalies[0].ActualCost)
	assert.Contains(t, []anomalydomain.AnomalySeverity{
		anomalydomain.AnomalySeverityHigh,
		anomalydomain.AnomalySeverityCritical,
	}, anomalies[0].Severity)

	// High/critical anomalies raise a matching alert.
	var alerts []alertdomain.Alert
	require.NoError(t, f.db.Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, alertdomain.AlertTypeAnomaly, alerts[0].AlertType)
	assert.Equal(t, string(anomalies[0].Severity), string(alerts[0].Severity))
	require.NotNil(t, alerts[0].ResourceID)
	assert.Equal(t, resourceID, *alerts[0].ResourceID)
}
