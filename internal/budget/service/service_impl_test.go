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
	budgetdomain "github.com/cloudlens/cloudlens/internal/budget/domain"
	"github.com/cloudlens/cloudlens/internal/budget/repository"
	"github.com/cloudlens/cloudlens/internal/clock"
	costdomain "github.com/cloudlens/cloudlens/internal/cost/domain"
	costrepository "github.com/cloudlens/cloudlens/internal/cost/repository"
	costservice "github.com/cloudlens/cloudlens/internal/cost/service"
	"github.com/cloudlens/cloudlens/internal/providers/email"
	"github.com/cloudlens/cloudlens/internal/providers/webhook"
	subscriptiondomain "github.com/cloudlens/cloudlens/internal/subscription/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type budgetFixture struct {
	db      *gorm.DB
	svc     budgetdomain.Service
	costSvc costdomain.Service
	node    *snowflake.Node
	clock   *clock.FakeClock
}

func setupBudgetTest(t *testing.T, today time.Time) *budgetFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&subscriptiondomain.Subscription{},
		&costdomain.CostRecord{},
		&budgetdomain.Budget{},
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
	costSvc := costservice.New(costservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  costrepository.Provide(),
	})
	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fakeClock,
		Repo:      repository.Provide(),
		CostSvc:   costSvc,
		AlertRepo: alertrepository.Provide(),
		AlertSvc:  alertSvc,
	})
	return &budgetFixture{db: db, svc: svc, costSvc: costSvc, node: node, clock: fakeClock}
}

func (f *budgetFixture) createBudget(t *testing.T, amount, spend float64, thresholds []float64) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	require.NoError(t, f.db.Create(&budgetdomain.Budget{
		ID:           id,
		Name:         "monthly-platform",
		Amount:       amount,
		Period:       budgetdomain.BudgetPeriodMonthly,
		CurrentSpend: spend,
		Thresholds:   datatypes.NewJSONSlice(thresholds),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}).Error)
	return id
}

func TestCheckBudgetAlertsThresholdDedup(t *testing.T) {
	today := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	f := setupBudgetTest(t, today)
	ctx := context.Background()

	budgetID := f.createBudget(t, 100, 95, []float64{50, 75, 90, 100})

	// 95% crosses 50, 75 and 90; only the highest fires.
	created, err := f.svc.CheckBudgetAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var alerts []alertdomain.Alert
	require.NoError(t, f.db.Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, alertdomain.AlertTypeBudget, alerts[0].AlertType)
	assert.Equal(t, alertdomain.AlertSeverityHigh, alerts[0].Severity)
	require.NotNil(t, alerts[0].BudgetID)
	assert.Equal(t, budgetID, *alerts[0].BudgetID)
	require.NotNil(t, alerts[0].BudgetThreshold)
	assert.Equal(t, 90.0, *alerts[0].BudgetThreshold)

	// Re-evaluating the same day stays silent, including lower thresholds.
	created, err = f.svc.CheckBudgetAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	// The next calendar day a fresh alert for the same threshold is allowed.
	f.clock.Advance(24 * time.Hour)
	created, err = f.svc.CheckBudgetAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.NoError(t, f.db.Find(&alerts).Error)
	assert.Len(t, alerts, 2)
}

func TestCheckBudgetAlertsSeverityMapping(t *testing.T) {
	today := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	f := setupBudgetTest(t, today)
	ctx := context.Background()

	f.createBudget(t, 100, 120, []float64{50, 75, 90, 100})

	created, err := f.svc.CheckBudgetAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var alerts []alertdomain.Alert
	require.NoError(t, f.db.Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, alertdomain.AlertSeverityCritical, alerts[0].Severity)
	assert.Equal(t, 100.0, *alerts[0].BudgetThreshold)
}

func TestCheckBudgetAlertsZeroAmount(t *testing.T) {
	today := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	f := setupBudgetTest(t, today)

	// Zero-amount budgets never divide by zero nor alert.
	f.createBudget(t, 0, 500, []float64{50, 75, 90, 100})

	created, err := f.svc.CheckBudgetAlerts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestRecomputeSpendSumsCurrentMonth(t *testing.T) {
	today := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	f := setupBudgetTest(t, today)
	ctx := context.Background()

	subID := f.node.Generate()
	require.NoError(t, f.db.Create(&subscriptiondomain.Subscription{
		ID:         subID,
		ExternalID: "sub-1",
		State:      subscriptiondomain.SubscriptionStateActive,
	}).Error)

	budgetID := f.node.Generate()
	require.NoError(t, f.db.Create(&budgetdomain.Budget{
		ID:             budgetID,
		Name:           "sub-budget",
		Amount:         1000,
		Period:         budgetdomain.BudgetPeriodMonthly,
		SubscriptionID: &subID,
		Thresholds:     datatypes.NewJSONSlice([]float64{90}),
		Active:         true,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}).Error)

	resourceID := f.node.Generate()
	for day := 1; day <= 20; day++ {
		_, err := f.costSvc.Append(ctx, costdomain.AppendRequest{
			ResourceID:     &resourceID,
			SubscriptionID: subID,
			UsageDate:      time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC),
			Cost:           3,
			ServiceName:    "Compute",
		})
		require.NoError(t, err)
	}
	// July spend is outside the recompute window.
	_, err := f.costSvc.Append(ctx, costdomain.AppendRequest{
		ResourceID:     &resourceID,
		SubscriptionID: subID,
		UsageDate:      time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
		Cost:           400,
		ServiceName:    "Compute",
	})
	require.NoError(t, err)

	updated, err := f.svc.RecomputeSpend(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	var budget budgetdomain.Budget
	require.NoError(t, f.db.First(&budget, "id = ?", budgetID).Error)
	assert.InDelta(t, 60.0, budget.CurrentSpend, 0.001)
}

func TestCreateBudgetValidation(t *testing.T) {
	today := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	f := setupBudgetTest(t, today)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, budgetdomain.CreateRequest{Name: "  ", Amount: 10})
	assert.ErrorIs(t, err, budgetdomain.ErrInvalidName)

	_, err = f.svc.Create(ctx, budgetdomain.CreateRequest{Name: "x", Amount: -1})
	assert.ErrorIs(t, err, budgetdomain.ErrInvalidAmount)

	budget, err := f.svc.Create(ctx, budgetdomain.CreateRequest{
		Name:       "platform",
		Amount:     250,
		Thresholds: []float64{50, 90},
	})
	require.NoError(t, err)
	assert.Equal(t, budgetdomain.BudgetPeriodMonthly, budget.Period)
	assert.True(t, budget.Active)
}
