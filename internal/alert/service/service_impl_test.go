package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/cloudlens/cloudlens/internal/account/domain"
	accountrepository "github.com/cloudlens/cloudlens/internal/account/repository"
	alertdomain "github.com/cloudlens/cloudlens/internal/alert/domain"
	alertrepository "github.com/cloudlens/cloudlens/internal/alert/repository"
	"github.com/cloudlens/cloudlens/internal/clock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingWebhook struct {
	err   error
	calls int
}

func (w *recordingWebhook) PostMessage(ctx context.Context, message string) error {
	w.calls++
	return w.err
}

type recordingEmail struct {
	err  error
	sent [][]string
}

func (e *recordingEmail) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	e.sent = append(e.sent, to)
	return e.err
}

type alertFixture struct {
	db      *gorm.DB
	svc     alertdomain.Service
	repo    alertdomain.Repository
	node    *snowflake.Node
	clock   *clock.FakeClock
	webhook *recordingWebhook
	email   *recordingEmail
}

func setupAlertTest(t *testing.T) *alertFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&alertdomain.Alert{}, &accountdomain.AdminAccount{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC))
	wh := &recordingWebhook{}
	em := &recordingEmail{}
	repo := alertrepository.Provide()
	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fakeClock,
		Repo:        repo,
		AccountRepo: accountrepository.Provide(),
		Email:       em,
		Webhook:     wh,
	})
	return &alertFixture{db: db, svc: svc, repo: repo, node: node, clock: fakeClock, webhook: wh, email: em}
}

func (f *alertFixture) addAdmin(t *testing.T, email string) {
	t.Helper()
	require.NoError(t, f.db.Create(&accountdomain.AdminAccount{
		ID:        f.node.Generate(),
		Email:     email,
		Name:      "Ops",
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}).Error)
}

func TestSendFansOutForHighSeverity(t *testing.T) {
	f := setupAlertTest(t)
	f.addAdmin(t, "ops-a@example.com")
	f.addAdmin(t, "ops-b@example.com")

	alert, err := f.svc.Send(context.Background(), alertdomain.SendRequest{
		Type:     alertdomain.AlertTypeAnomaly,
		Severity: alertdomain.AlertSeverityHigh,
		Title:    "Cost anomaly",
		Message:  "spend spiked",
	})
	require.NoError(t, err)
	require.NotNil(t, alert)

	assert.Equal(t, 1, f.webhook.calls)
	assert.Len(t, f.email.sent, 2)

	stored, err := f.repo.FindByID(context.Background(), f.db, alert.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.ElementsMatch(t, []string{"webhook", "email"}, []string(stored.NotifiedChannels))
}

func TestSendSkipsChannelsForLowSeverity(t *testing.T) {
	f := setupAlertTest(t)
	f.addAdmin(t, "ops@example.com")

	_, err := f.svc.Send(context.Background(), alertdomain.SendRequest{
		Type:     alertdomain.AlertTypeSystem,
		Severity: alertdomain.AlertSeverityLow,
		Title:    "Sync run completed",
		Message:  "ok",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, f.webhook.calls)
	assert.Empty(t, f.email.sent)
}

func TestSendSurvivesChannelFailures(t *testing.T) {
	f := setupAlertTest(t)
	f.addAdmin(t, "ops@example.com")
	f.webhook.err = errors.New("webhook down")
	f.email.err = errors.New("smtp down")

	alert, err := f.svc.Send(context.Background(), alertdomain.SendRequest{
		Type:     alertdomain.AlertTypeBudget,
		Severity: alertdomain.AlertSeverityCritical,
		Title:    "Budget blown",
		Message:  "over 100%",
	})
	require.NoError(t, err)

	// Persistence is guaranteed even when every channel fails.
	stored, err := f.svc.ListUnresolved(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, alert.ID, stored[0].ID)
	assert.Empty(t, stored[0].NotifiedChannels)
}

func TestSendPersistsMetadataAndTimestamp(t *testing.T) {
	f := setupAlertTest(t)

	alert, err := f.svc.Send(context.Background(), alertdomain.SendRequest{
		Type:     alertdomain.AlertTypeSystem,
		Severity: alertdomain.AlertSeverityLow,
		Title:    "Sync run completed",
		Message:  "ok",
		Metadata: map[string]interface{}{"run_id": "run-1", "costs": float64(12)},
	})
	require.NoError(t, err)

	// Every column must land where it was addressed: metadata stays a JSON
	// map and created_at stays a timestamp the day-window dedup can filter on.
	stored, err := f.repo.FindByID(context.Background(), f.db, alert.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "run-1", stored.Metadata["run_id"])
	assert.WithinDuration(t, f.clock.Now(), stored.CreatedAt, time.Second)
}

func TestSendValidation(t *testing.T) {
	f := setupAlertTest(t)

	_, err := f.svc.Send(context.Background(), alertdomain.SendRequest{Severity: alertdomain.AlertSeverityLow})
	assert.ErrorIs(t, err, alertdomain.ErrInvalidType)

	_, err = f.svc.Send(context.Background(), alertdomain.SendRequest{Type: alertdomain.AlertTypeSystem})
	assert.ErrorIs(t, err, alertdomain.ErrInvalidSeverity)
}

func TestResolveSetsTimestampOnce(t *testing.T) {
	f := setupAlertTest(t)

	alert, err := f.svc.Send(context.Background(), alertdomain.SendRequest{
		Type:     alertdomain.AlertTypeSystem,
		Severity: alertdomain.AlertSeverityMedium,
		Title:    "t",
		Message:  "m",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Resolve(context.Background(), alert.ID))

	var first alertdomain.Alert
	require.NoError(t, f.db.First(&first, "id = ?", alert.ID).Error)
	require.NotNil(t, first.ResolvedAt)
	assert.True(t, first.Resolved)

	// Resolving again keeps the original timestamp.
	f.clock.Advance(2 * time.Hour)
	require.NoError(t, f.svc.Resolve(context.Background(), alert.ID))

	var second alertdomain.Alert
	require.NoError(t, f.db.First(&second, "id = ?", alert.ID).Error)
	require.NotNil(t, second.ResolvedAt)
	assert.True(t, first.ResolvedAt.Equal(*second.ResolvedAt))
}

func TestMarkReadUnknownAlert(t *testing.T) {
	f := setupAlertTest(t)

	err := f.svc.MarkRead(context.Background(), f.node.Generate())
	assert.ErrorIs(t, err, alertdomain.ErrNotFound)
}
