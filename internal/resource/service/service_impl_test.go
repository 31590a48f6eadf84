package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	resourcedomain "github.com/cloudlens/cloudlens/internal/resource/domain"
	"github.com/cloudlens/cloudlens/internal/resource/repository"
	subscriptiondomain "github.com/cloudlens/cloudlens/internal/subscription/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupResourceTest(t *testing.T) (*gorm.DB, resourcedomain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&subscriptiondomain.Subscription{},
		&resourcedomain.ResourceGroup{},
		&resourcedomain.Resource{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return db, svc, node
}

func TestResourceUpsertIdempotent(t *testing.T) {
	db, svc, node := setupResourceTest(t)
	ctx := context.Background()

	subID := node.Generate()
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID:         subID,
		ExternalID: "sub-1",
		State:      subscriptiondomain.SubscriptionStateActive,
	}).Error)

	req := resourcedomain.UpsertRequest{
		ExternalID:     "/subscriptions/sub-1/vm/web-01",
		Name:           "web-01",
		ResourceType:   "compute/virtualMachines",
		Location:       "westeurope",
		SubscriptionID: subID,
		GroupName:      "prod-rg",
		SKU:            "Standard_B2s",
		Status:         resourcedomain.ResourceStatusRunning,
		Tags:           map[string]interface{}{"env": "prod"},
	}

	first, err := svc.Upsert(ctx, req)
	require.NoError(t, err)
	second, err := svc.Upsert(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Status, second.Status)

	var count int64
	require.NoError(t, db.Model(&resourcedomain.Resource{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var groups int64
	require.NoError(t, db.Model(&resourcedomain.ResourceGroup{}).Count(&groups).Error)
	assert.Equal(t, int64(1), groups)
}

func TestResourceUpsertUpdatesStatus(t *testing.T) {
	db, svc, node := setupResourceTest(t)
	ctx := context.Background()

	subID := node.Generate()
	require.NoError(t, db.Create(&subscriptiondomain.Subscription{
		ID:         subID,
		ExternalID: "sub-1",
		State:      subscriptiondomain.SubscriptionStateActive,
	}).Error)

	req := resourcedomain.UpsertRequest{
		ExternalID:     "/subscriptions/sub-1/vm/web-01",
		Name:           "web-01",
		ResourceType:   "compute/virtualMachines",
		Location:       "westeurope",
		SubscriptionID: subID,
		Status:         resourcedomain.ResourceStatusRunning,
	}
	first, err := svc.Upsert(ctx, req)
	require.NoError(t, err)

	req.Status = resourcedomain.ResourceStatusDeallocated
	second, err := svc.Upsert(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, resourcedomain.ResourceStatusDeallocated, second.Status)
}

func TestResourceUpsertRejectsEmptyExternalID(t *testing.T) {
	_, svc, node := setupResourceTest(t)

	_, err := svc.Upsert(context.Background(), resourcedomain.UpsertRequest{
		ExternalID:     "   ",
		SubscriptionID: node.Generate(),
	})
	assert.ErrorIs(t, err, resourcedomain.ErrInvalidExternalID)
}
