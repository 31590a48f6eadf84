package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	resourcedomain "github.com/cloudlens/cloudlens/internal/resource/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() resourcedomain.Repository {
	return &repo{}
}

func (r *repo) UpsertGroup(ctx context.Context, db *gorm.DB, group *resourcedomain.ResourceGroup) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO resource_groups (id, subscription_id, name, location, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (subscription_id, name) DO UPDATE SET
		   location = excluded.location,
		   tags = excluded.tags,
		   updated_at = excluded.updated_at`,
		group.ID,
		group.SubscriptionID,
		group.Name,
		group.Location,
		group.Tags,
		group.CreatedAt,
		group.UpdatedAt,
	).Error
}

func (r *repo) FindGroup(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID, name string) (*resourcedomain.ResourceGroup, error) {
	var group resourcedomain.ResourceGroup
	err := db.WithContext(ctx).Raw(
		`SELECT id, subscription_id, name, location, tags, created_at, updated_at
		 FROM resource_groups WHERE subscription_id = ? AND name = ?`,
		subscriptionID,
		name,
	).Scan(&group).Error
	if err != nil {
		return nil, err
	}
	if group.ID == 0 {
		return nil, nil
	}
	return &group, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, res *resourcedomain.Resource) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO resources (id, external_id, name, resource_type, location, resource_group_id, subscription_id, sku, status, tags, properties, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (external_id) DO UPDATE SET
		   name = excluded.name,
		   resource_type = excluded.resource_type,
		   location = excluded.location,
		   resource_group_id = excluded.resource_group_id,
		   subscription_id = excluded.subscription_id,
		   sku = excluded.sku,
		   status = excluded.status,
		   tags = excluded.tags,
		   properties = excluded.properties,
		   updated_at = excluded.updated_at`,
		res.ID,
		res.ExternalID,
		res.Name,
		res.ResourceType,
		res.Location,
		res.ResourceGroupID,
		res.SubscriptionID,
		res.SKU,
		res.Status,
		res.Tags,
		res.Properties,
		res.CreatedAt,
		res.UpdatedAt,
	).Error
}

func (r *repo) FindByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*resourcedomain.Resource, error) {
	var res resourcedomain.Resource
	err := db.WithContext(ctx).Raw(
		`SELECT id, external_id, name, resource_type, location, resource_group_id, subscription_id, sku, status, tags, properties, created_at, updated_at
		 FROM resources WHERE external_id = ?`,
		externalID,
	).Scan(&res).Error
	if err != nil {
		return nil, err
	}
	if res.ID == 0 {
		return nil, nil
	}
	return &res, nil
}

func (r *repo) ListRunningByTypePrefix(ctx context.Context, db *gorm.DB, typePrefix string, limit int) ([]resourcedomain.Resource, error) {
	var resources []resourcedomain.Resource
	err := db.WithContext(ctx).Raw(
		`SELECT id, external_id, name, resource_type, location, resource_group_id, subscription_id, sku, status, tags, properties, created_at, updated_at
		 FROM resources
		 WHERE status = ? AND resource_type LIKE ?
		 ORDER BY updated_at DESC
		 LIMIT ?`,
		resourcedomain.ResourceStatusRunning,
		typePrefix+"%",
		limit,
	).Scan(&resources).Error
	if err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(1) FROM resources`).Scan(&count).Error
	return count, err
}
