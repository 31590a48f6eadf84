package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/cloudlens/cloudlens/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() subscriptiondomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, sub *subscriptiondomain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (id, external_id, display_name, state, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (external_id) DO UPDATE SET
		   display_name = excluded.display_name,
		   state = excluded.state,
		   updated_at = excluded.updated_at`,
		sub.ID,
		sub.ExternalID,
		sub.DisplayName,
		sub.State,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Error
}

func (r *repo) FindByExternalID(ctx context.Context, db *gorm.DB, externalID string) (*subscriptiondomain.Subscription, error) {
	var sub subscriptiondomain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT id, external_id, display_name, state, created_at, updated_at
		 FROM subscriptions WHERE external_id = ?`,
		externalID,
	).Scan(&sub).Error
	if err != nil {
		return nil, err
	}
	if sub.ID == 0 {
		return nil, nil
	}
	return &sub, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*subscriptiondomain.Subscription, error) {
	var sub subscriptiondomain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT id, external_id, display_name, state, created_at, updated_at
		 FROM subscriptions WHERE id = ?`,
		id,
	).Scan(&sub).Error
	if err != nil {
		return nil, err
	}
	if sub.ID == 0 {
		return nil, nil
	}
	return &sub, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB) ([]subscriptiondomain.Subscription, error) {
	var subs []subscriptiondomain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT id, external_id, display_name, state, created_at, updated_at
		 FROM subscriptions WHERE state = ? ORDER BY created_at ASC`,
		subscriptiondomain.SubscriptionStateActive,
	).Scan(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) DeactivateMissing(ctx context.Context, db *gorm.DB, seenExternalIDs []string) (int64, error) {
	tx := db.WithContext(ctx)
	var result *gorm.DB
	if len(seenExternalIDs) == 0 {
		result = tx.Exec(
			`UPDATE subscriptions SET state = ?, updated_at = CURRENT_TIMESTAMP WHERE state = ?`,
			subscriptiondomain.SubscriptionStateInactive,
			subscriptiondomain.SubscriptionStateActive,
		)
	} else {
		result = tx.Exec(
			`UPDATE subscriptions SET state = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE state = ? AND external_id NOT IN ?`,
			subscriptiondomain.SubscriptionStateInactive,
			subscriptiondomain.SubscriptionStateActive,
			seenExternalIDs,
		)
	}
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
