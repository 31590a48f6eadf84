package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	costdomain "github.com/cloudlens/cloudlens/internal/cost/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() costdomain.Repository {
	return &repo{}
}

func (r *repo) InsertIgnoreDuplicate(ctx context.Context, db *gorm.DB, record *costdomain.CostRecord) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO cost_records (id, resource_id, subscription_id, usage_date, cost, currency, service_name, region, tags, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (resource_id, usage_date, service_name) DO NOTHING`,
		record.ID,
		record.ResourceID,
		record.SubscriptionID,
		record.UsageDate,
		record.Cost,
		record.Currency,
		record.ServiceName,
		record.Region,
		record.Tags,
		record.CreatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindByKey(ctx context.Context, db *gorm.DB, resourceID *snowflake.ID, usageDate time.Time, serviceName string) (*costdomain.CostRecord, error) {
	var record costdomain.CostRecord
	query := `SELECT id, resource_id, subscription_id, usage_date, cost, currency, service_name, region, tags, created_at
		 FROM cost_records WHERE usage_date = ? AND service_name = ? AND `
	args := []any{usageDate, serviceName}
	if resourceID == nil {
		query += `resource_id IS NULL`
	} else {
		query += `resource_id = ?`
		args = append(args, *resourceID)
	}
	err := db.WithContext(ctx).Raw(query, args...).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) SumForSubscription(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID, from, to time.Time) (float64, error) {
	var total float64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(cost), 0)
		 FROM cost_records
		 WHERE subscription_id = ? AND usage_date >= ? AND usage_date <= ?`,
		subscriptionID,
		from,
		to,
	).Scan(&total).Error
	return total, err
}

func (r *repo) DailyTotalsForSubscription(ctx context.Context, db *gorm.DB, subscriptionID snowflake.ID, from, to time.Time) ([]costdomain.DailyCost, error) {
	var rows []costdomain.DailyCost
	err := db.WithContext(ctx).Raw(
		`SELECT usage_date AS day, SUM(cost) AS total
		 FROM cost_records
		 WHERE subscription_id = ? AND usage_date >= ? AND usage_date <= ?
		 GROUP BY usage_date
		 ORDER BY usage_date ASC`,
		subscriptionID,
		from,
		to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) DailyTotalsForResource(ctx context.Context, db *gorm.DB, resourceID snowflake.ID, from, to time.Time) ([]costdomain.DailyCost, error) {
	var rows []costdomain.DailyCost
	err := db.WithContext(ctx).Raw(
		`SELECT usage_date AS day, SUM(cost) AS total
		 FROM cost_records
		 WHERE resource_id = ? AND usage_date >= ? AND usage_date <= ?
		 GROUP BY usage_date
		 ORDER BY usage_date ASC`,
		resourceID,
		from,
		to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListPairsWithRecords(ctx context.Context, db *gorm.DB, from, to time.Time) ([]costdomain.ResourcePair, error) {
	var pairs []costdomain.ResourcePair
	err := db.WithContext(ctx).Raw(
		`SELECT DISTINCT resource_id, subscription_id
		 FROM cost_records
		 WHERE resource_id IS NOT NULL AND usage_date >= ? AND usage_date <= ?`,
		from,
		to,
	).Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	return pairs, nil
}
