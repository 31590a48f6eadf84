package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	budgetdomain "github.com/cloudlens/cloudlens/internal/budget/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() budgetdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, b *budgetdomain.Budget) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO budgets (id, name, amount, period, subscription_id, resource_group_id, current_spend, thresholds, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.Name,
		b.Amount,
		b.Period,
		b.SubscriptionID,
		b.ResourceGroupID,
		b.CurrentSpend,
		b.Thresholds,
		b.Active,
		b.CreatedAt,
		b.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*budgetdomain.Budget, error) {
	var budget budgetdomain.Budget
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, amount, period, subscription_id, resource_group_id, current_spend, thresholds, active, created_at, updated_at
		 FROM budgets WHERE id = ?`,
		id,
	).Scan(&budget).Error
	if err != nil {
		return nil, err
	}
	if budget.ID == 0 {
		return nil, nil
	}
	return &budget, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB) ([]budgetdomain.Budget, error) {
	var budgets []budgetdomain.Budget
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, amount, period, subscription_id, resource_group_id, current_spend, thresholds, active, created_at, updated_at
		 FROM budgets WHERE active = ? ORDER BY created_at ASC`,
		true,
	).Scan(&budgets).Error
	if err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *repo) ListActiveMonthlyWithSubscription(ctx context.Context, db *gorm.DB) ([]budgetdomain.Budget, error) {
	var budgets []budgetdomain.Budget
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, amount, period, subscription_id, resource_group_id, current_spend, thresholds, active, created_at, updated_at
		 FROM budgets
		 WHERE active = ? AND period = ? AND subscription_id IS NOT NULL
		 ORDER BY created_at ASC`,
		true,
		budgetdomain.BudgetPeriodMonthly,
	).Scan(&budgets).Error
	if err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *repo) UpdateCurrentSpend(ctx context.Context, db *gorm.DB, id snowflake.ID, spend float64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE budgets SET current_spend = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		spend,
		id,
	).Error
}
