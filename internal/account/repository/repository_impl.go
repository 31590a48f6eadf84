package repository

import (
	"context"

	accountdomain "github.com/cloudlens/cloudlens/internal/account/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() accountdomain.Repository {
	return &repo{}
}

func (r *repo) ListActiveEmails(ctx context.Context, db *gorm.DB) ([]string, error) {
	var emails []string
	err := db.WithContext(ctx).Raw(
		`SELECT email FROM admin_accounts WHERE active = ? ORDER BY email ASC`,
		true,
	).Scan(&emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}
