package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListActiveEmails(ctx context.Context, db *gorm.DB) ([]string, error)
}
