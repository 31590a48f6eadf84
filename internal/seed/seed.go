package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/cloudlens/cloudlens/internal/account/domain"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail   = "admin@cloudlens.local"
	defaultAdminDisplay = "CloudLens Admin"
)

// EnsureDefaultAdmin creates the bootstrap notification recipient so alert
// fan-out has somewhere to go on a fresh install. Existing rows are left
// alone.
func EnsureDefaultAdmin(db *gorm.DB, email string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		email = defaultAdminEmail
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing accountdomain.AdminAccount
		err := tx.WithContext(ctx).Raw(
			`SELECT id, email, name, active, created_at FROM admin_accounts WHERE email = ?`,
			email,
		).Scan(&existing).Error
		if err != nil {
			return err
		}
		if existing.ID != 0 {
			return nil
		}

		return tx.WithContext(ctx).Exec(
			`INSERT INTO admin_accounts (id, email, name, active, created_at) VALUES (?, ?, ?, ?, ?)`,
			node.Generate(),
			email,
			defaultAdminDisplay,
			true,
			time.Now().UTC(),
		).Error
	})
}
