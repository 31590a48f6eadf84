package seed

import (
	"github.com/cloudlens/cloudlens/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		return EnsureDefaultAdmin(conn, cfg.AdminEmail)
	}),
)
