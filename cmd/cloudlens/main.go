package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/cloudlens/cloudlens/internal/account"
	"github.com/cloudlens/cloudlens/internal/alert"
	"github.com/cloudlens/cloudlens/internal/anomaly"
	"github.com/cloudlens/cloudlens/internal/budget"
	"github.com/cloudlens/cloudlens/internal/clock"
	"github.com/cloudlens/cloudlens/internal/config"
	"github.com/cloudlens/cloudlens/internal/cost"
	"github.com/cloudlens/cloudlens/internal/forecast"
	"github.com/cloudlens/cloudlens/internal/gateway/rest"
	"github.com/cloudlens/cloudlens/internal/logger"
	"github.com/cloudlens/cloudlens/internal/migration"
	"github.com/cloudlens/cloudlens/internal/providers"
	"github.com/cloudlens/cloudlens/internal/ratelimit"
	"github.com/cloudlens/cloudlens/internal/recommendation"
	"github.com/cloudlens/cloudlens/internal/resource"
	"github.com/cloudlens/cloudlens/internal/seed"
	"github.com/cloudlens/cloudlens/internal/subscription"
	"github.com/cloudlens/cloudlens/internal/syncer"
	"github.com/cloudlens/cloudlens/internal/usagemetric"
	"github.com/cloudlens/cloudlens/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		seed.Module,

		// Domain services
		subscription.Module,
		resource.Module,
		cost.Module,
		usagemetric.Module,
		recommendation.Module,
		anomaly.Module,
		forecast.Module,
		budget.Module,
		alert.Module,
		account.Module,
		providers.Module,

		// Upstream access + sync pipeline
		rest.Module,
		ratelimit.Module,
		syncer.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
