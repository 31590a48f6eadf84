package subscription

import (
	"github.com/cloudlens/cloudlens/internal/subscription/repository"
	"github.com/cloudlens/cloudlens/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
