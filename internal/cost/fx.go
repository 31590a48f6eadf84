package cost

import (
	"github.com/cloudlens/cloudlens/internal/cost/repository"
	"github.com/cloudlens/cloudlens/internal/cost/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cost.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
