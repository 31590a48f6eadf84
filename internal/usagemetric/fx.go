package usagemetric

import (
	"github.com/cloudlens/cloudlens/internal/usagemetric/repository"
	"github.com/cloudlens/cloudlens/internal/usagemetric/service"
	"go.uber.org/fx"
)

var Module = fx.Module("usagemetric.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
