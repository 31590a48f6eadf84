package resource

import (
	"github.com/cloudlens/cloudlens/internal/resource/repository"
	"github.com/cloudlens/cloudlens/internal/resource/service"
	"go.uber.org/fx"
)

var Module = fx.Module("resource.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
