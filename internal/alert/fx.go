package alert

import (
	"github.com/cloudlens/cloudlens/internal/alert/repository"
	"github.com/cloudlens/cloudlens/internal/alert/service"
	"go.uber.org/fx"
)

var Module = fx.Module("alert.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
