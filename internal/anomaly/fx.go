package anomaly

import (
	"github.com/cloudlens/cloudlens/internal/anomaly/repository"
	"github.com/cloudlens/cloudlens/internal/anomaly/service"
	"go.uber.org/fx"
)

var Module = fx.Module("anomaly.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
