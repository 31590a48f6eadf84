package recommendation

import (
	"github.com/cloudlens/cloudlens/internal/recommendation/repository"
	"github.com/cloudlens/cloudlens/internal/recommendation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("recommendation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
