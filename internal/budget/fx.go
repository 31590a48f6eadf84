package budget

import (
	"github.com/cloudlens/cloudlens/internal/budget/repository"
	"github.com/cloudlens/cloudlens/internal/budget/service"
	"go.uber.org/fx"
)

var Module = fx.Module("budget.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
