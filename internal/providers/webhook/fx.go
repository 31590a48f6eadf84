package webhook

import (
	"github.com/cloudlens/cloudlens/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.webhook",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Provider {
	if cfg.Webhook.URL == "" {
		return &NoOpProvider{}
	}
	return NewHTTP(cfg.Webhook.URL)
}
