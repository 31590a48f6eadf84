package providers

import (
	"github.com/cloudlens/cloudlens/internal/providers/email"
	"github.com/cloudlens/cloudlens/internal/providers/webhook"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	webhook.Module,
)
