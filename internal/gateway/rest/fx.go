package rest

import (
	"github.com/cloudlens/cloudlens/internal/config"
	gatewaydomain "github.com/cloudlens/cloudlens/internal/gateway/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

type Gateways struct {
	fx.Out

	Credentials gatewaydomain.CredentialProvider
	Accounts    gatewaydomain.AccountsGateway
	Inventory   gatewaydomain.InventoryGateway
	Costs       gatewaydomain.CostGateway
	Metrics     gatewaydomain.MetricsGateway
	Advisor     gatewaydomain.AdvisorGateway
}

func New(p Params) Gateways {
	credentials := NewClientCredentialProvider(p.Config.Upstream)
	client := newRESTClient(p.Config.Upstream, credentials, p.Log)
	return Gateways{
		Credentials: credentials,
		Accounts:    &accountsGateway{client: client},
		Inventory:   &inventoryGateway{client: client},
		Costs:       &costGateway{client: client},
		Metrics:     &metricsGateway{client: client},
		Advisor:     &advisorGateway{client: client},
	}
}

var Module = fx.Module("gateway.rest",
	fx.Provide(New),
)
