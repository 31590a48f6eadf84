package domain

import (
	"context"
	"time"
)

// CredentialProvider issues bearer tokens and enumerates the accounts the
// configured principal can read. Failures here are fatal for the stage that
// hit them.
type CredentialProvider interface {
	GetToken(ctx context.Context, scope string) (string, error)
	ListAccessibleAccounts(ctx context.Context) ([]string, error)
}

type AccountsGateway interface {
	ListAccounts(ctx context.Context) ([]AccountRow, error)
}

type InventoryGateway interface {
	ListResources(ctx context.Context, accountExternalID string) ([]ResourceRow, error)
}

type CostGateway interface {
	QueryCosts(ctx context.Context, accountExternalID string, from, to time.Time) ([]CostRow, error)
}

type MetricsGateway interface {
	QueryMetrics(ctx context.Context, resourceExternalID string, from, to time.Time) ([]MetricRow, error)
}

type AdvisorGateway interface {
	ListRecommendations(ctx context.Context, accountExternalID string) ([]AdvisorRow, error)
}
