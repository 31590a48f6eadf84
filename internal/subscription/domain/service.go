package domain

import (
	"context"
	"errors"
)

type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) (*Subscription, error)
	ListActive(ctx context.Context) ([]Subscription, error)
	DeactivateMissing(ctx context.Context, seenExternalIDs []string) (int64, error)
}

type UpsertRequest struct {
	ExternalID  string
	DisplayName string
	State       SubscriptionState
}

var (
	ErrInvalidExternalID = errors.New("invalid_external_id")
)
