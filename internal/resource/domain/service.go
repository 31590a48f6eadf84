package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Upsert writes a resource and, when the payload names a resource
	// group, creates the group first inside the same transaction.
	Upsert(ctx context.Context, req UpsertRequest) (*Resource, error)
	ListRunningCompute(ctx context.Context, limit int) ([]Resource, error)
}

type UpsertRequest struct {
	ExternalID     string
	Name           string
	ResourceType   string
	Location       string
	SubscriptionID snowflake.ID
	GroupName      string
	SKU            string
	Status         ResourceStatus
	Tags           map[string]interface{}
	Properties     map[string]interface{}
}

var (
	ErrInvalidExternalID   = errors.New("invalid_external_id")
	ErrInvalidSubscription = errors.New("invalid_subscription")
)
