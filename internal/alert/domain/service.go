package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Send persists the alert, then fans out to the notification channels
	// for high/critical severity. Channel failures are logged and swallowed;
	// persistence failures are returned.
	Send(ctx context.Context, req SendRequest) (*Alert, error)
	MarkRead(ctx context.Context, id snowflake.ID) error
	Resolve(ctx context.Context, id snowflake.ID) error
	ListUnresolved(ctx context.Context, limit int) ([]Alert, error)
}

type SendRequest struct {
	Type            AlertType
	Severity        AlertSeverity
	Title           string
	Message         string
	ResourceID      *snowflake.ID
	BudgetID        *snowflake.ID
	BudgetThreshold *float64
	Metadata        map[string]interface{}
}

var (
	ErrInvalidType     = errors.New("invalid_alert_type")
	ErrInvalidSeverity = errors.New("invalid_severity")
	ErrNotFound        = errors.New("not_found")
)
