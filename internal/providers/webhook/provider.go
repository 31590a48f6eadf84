package webhook

import "context"

// Provider posts a plain-text message to a chat channel webhook.
type Provider interface {
	PostMessage(ctx context.Context, message string) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) PostMessage(ctx context.Context, message string) error {
	return nil
}
