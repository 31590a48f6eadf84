package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudlens/cloudlens/internal/config"
	gatewaydomain "github.com/cloudlens/cloudlens/internal/gateway/domain"
	"go.uber.org/zap"
)

const defaultMaxAttempts = 3

// restClient is the shared transport for all upstream gateways: bearer auth
// per request, nextLink pagination, and a small bounded retry on transient
// failures. Exhausted retries surface as a stage-fatal error.
type restClient struct {
	baseURL     string
	credentials gatewaydomain.CredentialProvider
	client      *http.Client
	log         *zap.Logger
	maxAttempts int
}

func newRESTClient(cfg config.UpstreamConfig, credentials gatewaydomain.CredentialProvider, log *zap.Logger) *restClient {
	attempts := cfg.MaxRetries
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &restClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		credentials: credentials,
		client:      &http.Client{Timeout: timeout},
		log:         log.Named("gateway.rest"),
		maxAttempts: attempts,
	}
}

// getPaged follows nextLink until the upstream stops returning one, decoding
// each page's value array into out via collect.
func getPaged(ctx context.Context, c *restClient, path, scope string, collect func(json.RawMessage) error) error {
	url := c.baseURL + path
	for url != "" {
		var page pagedResponse
		if err := c.doJSON(ctx, http.MethodGet, url, scope, &page); err != nil {
			return err
		}
		if err := collect(page.Value); err != nil {
			return err
		}
		url = page.NextLink
	}
	return nil
}

type pagedResponse struct {
	Value    json.RawMessage `json:"value"`
	NextLink string          `json:"nextLink"`
}

func (c *restClient) doJSON(ctx context.Context, method, url, scope string, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt-1) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		retryable, err := c.attempt(ctx, method, url, scope, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
		c.log.Warn("upstream request failed, retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return fmt.Errorf("upstream request exhausted %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *restClient) attempt(ctx context.Context, method, url, scope string, out interface{}) (retryable bool, err error) {
	token, err := c.credentials.GetToken(ctx, scope)
	if err != nil {
		return false, fmt.Errorf("acquire token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		io.Copy(io.Discard, resp.Body)
		return true, fmt.Errorf("upstream returned %d", resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		io.Copy(io.Discard, resp.Body)
		return false, fmt.Errorf("upstream returned %d", resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode upstream response: %w", err)
	}
	return false, nil
}
