package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cloudlens/cloudlens/internal/config"
	gatewaydomain "github.com/cloudlens/cloudlens/internal/gateway/domain"
)

// expirySlack forces a refresh slightly before the token actually expires.
const expirySlack = 2 * time.Minute

// ClientCredentialProvider exchanges a client id/secret for bearer tokens
// via the tenant's token endpoint and caches them per scope until expiry.
type ClientCredentialProvider struct {
	baseURL      string
	tenantID     string
	clientID     string
	clientSecret string
	client       *http.Client

	mu     sync.Mutex
	tokens map[string]cachedToken
}

type cachedToken struct {
	value     string
	expiresAt time.Time
}

func NewClientCredentialProvider(cfg config.UpstreamConfig) *ClientCredentialProvider {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClientCredentialProvider{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		tenantID:     cfg.TenantID,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		client:       &http.Client{Timeout: timeout},
		tokens:       make(map[string]cachedToken),
	}
}

func (p *ClientCredentialProvider) GetToken(ctx context.Context, scope string) (string, error) {
	p.mu.Lock()
	cached, ok := p.tokens[scope]
	p.mu.Unlock()
	if ok && time.Now().Before(cached.expiresAt.Add(-expirySlack)) {
		return cached.value, nil
	}

	values := url.Values{}
	values.Set("grant_type", "client_credentials")
	values.Set("client_id", p.clientID)
	values.Set("client_secret", p.clientSecret)
	if scope != "" {
		values.Set("scope", scope)
	}

	endpoint := fmt.Sprintf("%s/tenants/%s/oauth2/token", p.baseURL, p.tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Never echo the response body: token endpoints include secret
		// material in their error payloads.
		return "", fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty token")
	}

	expiresIn := payload.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	p.mu.Lock()
	p.tokens[scope] = cachedToken{
		value:     payload.AccessToken,
		expiresAt: time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
	p.mu.Unlock()
	return payload.AccessToken, nil
}

func (p *ClientCredentialProvider) ListAccessibleAccounts(ctx context.Context) ([]string, error) {
	token, err := p.GetToken(ctx, "")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/accounts/accessible", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list accessible accounts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("accessible accounts endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		Value []struct {
			AccountID string `json:"accountId"`
		} `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode accessible accounts: %w", err)
	}

	ids := make([]string, 0, len(payload.Value))
	for _, account := range payload.Value {
		if account.AccountID != "" {
			ids = append(ids, account.AccountID)
		}
	}
	return ids, nil
}

var _ gatewaydomain.CredentialProvider = (*ClientCredentialProvider)(nil)
