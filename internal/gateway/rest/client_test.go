package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudlens/cloudlens/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticTokenProvider struct{}

func (staticTokenProvider) GetToken(ctx context.Context, scope string) (string, error) {
	return "token-" + scope, nil
}

func (staticTokenProvider) ListAccessibleAccounts(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestClientTimeoutFromConfig(t *testing.T) {
	c := newRESTClient(config.UpstreamConfig{RequestTimeout: 5}, staticTokenProvider{}, zap.NewNop())
	assert.Equal(t, 5*time.Second, c.client.Timeout)

	c = newRESTClient(config.UpstreamConfig{}, staticTokenProvider{}, zap.NewNop())
	assert.Equal(t, 30*time.Second, c.client.Timeout)

	p := NewClientCredentialProvider(config.UpstreamConfig{RequestTimeout: 7})
	assert.Equal(t, 7*time.Second, p.client.Timeout)

	p = NewClientCredentialProvider(config.UpstreamConfig{})
	assert.Equal(t, 30*time.Second, p.client.Timeout)
}

func TestDoJSONRetriesTransientFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		assert.Equal(t, "Bearer token-accounts.read", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := newRESTClient(config.UpstreamConfig{BaseURL: srv.URL, MaxRetries: 2}, staticTokenProvider{}, zap.NewNop())

	var out map[string]string
	err := c.doJSON(context.Background(), http.MethodGet, srv.URL, "accounts.read", &out)
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
	assert.Equal(t, "ok", out["status"])
}

func TestDoJSONDoesNotRetryClientErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newRESTClient(config.UpstreamConfig{BaseURL: srv.URL, MaxRetries: 3}, staticTokenProvider{}, zap.NewNop())

	err := c.doJSON(context.Background(), http.MethodGet, srv.URL, "accounts.read", nil)
	require.Error(t, err)
	assert.Equal(t, 1, hits)
}

func TestGetPagedFollowsNextLink(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/items":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"value":    []string{"a", "b"},
				"nextLink": srv.URL + "/items-2",
			})
		case "/items-2":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"value": []string{"c"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newRESTClient(config.UpstreamConfig{BaseURL: srv.URL}, staticTokenProvider{}, zap.NewNop())

	var got []string
	err := getPaged(context.Background(), c, "/items", "accounts.read", func(raw json.RawMessage) error {
		var page []string
		if err := json.Unmarshal(raw, &page); err != nil {
			return err
		}
		got = append(got, page...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
