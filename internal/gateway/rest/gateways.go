package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	gatewaydomain "github.com/cloudlens/cloudlens/internal/gateway/domain"
)

const dateOnly = "2006-01-02"

type accountsGateway struct{ client *restClient }

func (g *accountsGateway) ListAccounts(ctx context.Context) ([]gatewaydomain.AccountRow, error) {
	var rows []gatewaydomain.AccountRow
	err := getPaged(ctx, g.client, "/accounts", "accounts.read", func(raw json.RawMessage) error {
		var items []struct {
			AccountID   string `json:"accountId"`
			DisplayName string `json:"displayName"`
			State       string `json:"state"`
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decode accounts page: %w", err)
		}
		for _, item := range items {
			rows = append(rows, gatewaydomain.AccountRow{
				ExternalID:  item.AccountID,
				DisplayName: item.DisplayName,
				State:       item.State,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type inventoryGateway struct{ client *restClient }

func (g *inventoryGateway) ListResources(ctx context.Context, accountExternalID string) ([]gatewaydomain.ResourceRow, error) {
	path := fmt.Sprintf("/accounts/%s/resources", url.PathEscape(accountExternalID))
	var rows []gatewaydomain.ResourceRow
	err := getPaged(ctx, g.client, path, "inventory.read", func(raw json.RawMessage) error {
		var items []struct {
			ResourceID    string                 `json:"resourceId"`
			Name          string                 `json:"name"`
			Type          string                 `json:"type"`
			Location      string                 `json:"location"`
			ResourceGroup string                 `json:"resourceGroup"`
			SKU           string                 `json:"sku"`
			PowerState    string                 `json:"powerState"`
			Tags          map[string]interface{} `json:"tags"`
			Properties    map[string]interface{} `json:"properties"`
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decode resources page: %w", err)
		}
		for _, item := range items {
			rows = append(rows, gatewaydomain.ResourceRow{
				ExternalID: item.ResourceID,
				Name:       item.Name,
				Type:       item.Type,
				Location:   item.Location,
				GroupName:  item.ResourceGroup,
				SKU:        item.SKU,
				PowerState: item.PowerState,
				Tags:       item.Tags,
				Properties: item.Properties,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type costGateway struct{ client *restClient }

func (g *costGateway) QueryCosts(ctx context.Context, accountExternalID string, from, to time.Time) ([]gatewaydomain.CostRow, error) {
	path := fmt.Sprintf("/accounts/%s/costs?from=%s&to=%s",
		url.PathEscape(accountExternalID),
		from.UTC().Format(dateOnly),
		to.UTC().Format(dateOnly),
	)
	var rows []gatewaydomain.CostRow
	err := getPaged(ctx, g.client, path, "costs.read", func(raw json.RawMessage) error {
		var items []struct {
			ResourceID  string                 `json:"resourceId"`
			UsageDate   string                 `json:"usageDate"`
			Cost        float64                `json:"cost"`
			Currency    string                 `json:"currency"`
			ServiceName string                 `json:"serviceName"`
			Region      string                 `json:"region"`
			Tags        map[string]interface{} `json:"tags"`
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decode costs page: %w", err)
		}
		for _, item := range items {
			usageDate, err := time.ParseInLocation(dateOnly, item.UsageDate, time.UTC)
			if err != nil {
				return fmt.Errorf("parse usage date %q: %w", item.UsageDate, err)
			}
			rows = append(rows, gatewaydomain.CostRow{
				ResourceExternalID: item.ResourceID,
				UsageDate:          usageDate,
				Cost:               item.Cost,
				Currency:           item.Currency,
				ServiceName:        item.ServiceName,
				Region:             item.Region,
				Tags:               item.Tags,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type metricsGateway struct{ client *restClient }

func (g *metricsGateway) QueryMetrics(ctx context.Context, resourceExternalID string, from, to time.Time) ([]gatewaydomain.MetricRow, error) {
	path := fmt.Sprintf("/resources/%s/metrics?from=%s&to=%s",
		url.PathEscape(resourceExternalID),
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	)
	var rows []gatewaydomain.MetricRow
	err := getPaged(ctx, g.client, path, "metrics.read", func(raw json.RawMessage) error {
		var items []struct {
			MetricName string  `json:"metricName"`
			Value      float64 `json:"value"`
			Unit       string  `json:"unit"`
			Timestamp  string  `json:"timestamp"`
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decode metrics page: %w", err)
		}
		for _, item := range items {
			recordedAt, err := time.Parse(time.RFC3339, item.Timestamp)
			if err != nil {
				return fmt.Errorf("parse metric timestamp %q: %w", item.Timestamp, err)
			}
			rows = append(rows, gatewaydomain.MetricRow{
				MetricName: item.MetricName,
				Value:      item.Value,
				Unit:       item.Unit,
				RecordedAt: recordedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type advisorGateway struct{ client *restClient }

func (g *advisorGateway) ListRecommendations(ctx context.Context, accountExternalID string) ([]gatewaydomain.AdvisorRow, error) {
	path := fmt.Sprintf("/accounts/%s/recommendations", url.PathEscape(accountExternalID))
	var rows []gatewaydomain.AdvisorRow
	err := getPaged(ctx, g.client, path, "advisor.read", func(raw json.RawMessage) error {
		var items []struct {
			ResourceID       string  `json:"resourceId"`
			Category         string  `json:"category"`
			Impact           string  `json:"impact"`
			Description      string  `json:"description"`
			EstimatedSavings float64 `json:"estimatedSavings"`
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decode recommendations page: %w", err)
		}
		for _, item := range items {
			rows = append(rows, gatewaydomain.AdvisorRow{
				ResourceExternalID: item.ResourceID,
				Category:           item.Category,
				Impact:             item.Impact,
				Description:        item.Description,
				EstimatedSavings:   item.EstimatedSavings,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
