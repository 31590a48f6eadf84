package domain

import "time"

// Canonical rows as the syncer consumes them. Gateways translate vendor
// field names into these shapes so the orchestrator never sees upstream
// payloads.

type AccountRow struct {
	ExternalID  string
	DisplayName string
	State       string
}

type ResourceRow struct {
	ExternalID string
	Name       string
	Type       string
	Location   string
	GroupName  string
	SKU        string
	PowerState string
	Tags       map[string]interface{}
	Properties map[string]interface{}
}

type CostRow struct {
	ResourceExternalID string
	UsageDate          time.Time
	Cost               float64
	Currency           string
	ServiceName        string
	Region             string
	Tags               map[string]interface{}
}

type MetricRow struct {
	MetricName string
	Value      float64
	Unit       string
	RecordedAt time.Time
}

type AdvisorRow struct {
	ResourceExternalID string
	Category           string
	Impact             string
	Description        string
	EstimatedSavings   float64
}
