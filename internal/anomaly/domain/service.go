package domain

import "context"

type Service interface {
	// DetectAnomalies scores each resource's last three days of spend
	// against its trailing baseline and records the outliers. Returns the
	// number of new anomalies written.
	DetectAnomalies(ctx context.Context, lookbackDays int, zThreshold float64) (int, error)
}
