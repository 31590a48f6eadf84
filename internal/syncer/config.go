package syncer

import (
	"time"

	"github.com/cloudlens/cloudlens/internal/config"
)

// Config controls the full-sync cadence and stage knobs.
type Config struct {
	Schedule         string
	RunInterval      time.Duration
	StageTimeout     time.Duration
	CostLookbackDays int
	MetricSampleSize int
	MetricWorkers    int
	MetricWindow     time.Duration
	ZScoreThreshold  float64
}

func DefaultConfig() Config {
	return Config{
		Schedule:         "0 */6 * * *",
		RunInterval:      6 * time.Hour,
		StageTimeout:     5 * time.Minute,
		CostLookbackDays: 30,
		MetricSampleSize: 5,
		MetricWorkers:    3,
		MetricWindow:     24 * time.Hour,
		ZScoreThreshold:  2.0,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Schedule == "" {
		c.Schedule = defaults.Schedule
	}
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.StageTimeout <= 0 {
		c.StageTimeout = defaults.StageTimeout
	}
	if c.CostLookbackDays <= 0 {
		c.CostLookbackDays = defaults.CostLookbackDays
	}
	if c.MetricSampleSize <= 0 {
		c.MetricSampleSize = defaults.MetricSampleSize
	}
	if c.MetricWorkers <= 0 {
		c.MetricWorkers = defaults.MetricWorkers
	}
	if c.MetricWindow <= 0 {
		c.MetricWindow = defaults.MetricWindow
	}
	if c.ZScoreThreshold <= 0 {
		c.ZScoreThreshold = defaults.ZScoreThreshold
	}
	return c
}

// ProvideConfig maps the env-backed application config onto the syncer's.
func ProvideConfig(cfg config.Config) Config {
	return Config{
		Schedule:         cfg.Sync.Schedule,
		RunInterval:      time.Duration(cfg.Sync.RunInterval) * time.Second,
		CostLookbackDays: cfg.Sync.CostLookbackDays,
		MetricSampleSize: cfg.Sync.MetricSampleSize,
		MetricWorkers:    cfg.Sync.MetricWorkers,
		ZScoreThreshold:  cfg.Sync.ZScoreThreshold,
	}.withDefaults()
}
