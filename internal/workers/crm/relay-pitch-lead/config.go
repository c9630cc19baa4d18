// internal/workers/crm/relay-pitch-lead/config.go
package relaypitchlead

import (
	"fmt"
	"time"

	"pitch-workers/internal/common/config"
	"pitch-workers/internal/models"
)

type Config struct {
	Enabled           bool
	WebhookURL        string
	APIKey            string
	Source            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:           true,
		Source:            models.SubmissionSourcePitchForm,
		Timeout:           10 * time.Second,
		RequestsPerSecond: 5,
		Burst:             1,
	}
}

func LoadConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	wh := cfg.Integrations.Webhook
	c.Enabled = wh.Enabled && config.IsWorkerEnabled(cfg, TaskType)
	c.WebhookURL = wh.URL
	c.APIKey = wh.APIKey
	if wh.Timeout > 0 {
		c.Timeout = config.GetDuration(wh.Timeout)
	}
	if wh.RequestsPerSecond > 0 {
		c.RequestsPerSecond = wh.RequestsPerSecond
	}
	if wh.Burst > 0 {
		c.Burst = wh.Burst
	}
	if cfg.Pitch.SubmissionSource != "" {
		c.Source = cfg.Pitch.SubmissionSource
	}
	return c
}

func (c *Config) Validate() error {
	if c.Enabled && c.WebhookURL == "" {
		return fmt.Errorf("webhook url is required when the relay is enabled")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
