package crmleadupsert

import (
	"fmt"
	"time"

	"pitch-workers/internal/common/config"
	"pitch-workers/internal/models"
)

type Config struct {
	Enabled        bool
	MaxJobsActive  int
	Timeout        time.Duration
	ZohoAPIKey     string
	ZohoOAuthToken string
	ZohoBaseURL    string
	LeadSource     string
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       false,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		LeadSource:    models.SubmissionSourcePitchForm,
	}
}

func LoadConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	wc := config.GetWorkerConfig(cfg, TaskType)
	c.Enabled = wc.Enabled
	if wc.MaxJobsActive > 0 {
		c.MaxJobsActive = wc.MaxJobsActive
	}
	if wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	c.ZohoAPIKey = cfg.Integrations.Zoho.APIKey
	c.ZohoOAuthToken = cfg.Integrations.Zoho.AuthToken
	c.ZohoBaseURL = cfg.Integrations.Zoho.BaseURL
	if cfg.Pitch.SubmissionSource != "" {
		c.LeadSource = cfg.Pitch.SubmissionSource
	}
	return c
}

func (c *Config) Validate() error {
	if c.Enabled && c.ZohoOAuthToken == "" {
		return fmt.Errorf("zoho oauth token is required when %s is enabled", TaskType)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
