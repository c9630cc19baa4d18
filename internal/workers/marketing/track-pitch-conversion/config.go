package trackpitchconversion

import (
	"time"

	"pitch-workers/internal/common/config"
	"pitch-workers/internal/common/meta"
)

type Config struct {
	Timeout   time.Duration
	SourceURL string
	Meta      meta.Config
}

func LoadConfig(cfg *config.Config) *Config {
	m := cfg.Integrations.Meta
	c := &Config{
		Timeout:   10 * time.Second,
		SourceURL: m.SourceURL,
		Meta: meta.Config{
			PixelID:     m.PixelID,
			AccessToken: m.AccessToken,
			BaseURL:     m.BaseURL,
			APIVersion:  m.APIVersion,
			Timeout:     config.GetDuration(m.Timeout),
		},
	}
	if wc := config.GetWorkerConfig(cfg, TaskType); wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	return c
}
