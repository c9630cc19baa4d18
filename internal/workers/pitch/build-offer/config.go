// internal/workers/pitch/build-offer/config.go
package buildoffer

import (
	"time"

	"pitch-workers/internal/common/config"
	"pitch-workers/internal/pitch"
)

type Config struct {
	Timeout time.Duration
	Links   pitch.Links
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout: 5 * time.Second,
		Links:   cfg.Pitch.Links(),
	}
	if wc := config.GetWorkerConfig(cfg, TaskType); wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	return c
}
