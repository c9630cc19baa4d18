// internal/workers/pitch/score-pitch/config.go
package scorepitch

import (
	"time"

	"pitch-workers/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout:  5 * time.Second,
		CacheTTL: 24 * time.Hour,
	}
	if wc := config.GetWorkerConfig(cfg, TaskType); wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	if cfg.Pitch.ScoreCacheTTL > 0 {
		c.CacheTTL = time.Duration(cfg.Pitch.ScoreCacheTTL) * time.Second
	}
	return c
}
