// internal/workers/data-access/index-pitch-submission/config.go
package indexpitchsubmission

import (
	"time"

	"pitch-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Index   string
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout: 10 * time.Second,
		Index:   cfg.Database.Elasticsearch.Index,
	}
	if wc := config.GetWorkerConfig(cfg, TaskType); wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	return c
}
