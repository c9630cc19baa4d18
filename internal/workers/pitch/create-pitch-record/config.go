// internal/workers/pitch/create-pitch-record/config.go
package createpitchrecord

import (
	"time"

	"pitch-workers/internal/common/config"
	"pitch-workers/internal/models"
)

type Config struct {
	Timeout time.Duration
	Source  string
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout: 10 * time.Second,
		Source:  cfg.Pitch.SubmissionSource,
	}
	if wc := config.GetWorkerConfig(cfg, TaskType); wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	if c.Source == "" {
		c.Source = models.SubmissionSourcePitchForm
	}
	return c
}
