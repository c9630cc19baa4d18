package sendpitchnotification

import (
	"time"

	"pitch-workers/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	AdminEmail   string
	AdminPhone   string
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout:      15 * time.Second,
		EmailEnabled: cfg.Notifications.Email.Enabled && cfg.Integrations.AWS.SES.Enabled,
		SMSEnabled:   cfg.Notifications.SMS.Enabled && cfg.Integrations.AWS.SNS.Enabled,
		AdminEmail:   cfg.Pitch.AdminEmail,
		AdminPhone:   cfg.Pitch.AdminPhone,
	}
	if wc := config.GetWorkerConfig(cfg, TaskType); wc.Timeout > 0 {
		c.Timeout = config.GetDuration(wc.Timeout)
	}
	return c
}
