// Package config loads configs/config.yaml (plus the per-environment overlay
// and .env) into Config.
package config

import (
	"fmt"

	"pitch-workers/internal/pitch"
)

// Config mirrors configs/config.yaml.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Server        ServerConfig            `mapstructure:"server"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Pitch         PitchConfig             `mapstructure:"pitch"`
	Integrations  IntegrationConfig       `mapstructure:"integrations"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	ProcessID      string `mapstructure:"process_id"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	BPMNPath       string `mapstructure:"bpmn_path"`       // deployed on startup when set
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns a lib/pq keyword/value DSN.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // Single URL, used when addresses is empty
	Index     string   `mapstructure:"index"`
}

// GetURL prefers URL over the first of Addresses.
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ServerConfig is the HTTP intake and health endpoint.
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // milliseconds
}

// WorkerConfig is one entry of the workers map, keyed by task type.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// PitchConfig holds the outbound links and contacts used by the offer and
// notification steps.
type PitchConfig struct {
	KickoffCallURL      string `mapstructure:"kickoff_call_url"`
	ConsultationCallURL string `mapstructure:"consultation_call_url"`
	PaymentBaseURL      string `mapstructure:"payment_base_url"`
	AdminEmail          string `mapstructure:"admin_email"`
	AdminPhone          string `mapstructure:"admin_phone"`
	ScoreCacheTTL       int    `mapstructure:"score_cache_ttl"` // seconds
	SubmissionSource    string `mapstructure:"submission_source"`
}

// Links converts the configured URLs for the offer builder.
func (p PitchConfig) Links() pitch.Links {
	return pitch.Links{
		KickoffCallURL:      p.KickoffCallURL,
		ConsultationCallURL: p.ConsultationCallURL,
		PaymentBaseURL:      p.PaymentBaseURL,
	}
}

// IntegrationConfig groups the outbound services: Zoho, AWS, the CRM
// webhook and Meta.
type IntegrationConfig struct {
	Zoho struct {
		APIKey    string `mapstructure:"api_key"`
		AuthToken string `mapstructure:"oauth_token"`
		BaseURL   string `mapstructure:"base_url"`
	} `mapstructure:"zoho"`

	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled            bool   `mapstructure:"enabled"`
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`

	Webhook WebhookConfig `mapstructure:"crm_webhook"`

	Meta MetaConfig `mapstructure:"meta"`
}

// WebhookConfig points the lead relay at a CRM catch hook.
type WebhookConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	URL               string  `mapstructure:"url"`
	APIKey            string  `mapstructure:"api_key"`
	Timeout           int     `mapstructure:"timeout"` // milliseconds
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// MetaConfig configures the Conversions API relay.
type MetaConfig struct {
	PixelID     string `mapstructure:"pixel_id"`
	AccessToken string `mapstructure:"access_token"`
	APIVersion  string `mapstructure:"api_version"`
	BaseURL     string `mapstructure:"base_url"`
	SourceURL   string `mapstructure:"source_url"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
}

// NotificationConfig switches the send-pitch-notification channels. A
// channel also needs its AWS integration enabled.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"sms"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ObservabilityConfig controls the OpenTelemetry providers.
type ObservabilityConfig struct {
	ServiceName    string  `mapstructure:"service_name"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}
