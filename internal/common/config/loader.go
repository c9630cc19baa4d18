package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pitch-workers/internal/pitch"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on
// top, expands ${VAR} placeholders and applies defaults.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // the environment overlay is optional

	return finish(v)
}

// LoadFromFile loads path without the environment overlay.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the nearest .env walking up from the working directory.
// The walk stops at the module root (the directory holding go.mod).
func loadEnvFile() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
			return
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from well-known environment variables
// when the YAML left them blank.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty := func(dst *string, envKey string) {
		if *dst == "" {
			if val := os.Getenv(envKey); val != "" {
				*dst = val
			}
		}
	}

	setIfEmpty(&cfg.Integrations.Zoho.APIKey, "ZOHO_CRM_API_KEY")
	setIfEmpty(&cfg.Integrations.Zoho.AuthToken, "ZOHO_CRM_OAUTH_TOKEN")

	setIfEmpty(&cfg.Integrations.Webhook.URL, "CRM_WEBHOOK_URL")
	setIfEmpty(&cfg.Integrations.Webhook.APIKey, "CRM_API_KEY")

	setIfEmpty(&cfg.Integrations.Meta.PixelID, "META_PIXEL_ID")
	setIfEmpty(&cfg.Integrations.Meta.AccessToken, "META_ACCESS_TOKEN")

	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")

	setIfEmpty(&cfg.Pitch.AdminEmail, "PITCH_ADMIN_EMAIL")
	setIfEmpty(&cfg.Pitch.AdminPhone, "PITCH_ADMIN_PHONE")
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "pitch-workers"
	}

	// Camunda defaults
	if cfg.Camunda.ProcessID == "" {
		cfg.Camunda.ProcessID = "pitch-intake"
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	// Database defaults
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}
	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "pitch-submissions"
	}

	// Server defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15000
	}

	// Pitch defaults
	links := cfg.Pitch.Links()
	if links.KickoffCallURL == "" && links.ConsultationCallURL == "" && links.PaymentBaseURL == "" {
		def := pitch.DefaultLinks()
		cfg.Pitch.KickoffCallURL = def.KickoffCallURL
		cfg.Pitch.ConsultationCallURL = def.ConsultationCallURL
		cfg.Pitch.PaymentBaseURL = def.PaymentBaseURL
	}
	if cfg.Pitch.AdminEmail == "" {
		cfg.Pitch.AdminEmail = "hello@spencertoogood.com"
	}
	if cfg.Pitch.ScoreCacheTTL == 0 {
		cfg.Pitch.ScoreCacheTTL = 86400
	}
	if cfg.Pitch.SubmissionSource == "" {
		cfg.Pitch.SubmissionSource = "pitch-me-form"
	}

	// Integration defaults
	if cfg.Integrations.Zoho.BaseURL == "" {
		cfg.Integrations.Zoho.BaseURL = "https://www.zohoapis.com/crm/v3"
	}
	if cfg.Integrations.Webhook.Timeout == 0 {
		cfg.Integrations.Webhook.Timeout = 10000
	}
	if cfg.Integrations.Webhook.RequestsPerSecond == 0 {
		cfg.Integrations.Webhook.RequestsPerSecond = 5
	}
	if cfg.Integrations.Webhook.Burst == 0 {
		cfg.Integrations.Webhook.Burst = 1
	}
	if cfg.Integrations.Meta.APIVersion == "" {
		cfg.Integrations.Meta.APIVersion = "v18.0"
	}
	if cfg.Integrations.Meta.BaseURL == "" {
		cfg.Integrations.Meta.BaseURL = "https://graph.facebook.com"
	}
	if cfg.Integrations.Meta.Timeout == 0 {
		cfg.Integrations.Meta.Timeout = 5000
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
	if cfg.Observability.SampleRatio == 0 {
		cfg.Observability.SampleRatio = 1
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig reports every missing required setting at once.
func validateConfig(cfg *Config) error {
	var problems []string
	require := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	require(cfg.Camunda.BrokerAddress != "", "camunda.broker_address is required")
	require(cfg.Database.Postgres.Host != "", "database.postgres.host is required")
	require(cfg.Database.Postgres.Database != "", "database.postgres.database is required")
	require(cfg.Database.Postgres.User != "", "database.postgres.user is required")
	require(cfg.Database.Elasticsearch.GetURL() != "", "database.elasticsearch.addresses or url is required")
	require(cfg.Database.Redis.Address != "", "database.redis.address is required")
	require(!cfg.Integrations.Webhook.Enabled || cfg.Integrations.Webhook.URL != "",
		"integrations.crm_webhook.url is required when the relay is enabled")

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// GetDuration converts a millisecond setting.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig returns the workers entry for taskType, or defaults when
// the YAML has none.
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
