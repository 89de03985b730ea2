package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
// It is loaded once at startup and treated as read-only afterwards.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	KSeF       KSeFConfig       `yaml:"ksef"`
	Submission SubmissionConfig `yaml:"submission"`
	Incoming   IncomingConfig   `yaml:"incoming"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" default:"90s"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" default:"localhost" validate:"required"`
	Port     int    `yaml:"port" default:"5432" validate:"min=1,max=65535"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"ksef" validate:"required"`
	SSLMode  string `yaml:"ssl_mode" default:"disable" validate:"oneof=disable require verify-ca verify-full"`
}

// KSeFConfig contains the remote API settings
type KSeFConfig struct {
	// Environment is one of TEST, DEMO or PRODUCTION.
	Environment string `yaml:"environment" default:"TEST" validate:"oneof=TEST DEMO PRODUCTION"`
	// BaseURL overrides the environment's API root, mostly for tests and proxies.
	BaseURL        string        `yaml:"base_url" validate:"omitempty,url"`
	NIP            string        `yaml:"nip" validate:"required,len=10,numeric"`
	RequestTimeout time.Duration `yaml:"request_timeout" default:"30s" validate:"gt=0"`
	Auth           AuthConfig    `yaml:"auth"`
}

// AuthConfig holds the credentials used to open KSeF sessions.
// Completeness is checked by the auth provider at use time so that missing
// pieces are reported as authentication failures on the affected record.
type AuthConfig struct {
	Method             string `yaml:"method" default:"token" validate:"oneof=token certificate"`
	Token              string `yaml:"token"`
	PublicKeyFile      string `yaml:"public_key_file"`
	CertificateFile    string `yaml:"certificate_file"`
	PrivateKeyFile     string `yaml:"private_key_file"`
	PrivateKeyPassword string `yaml:"private_key_password"`
	PKCS12File         string `yaml:"pkcs12_file"`
}

// SubmissionConfig contains outbound lifecycle settings
type SubmissionConfig struct {
	// MaxProcessingTime is how long an attempt may stay unresolved remotely before it is marked TIMEOUT.
	MaxProcessingTime time.Duration `yaml:"max_processing_time" default:"2h" validate:"gt=0"`
	// ReservationTTL is how long a reserved attempt may lack a KSeF reference before it counts as interrupted.
	ReservationTTL    time.Duration `yaml:"reservation_ttl" default:"10m" validate:"gt=0"`
	OfflineLeadWindow time.Duration `yaml:"offline_lead_window" default:"12h" validate:"gte=0"`
}

// IncomingConfig contains inbound synchronization settings
type IncomingConfig struct {
	InitialLookback  time.Duration `yaml:"initial_lookback" default:"720h" validate:"gt=0"`
	MaxExportWindow  time.Duration `yaml:"max_export_window" default:"2160h" validate:"gt=0"`
	MaxFetchDuration time.Duration `yaml:"max_fetch_duration" default:"30m" validate:"gt=0"`
	MaxRollbackDays  int           `yaml:"max_rollback_days" default:"90" validate:"min=1"`
}

// SchedulerConfig contains the optional in-process polling driver settings
type SchedulerConfig struct {
	Enabled            bool          `yaml:"enabled"`
	FetchInterval      time.Duration `yaml:"fetch_interval" default:"1h" validate:"gt=0"`
	StatusPollInterval time.Duration `yaml:"status_poll_interval" default:"1m" validate:"gt=0"`
	AttentionInterval  time.Duration `yaml:"attention_interval" default:"15m" validate:"gt=0"`
	CheckBatchSize     int           `yaml:"check_batch_size" default:"50" validate:"min=1"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled     bool   `yaml:"enabled" default:"true"`
	MetricsPath string `yaml:"metrics_path" default:"/metrics"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

// Load reads the YAML file at configPath, expands ${VAR} references from the
// environment, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from raw YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.KSeF.Environment = strings.ToUpper(strings.TrimSpace(cfg.KSeF.Environment))
	cfg.KSeF.Auth.Method = strings.ToLower(strings.TrimSpace(cfg.KSeF.Auth.Method))

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed on %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	if cfg.Incoming.MaxExportWindow < 24*time.Hour {
		return fmt.Errorf("incoming.max_export_window must be at least 24h")
	}
	return nil
}
