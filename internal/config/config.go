// Package config provides configuration management for the reachability sweep.
package config

import "time"

// Supported inventory drivers.
const (
	DriverPostgres = "postgres"
	DriverHTTP     = "http"
	DriverFile     = "file"
)

// Config is the root configuration structure for the sweep tool.
type Config struct {
	Environments map[string]EnvironmentConfig `mapstructure:"environments" validate:"required,min=1,dive"`
	Probe        ProbeConfig                  `mapstructure:"probe"`
	Sweep        SweepConfig                  `mapstructure:"sweep"`
	Report       ReportConfig                 `mapstructure:"report"`
	Logging      LoggingConfig                `mapstructure:"logging"`
	HTTP         HTTPConfig                   `mapstructure:"http"`
	Debug        bool                         `mapstructure:"debug"` // Capture ping diagnostics and log at debug level
}

// EnvironmentConfig describes where the inventory of one named environment lives.
// Which fields are required depends on Driver.
type EnvironmentConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres http file"`

	// postgres
	DSN      string `mapstructure:"dsn"`      // Full connection string; overrides the discrete fields
	Host     string `mapstructure:"host"`     // Database host
	Port     int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	User     string `mapstructure:"user"`     // Database user
	Password string `mapstructure:"password"` // Database password (prefer SWEEP_ENVIRONMENTS_<ENV>_PASSWORD)
	Database string `mapstructure:"database"` // Database name
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	Query    string `mapstructure:"query"`    // Six-column inventory query

	// http
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
	Token    string `mapstructure:"token"`

	// file
	Path string `mapstructure:"path"`

	Timeout time.Duration `mapstructure:"timeout"` // Inventory fetch timeout
}

// ProbeConfig contains reachability probe settings.
type ProbeConfig struct {
	Port           int           `mapstructure:"port" validate:"gte=1,lte=65535"` // Port probe target port, default 1025
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`                 // Port probe connect timeout, default 2s
	PingCommand    string        `mapstructure:"ping_command" validate:"required"`
	PingTimeout    time.Duration `mapstructure:"ping_timeout"`   // Upper bound for one ping invocation
	CaptureOutput  bool          `mapstructure:"capture_output"` // Log ping diagnostics on failure
}

// SweepConfig contains sweep engine settings.
type SweepConfig struct {
	Concurrency int           `mapstructure:"concurrency" validate:"gte=1,lte=256"`
	RateLimit   float64       `mapstructure:"rate_limit" validate:"gte=0"` // Probe launches per second, 0 = unlimited
	Timeout     time.Duration `mapstructure:"timeout"`                     // Whole-run timeout
}

// ReportConfig contains configurations for report generation.
type ReportConfig struct {
	OutputDir        string   `mapstructure:"output_dir"`
	Formats          []string `mapstructure:"formats" validate:"dive,oneof=text excel html"`
	FilenameTemplate string   `mapstructure:"filename_template"`
	HTMLTemplate     string   `mapstructure:"html_template"`
	Timezone         string   `mapstructure:"timezone"`
}

// LoggingConfig contains configurations for logging.
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	File       string `mapstructure:"file"` // Optional rotating log file
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// HTTPConfig contains HTTP client configurations including retry settings.
type HTTPConfig struct {
	Retry RetryConfig `mapstructure:"retry"`
}

// RetryConfig defines retry behavior for HTTP inventory requests.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
}
