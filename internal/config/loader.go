// Package config provides configuration management for the reachability sweep.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultQuery is the inventory query used when an environment does not set one.
// Columns must come back in this order.
const DefaultQuery = "SELECT hostname, type, cname, ip, description, active FROM inventory.servers"

// Load reads configuration from the specified YAML file and environment variables.
// Environment variables take precedence over file values.
// Environment variable format: SWEEP_<SECTION>_<KEY> (e.g., SWEEP_ENVIRONMENTS_PROD_PASSWORD)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SWEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvironmentDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Probe defaults
	v.SetDefault("probe.port", 1025)
	v.SetDefault("probe.connect_timeout", 2*time.Second)
	v.SetDefault("probe.ping_command", "ping")
	v.SetDefault("probe.ping_timeout", 5*time.Second)
	v.SetDefault("probe.capture_output", false)

	// Sweep defaults
	v.SetDefault("sweep.concurrency", 10)
	v.SetDefault("sweep.rate_limit", 0.0)
	v.SetDefault("sweep.timeout", 10*time.Minute)

	// Report defaults
	v.SetDefault("report.output_dir", "./reports")
	v.SetDefault("report.formats", []string{})
	v.SetDefault("report.filename_template", "sweep_report_{{.Env}}_{{.Date}}")
	v.SetDefault("report.timezone", "UTC")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 14)
	v.SetDefault("logging.compress", true)

	// HTTP retry defaults
	v.SetDefault("http.retry.max_retries", 3)
	v.SetDefault("http.retry.base_delay", 1*time.Second)

	v.SetDefault("debug", false)
}

// applyEnvironmentDefaults fills per-environment defaults that viper cannot
// express for map entries.
func applyEnvironmentDefaults(cfg *Config) {
	for name, env := range cfg.Environments {
		env.Driver = strings.ToLower(strings.TrimSpace(env.Driver))
		if env.Timeout == 0 {
			env.Timeout = 30 * time.Second
		}
		if env.Driver == DriverPostgres {
			if env.Port == 0 {
				env.Port = 5432
			}
			if env.Query == "" {
				env.Query = DefaultQuery
			}
			if env.SSLMode == "" {
				env.SSLMode = "prefer"
			}
		}
		cfg.Environments[name] = env
	}
}

// Environment resolves a named environment case-insensitively.
// The returned name is the canonical key from the configuration.
func (c *Config) Environment(name string) (string, *EnvironmentConfig, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for key, env := range c.Environments {
		if strings.ToLower(key) == want {
			env := env
			return key, &env, nil
		}
	}
	return "", nil, fmt.Errorf("unknown environment %q, available environments: %s",
		name, strings.Join(c.EnvironmentNames(), ", "))
}

// EnvironmentNames returns all configured environment names in sorted order.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
