// Package config provides configuration management for the reachability sweep.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error with user-friendly message.
type ValidationError struct {
	Field   string      // Field path (e.g., "environments[prod].host")
	Tag     string      // Validation tag that failed (e.g., "required", "url")
	Value   interface{} // Actual value that failed validation
	Message string      // User-friendly error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// validate is the package-level validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("timezone", validateTimezone)
}

// Validate validates the configuration and returns user-friendly error messages.
func Validate(cfg *Config) error {
	var validationErrors ValidationErrors

	if err := validate.Struct(cfg); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				validationErrors = append(validationErrors, &ValidationError{
					Field:   formatFieldName(fe.Namespace()),
					Tag:     fe.Tag(),
					Value:   fe.Value(),
					Message: translateError(fe),
				})
			}
		}
	}

	if errs := validateEnvironments(cfg); len(errs) > 0 {
		validationErrors = append(validationErrors, errs...)
	}

	if errs := validateProbeTimeouts(cfg); len(errs) > 0 {
		validationErrors = append(validationErrors, errs...)
	}

	if errs := validateTimezoneConfig(cfg); len(errs) > 0 {
		validationErrors = append(validationErrors, errs...)
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

// validateTimezone is a custom validator for timezone strings.
func validateTimezone(fl validator.FieldLevel) bool {
	tz := fl.Field().String()
	if tz == "" {
		return true
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// validateEnvironments checks the fields each inventory driver needs.
func validateEnvironments(cfg *Config) ValidationErrors {
	var errors ValidationErrors

	for _, name := range cfg.EnvironmentNames() {
		env := cfg.Environments[name]
		prefix := fmt.Sprintf("environments[%s]", name)

		missing := func(field string) {
			errors = append(errors, &ValidationError{
				Field:   prefix + "." + field,
				Tag:     "required_for_driver",
				Value:   "",
				Message: fmt.Sprintf("%s is required for driver %q", field, env.Driver),
			})
		}

		switch env.Driver {
		case DriverPostgres:
			if env.DSN == "" {
				if env.Host == "" {
					missing("host")
				}
				if env.User == "" {
					missing("user")
				}
			}
		case DriverHTTP:
			if env.Endpoint == "" {
				missing("endpoint")
			}
		case DriverFile:
			if env.Path == "" {
				missing("path")
			}
		}
	}

	return errors
}

// validateProbeTimeouts makes sure every probe is individually bounded.
func validateProbeTimeouts(cfg *Config) ValidationErrors {
	var errors ValidationErrors

	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"probe.connect_timeout", cfg.Probe.ConnectTimeout},
		{"probe.ping_timeout", cfg.Probe.PingTimeout},
	}

	for _, t := range timeouts {
		if t.value <= 0 {
			errors = append(errors, &ValidationError{
				Field:   t.name,
				Tag:     "positive_duration",
				Value:   t.value,
				Message: fmt.Sprintf("timeout must be greater than zero, got %s", t.value),
			})
		}
	}

	return errors
}

// validateTimezoneConfig validates the timezone configuration.
func validateTimezoneConfig(cfg *Config) ValidationErrors {
	var errors ValidationErrors

	if cfg.Report.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Report.Timezone); err != nil {
			errors = append(errors, &ValidationError{
				Field:   "report.timezone",
				Tag:     "timezone",
				Value:   cfg.Report.Timezone,
				Message: fmt.Sprintf("invalid timezone: %s", cfg.Report.Timezone),
			})
		}
	}

	return errors
}

// formatFieldName converts a validator namespace to a config key path.
func formatFieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:] // Remove "Config"
	}

	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}

	return strings.Join(parts, ".")
}

// translateError converts a validator.FieldError to a user-friendly message.
func translateError(fe validator.FieldError) string {
	field := formatFieldName(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return fmt.Sprintf("at least %s entry is required", fe.Param())
	case "url":
		return fmt.Sprintf("invalid URL format: %v", fe.Value())
	case "gte":
		return fmt.Sprintf("value must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("value must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("value must be one of: %s", fe.Param())
	case "timezone":
		return fmt.Sprintf("invalid timezone: %v", fe.Value())
	default:
		return fmt.Sprintf("validation failed on '%s' tag for field '%s'", fe.Tag(), field)
	}
}
