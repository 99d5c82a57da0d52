// Package inventory loads the server inventory a sweep runs against.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"server-sweep/internal/config"
	"server-sweep/internal/model"
)

// ErrUnavailable wraps every failure to obtain inventory rows.
var ErrUnavailable = errors.New("inventory source failed")

// Source returns the ordered inventory records of one environment.
type Source interface {
	Records(ctx context.Context) ([]model.InventoryRecord, error)
	Name() string
}

// New builds the Source configured for an environment.
func New(env *config.EnvironmentConfig, retry *config.RetryConfig, logger zerolog.Logger) (Source, error) {
	if env == nil {
		return nil, fmt.Errorf("environment config is nil")
	}

	switch strings.ToLower(env.Driver) {
	case config.DriverPostgres:
		return NewPostgresSource(env, logger), nil
	case config.DriverHTTP:
		return NewHTTPSource(env, retry, logger), nil
	case config.DriverFile:
		return NewFileSource(env.Path, logger), nil
	default:
		return nil, fmt.Errorf("unsupported inventory driver %q", env.Driver)
	}
}

// unavailable wraps err so callers can match ErrUnavailable.
func unavailable(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, fmt.Sprintf(format, args...))
}
