package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server-sweep/internal/config"
	"server-sweep/internal/inventory"
	"server-sweep/internal/model"
)

const defaultTimezone = "UTC"

// ErrInventoryUnavailable is returned by Runner.Run when no inventory could be obtained.
// It is fatal to the sweep; no partial result is produced.
var ErrInventoryUnavailable = errors.New("inventory unavailable")

// Runner orchestrates one sweep: fetch the inventory, probe it and stamp
// run metadata onto the result.
type Runner struct {
	sweeper     *Sweeper
	timezone    *time.Location
	version     string
	environment string
	logger      zerolog.Logger
}

// RunnerOption is a functional option for configuring a Runner.
type RunnerOption func(*Runner)

// NewRunner creates a new Runner with the given dependencies.
func NewRunner(cfg *config.Config, sweeper *Sweeper, logger zerolog.Logger, opts ...RunnerOption) (*Runner, error) {
	if sweeper == nil {
		return nil, fmt.Errorf("sweeper is required")
	}

	// Determine timezone from config or use default
	tzName := defaultTimezone
	if cfg != nil && cfg.Report.Timezone != "" {
		tzName = cfg.Report.Timezone
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", tzName, err)
	}

	r := &Runner{
		sweeper:  sweeper,
		timezone: loc,
		version:  "dev",
		logger:   logger.With().Str("component", "runner").Logger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// WithVersion sets the tool version to include in the sweep result.
func WithVersion(version string) RunnerOption {
	return func(r *Runner) {
		r.version = version
	}
}

// WithEnvironment sets the environment name recorded in the sweep result.
func WithEnvironment(name string) RunnerOption {
	return func(r *Runner) {
		r.environment = name
	}
}

// Run executes the complete sweep workflow:
// 1. Fetches the inventory from src
// 2. Classifies and probes every record
// 3. Stamps run id, environment, version and timezone onto the result
func (r *Runner) Run(ctx context.Context, src inventory.Source) (*model.SweepResult, error) {
	runID := uuid.New().String()
	log := r.logger.With().Str("run_id", runID).Str("environment", r.environment).Logger()

	log.Info().
		Str("source", src.Name()).
		Str("timezone", r.timezone.String()).
		Msg("starting sweep run")

	// Step 1: Fetch inventory
	records, err := src.Records(ctx)
	if err != nil {
		log.Error().Err(err).Msg("inventory fetch failed")
		return nil, fmt.Errorf("%w: %w", ErrInventoryUnavailable, err)
	}
	if len(records) == 0 {
		log.Warn().Msg("inventory is empty, completing sweep with empty result")
	}

	// Step 2: Probe
	result, err := r.sweeper.Sweep(ctx, records)
	if err != nil {
		return nil, err
	}

	// Step 3: Stamp metadata
	result.RunID = runID
	result.Environment = r.environment
	result.Version = r.version
	result.StartedAt = result.StartedAt.In(r.timezone)

	log.Info().
		Int("records", len(records)).
		Int("probed", result.TotalProbed()).
		Int("failed", result.TotalFailed()).
		Dur("duration", result.Duration).
		Msg("sweep run completed")

	return result, nil
}

// GetTimezone returns the configured timezone.
func (r *Runner) GetTimezone() *time.Location {
	return r.timezone
}

// GetVersion returns the configured version.
func (r *Runner) GetVersion() string {
	return r.version
}
