package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"server-sweep/internal/model"
	"server-sweep/internal/probe"
)

const defaultConcurrency = 10

// Sweeper probes every classified record of an inventory and accumulates
// per-category results.
type Sweeper struct {
	portProber  probe.Prober
	echoProber  probe.Prober
	concurrency int
	limiter     *rate.Limiter // nil means unlimited
	logger      zerolog.Logger
}

// SweeperOption is a functional option for configuring a Sweeper.
type SweeperOption func(*Sweeper)

// WithConcurrency sets the maximum number of probes in flight.
// Values below 1 are ignored. A concurrency of 1 gives the sequential baseline.
func WithConcurrency(n int) SweeperOption {
	return func(s *Sweeper) {
		if n >= 1 {
			s.concurrency = n
		}
	}
}

// WithRateLimit caps probe launches per second. Zero or negative disables the limit.
func WithRateLimit(perSecond float64) SweeperOption {
	return func(s *Sweeper) {
		if perSecond > 0 {
			burst := int(perSecond)
			if burst < 1 {
				burst = 1
			}
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// NewSweeper creates a Sweeper that uses portProber for active records and
// echoProber for inactive tpa/hsn/tms records.
func NewSweeper(portProber, echoProber probe.Prober, logger zerolog.Logger, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		portProber:  portProber,
		echoProber:  echoProber,
		concurrency: defaultConcurrency,
		logger:      logger.With().Str("component", "sweeper").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Concurrency returns the configured probe concurrency.
func (s *Sweeper) Concurrency() int {
	return s.concurrency
}

// proberFor returns the probe strategy for a category, or nil when the
// category is not probed.
func (s *Sweeper) proberFor(category model.ProbeCategory) probe.Prober {
	switch category {
	case model.CategoryActiveExpectedUp:
		return s.portProber
	case model.CategoryInactiveTPAHSN, model.CategoryInactiveTMS:
		return s.echoProber
	default:
		return nil
	}
}

// Sweep classifies and probes records, returning the accumulated result.
//
// Probes run concurrently up to the configured limit. Each outcome is stored
// in its record's inventory slot and merged by a single writer afterwards, so
// FailedRecords keeps encounter order regardless of completion order.
// Per-record failures never produce an error; Sweep only fails when ctx is
// cancelled before every record has been probed.
func (s *Sweeper) Sweep(ctx context.Context, records []model.InventoryRecord) (*model.SweepResult, error) {
	result := model.NewSweepResult(time.Now())

	s.logger.Debug().
		Int("records", len(records)).
		Int("concurrency", s.concurrency).
		Msg("starting sweep")

	outcomes := make([]*model.ProbeOutcome, len(records))
	skipped := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, record := range records {
		category := Classify(record)
		prober := s.proberFor(category)
		if prober == nil {
			skipped++
			s.logger.Debug().
				Str("hostname", record.Hostname).
				Str("type", record.ServerType).
				Str("active", record.ActiveFlag).
				Msg("record unclassified, not probed")
			continue
		}

		g.Go(func() error {
			if s.limiter != nil {
				if err := s.limiter.Wait(gctx); err != nil {
					return err
				}
			}
			if err := gctx.Err(); err != nil {
				return err
			}

			ok := prober.Probe(gctx, record.IPAddress)
			outcomes[i] = &model.ProbeOutcome{
				Record:    record,
				Category:  category,
				Succeeded: ok,
			}

			s.logger.Debug().
				Str("hostname", record.Hostname).
				Str("ip", record.IPAddress).
				Str("category", string(category)).
				Str("probe", prober.Name()).
				Bool("reachable", ok).
				Msg("probe finished")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sweep interrupted: %w", err)
	}

	for _, outcome := range outcomes {
		if outcome != nil {
			result.Record(*outcome)
		}
	}
	result.Finalize(time.Now())

	s.logger.Info().
		Int("records", len(records)).
		Int("probed", result.TotalProbed()).
		Int("failed", result.TotalFailed()).
		Int("unclassified", skipped).
		Dur("duration", result.Duration).
		Msg("sweep completed")

	return result, nil
}
