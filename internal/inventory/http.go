package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"server-sweep/internal/config"
	"server-sweep/internal/model"
)

// HTTPSource fetches inventory rows from a CMDB-style REST endpoint.
// The endpoint returns either a JSON array of records or {"servers": [...]}.
type HTTPSource struct {
	endpoint   string             // Inventory endpoint URL
	timeout    time.Duration      // Request timeout
	retry      config.RetryConfig // Retry configuration
	httpClient *resty.Client      // HTTP client
	logger     zerolog.Logger     // Logger
}

// serversEnvelope is the wrapped response form.
type serversEnvelope struct {
	Servers []model.InventoryRecord `json:"servers"`
}

// NewHTTPSource creates a new HTTP inventory source.
func NewHTTPSource(env *config.EnvironmentConfig, retryCfg *config.RetryConfig, logger zerolog.Logger) *HTTPSource {
	timeout := env.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	retry := config.RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
	if retryCfg != nil {
		retry = *retryCfg
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(retry.MaxRetries).
		SetRetryWaitTime(retry.BaseDelay).
		SetRetryMaxWaitTime(retry.BaseDelay * 8). // Max wait time for exponential backoff
		AddRetryCondition(retryCondition)

	if env.Token != "" {
		httpClient.SetAuthToken(env.Token)
	}

	return &HTTPSource{
		endpoint:   env.Endpoint,
		timeout:    timeout,
		retry:      retry,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "http-inventory").Logger(),
	}
}

// retryCondition determines whether a request should be retried.
// Only retry on timeout, 5xx errors, or connection failures.
func retryCondition(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp != nil && resp.StatusCode() >= 500 {
		return true
	}
	return false
}

// Name returns the source identifier.
func (s *HTTPSource) Name() string {
	return "http"
}

// Records fetches and decodes the inventory.
func (s *HTTPSource) Records(ctx context.Context) ([]model.InventoryRecord, error) {
	s.logger.Debug().Str("endpoint", s.endpoint).Msg("fetching inventory")

	resp, err := s.httpClient.R().
		SetContext(ctx).
		Get(s.endpoint)

	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch inventory")
		return nil, unavailable("fetch %s: %v", s.endpoint, err)
	}

	if resp.StatusCode() != http.StatusOK {
		s.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("body", string(resp.Body())).
			Msg("inventory endpoint returned non-200 status")
		return nil, unavailable("inventory endpoint returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	records, err := decodeRecords(resp.Body())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to decode inventory")
		return nil, unavailable("decode: %v", err)
	}

	s.logger.Info().Int("count", len(records)).Msg("fetched inventory successfully")
	return records, nil
}

// decodeRecords accepts a bare array or the {"servers": [...]} envelope.
func decodeRecords(body []byte) ([]model.InventoryRecord, error) {
	var records []model.InventoryRecord
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var envelope serversEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("response is neither a record array nor a servers envelope: %w", err)
	}
	if envelope.Servers == nil {
		return nil, fmt.Errorf("response has no servers field")
	}
	return envelope.Servers, nil
}
