package inventory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server-sweep/internal/config"
)

// setupTestServer creates a test server and HTTP source for testing.
func setupTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *HTTPSource) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	env := &config.EnvironmentConfig{
		Driver:   config.DriverHTTP,
		Endpoint: server.URL + "/api/servers",
		Token:    "test-token",
		Timeout:  5 * time.Second,
	}
	retryCfg := &config.RetryConfig{
		MaxRetries: 2,
		BaseDelay:  10 * time.Millisecond,
	}
	return server, NewHTTPSource(env, retryCfg, zerolog.Nop())
}

func TestNewHTTPSource_Defaults(t *testing.T) {
	src := NewHTTPSource(&config.EnvironmentConfig{Endpoint: "http://cmdb.local/servers"}, nil, zerolog.Nop())

	assert.Equal(t, 30*time.Second, src.timeout)
	assert.Equal(t, 3, src.retry.MaxRetries)
	assert.Equal(t, time.Second, src.retry.BaseDelay)
	assert.Equal(t, "http", src.Name())
}

func TestHTTPSource_Records_Array(t *testing.T) {
	_, src := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/servers", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"hostname":"h1","type":"tpa","cname":"c1","ip":"10.0.0.1","description":"node 1","active":"n"},
			{"hostname":"h2","type":"tms","cname":"c2","ip":"10.0.0.2","description":"node 2","active":"Y"}
		]`))
	})

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "h1", records[0].Hostname)
	assert.Equal(t, "tpa", records[0].ServerType)
	assert.Equal(t, "n", records[0].ActiveFlag)
	assert.Equal(t, "h2", records[1].Hostname)
	assert.Equal(t, "10.0.0.2", records[1].IPAddress)
}

func TestHTTPSource_Records_Envelope(t *testing.T) {
	_, src := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"servers":[{"hostname":"h3","type":"hsn","ip":"10.0.0.3","active":"y"}]}`))
	})

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "h3", records[0].Hostname)
	assert.Empty(t, records[0].CanonicalName)
}

func TestHTTPSource_Records_EmptyArray(t *testing.T) {
	_, src := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHTTPSource_Records_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "not found", status: http.StatusNotFound, body: "missing", wantMsg: "status 404"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: "denied", wantMsg: "status 401"},
		{name: "invalid json", status: http.StatusOK, body: "not json", wantMsg: "decode"},
		{name: "object without servers", status: http.StatusOK, body: `{"items":[]}`, wantMsg: "no servers field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, src := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			records, err := src.Records(context.Background())
			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, errors.Is(err, ErrUnavailable))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestHTTPSource_RetriesOnServerError(t *testing.T) {
	var calls int32
	_, src := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"hostname":"h1","type":"tpa","ip":"10.0.0.1","active":"y"}]`))
	})

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPSource_NoRetryOnClientError(t *testing.T) {
	var calls int32
	_, src := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := src.Records(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPSource_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	src := NewHTTPSource(&config.EnvironmentConfig{Endpoint: endpoint, Timeout: time.Second},
		&config.RetryConfig{MaxRetries: 0, BaseDelay: time.Millisecond}, zerolog.Nop())

	_, err := src.Records(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRetryCondition(t *testing.T) {
	assert.True(t, retryCondition(nil, errors.New("connection reset")))
	assert.False(t, retryCondition(nil, nil))
}
