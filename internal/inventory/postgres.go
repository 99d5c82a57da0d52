package inventory

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"server-sweep/internal/config"
	"server-sweep/internal/model"
)

const (
	// One query per sweep; a small pool is plenty.
	defaultMaxConns = 2
)

// PostgresSource reads inventory rows from a PostgreSQL database.
// The configured query must return six text columns in the order
// hostname, type, cname, ip, description, active.
type PostgresSource struct {
	dsn     string
	query   string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewPostgresSource creates a PostgresSource. No connection is opened until Records is called.
func NewPostgresSource(env *config.EnvironmentConfig, logger zerolog.Logger) *PostgresSource {
	query := env.Query
	if query == "" {
		query = config.DefaultQuery
	}
	timeout := env.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &PostgresSource{
		dsn:     BuildDSN(env),
		query:   query,
		timeout: timeout,
		logger:  logger.With().Str("component", "postgres-inventory").Logger(),
	}
}

// BuildDSN returns env.DSN when set, otherwise a postgres:// URL assembled from
// the discrete connection fields.
func BuildDSN(env *config.EnvironmentConfig) string {
	if env.DSN != "" {
		return env.DSN
	}

	port := env.Port
	if port == 0 {
		port = 5432
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(env.Host, strconv.Itoa(port)),
		Path:   "/" + env.Database,
	}
	if env.User != "" {
		if env.Password != "" {
			u.User = url.UserPassword(env.User, env.Password)
		} else {
			u.User = url.User(env.User)
		}
	}
	if env.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", env.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Name returns the source identifier.
func (s *PostgresSource) Name() string {
	return "postgres"
}

// Records connects, runs the inventory query and returns rows in query order.
func (s *PostgresSource) Records(ctx context.Context) ([]model.InventoryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pool, err := s.connect(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to connect to inventory database")
		return nil, unavailable("connect: %v", err)
	}
	defer pool.Close()

	s.logger.Debug().Str("query", s.query).Msg("querying inventory")

	rows, err := pool.Query(ctx, s.query)
	if err != nil {
		s.logger.Error().Err(err).Msg("inventory query failed")
		return nil, unavailable("query: %v", err)
	}

	records, err := scanRecords(rows)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read inventory rows")
		return nil, unavailable("scan: %v", err)
	}

	s.logger.Info().Int("count", len(records)).Msg("fetched inventory successfully")
	return records, nil
}

func (s *PostgresSource) connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(s.dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	cfg.MaxConns = defaultMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// scanRecords reads six nullable text columns per row. NULL becomes "".
func scanRecords(rows pgx.Rows) ([]model.InventoryRecord, error) {
	defer rows.Close()

	if n := len(rows.FieldDescriptions()); n != 6 {
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("inventory query must return 6 columns, got %d", n)
	}

	var records []model.InventoryRecord
	for rows.Next() {
		var hostname, serverType, cname, ip, description, active *string
		if err := rows.Scan(&hostname, &serverType, &cname, &ip, &description, &active); err != nil {
			return nil, err
		}
		records = append(records, model.InventoryRecord{
			Hostname:      deref(hostname),
			ServerType:    deref(serverType),
			CanonicalName: deref(cname),
			IPAddress:     deref(ip),
			Description:   deref(description),
			ActiveFlag:    deref(active),
		})
	}
	return records, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
