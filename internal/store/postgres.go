package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pulse/internal/catalog"
)

// SQLSTATE for undefined_table. A missing table means the layer has no real
// data yet, not that the store is broken.
const pgUndefinedTable = "42P01"

// PostgresStore reads layer data from a pgx connection pool.
// Table and column names come from the immutable catalog, never from request
// input, so interpolating them into queries is safe.
type PostgresStore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
	logger       *slog.Logger
}

// NewPostgresStore wraps an existing pool. queryTimeout bounds every query so
// a slow store degrades into the synthetic path instead of hanging requests.
func NewPostgresStore(pool *pgxpool.Pool, queryTimeout time.Duration, logger *slog.Logger) *PostgresStore {
	if queryTimeout <= 0 {
		queryTimeout = 3 * time.Second
	}
	return &PostgresStore{
		pool:         pool,
		queryTimeout: queryTimeout,
		logger:       logger.With(slog.String("component", "postgres_store")),
	}
}

// Connect opens a pool from a DSN and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Ping verifies store connectivity, for readiness checks.
func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.pool.Ping(ctx)
}

// LatestValues implements Store.
func (s *PostgresStore) LatestValues(ctx context.Context, layer catalog.LayerDefinition, zoneKeys []string) ([]Point, bool, error) {
	if !layer.HasBackingTable() || len(zoneKeys) == 0 {
		return nil, false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := fmt.Sprintf(
		`SELECT DISTINCT ON (zone) zone, %s FROM %s WHERE zone = ANY($1) AND %s IS NOT NULL ORDER BY zone, %s DESC`,
		layer.Column, layer.Table, layer.Column, layer.DateColumn,
	)

	rows, err := s.pool.Query(ctx, query, zoneKeys)
	if err != nil {
		return s.classify(ctx, layer, err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.Zone, &p.Value); err != nil {
			return nil, false, fmt.Errorf("scan %s row: %w", layer.Table, err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return s.classify(ctx, layer, err)
	}

	if len(points) == 0 {
		return nil, false, nil
	}
	return points, true, nil
}

// History implements Store. The date column is read as text so the same query
// shape covers date-keyed tables and year-keyed survey tables.
func (s *PostgresStore) History(ctx context.Context, layer catalog.LayerDefinition, zoneKey string) ([]HistoryPoint, bool, error) {
	if !layer.HasBackingTable() {
		return nil, false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := fmt.Sprintf(
		`SELECT %s::text, %s FROM %s WHERE zone = $1 AND %s IS NOT NULL ORDER BY %s ASC`,
		layer.DateColumn, layer.Column, layer.Table, layer.Column, layer.DateColumn,
	)

	rows, err := s.pool.Query(ctx, query, zoneKey)
	if err != nil {
		points, ok, cerr := s.classifyHistory(ctx, layer, err)
		return points, ok, cerr
	}
	defer rows.Close()

	var points []HistoryPoint
	for rows.Next() {
		var raw string
		var value float64
		if err := rows.Scan(&raw, &value); err != nil {
			return nil, false, fmt.Errorf("scan %s row: %w", layer.Table, err)
		}
		date, err := parsePeriod(raw)
		if err != nil {
			return nil, false, fmt.Errorf("parse period %q: %w", raw, err)
		}
		points = append(points, HistoryPoint{Date: date, Value: value})
	}
	if err := rows.Err(); err != nil {
		_, ok, cerr := s.classifyHistory(ctx, layer, err)
		return nil, ok, cerr
	}

	if len(points) == 0 {
		return nil, false, nil
	}
	return points, true, nil
}

// classify folds a query error into the (ok, err) contract: a missing table
// is a normal fallback condition, anything else is a genuine fault.
func (s *PostgresStore) classify(ctx context.Context, layer catalog.LayerDefinition, err error) ([]Point, bool, error) {
	if isUndefinedTable(err) {
		s.logger.DebugContext(ctx, "backing table absent, deferring to synthesis",
			slog.String("layer", layer.ID),
			slog.String("table", layer.Table),
		)
		return nil, false, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	return nil, false, fmt.Errorf("query %s: %w", layer.Table, err)
}

func (s *PostgresStore) classifyHistory(ctx context.Context, layer catalog.LayerDefinition, err error) ([]HistoryPoint, bool, error) {
	_, ok, cerr := s.classify(ctx, layer, err)
	return nil, ok, cerr
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}

// parsePeriod accepts a date, a year-month, or a bare year.
func parsePeriod(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	if year, err := strconv.Atoi(raw); err == nil && year > 1900 && year < 2200 {
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized period format")
}
