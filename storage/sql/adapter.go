package sql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vesfx/tasas/numeric"
	"github.com/vesfx/tasas/storage/types"
)

const (
	insertOfficialRate = `
		INSERT INTO tasas_cambio (nombre, valor, fecha_actualizacion)
		VALUES ($1, $2, $3)
		RETURNING id`

	insertMarketAverage = `
		INSERT INTO exchanges_promedios (nombre, promedio, fecha_actualizacion, fuente)
		VALUES ($1, $2, $3, $4)`

	latestOfficialRates = `
		SELECT DISTINCT ON (nombre)
			nombre, valor, fecha_actualizacion, fuente
		FROM tasas_cambio
		WHERE fecha_actualizacion::date = $1
		ORDER BY nombre, fecha_actualizacion DESC`

	latestMarketAverages = `
		SELECT DISTINCT ON (nombre)
			nombre, promedio, fecha_actualizacion, fuente
		FROM exchanges_promedios
		WHERE fecha_actualizacion::date = $1
		ORDER BY nombre, fecha_actualizacion DESC`
)

// Storage is the Postgres-backed rate store.
// The pool is constructed at process start and closed at shutdown;
// each operation holds a single pooled connection for its duration
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage creates a new Postgres storage adapter over the given pool
func NewStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{
		pool: pool,
	}
}

// NewPool creates and pings a new pgx connection pool
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DB config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create DB pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("unable to reach DB (ping): %w", err)
	}

	return pool, nil
}

func (s *Storage) SaveOfficialRates(
	ctx context.Context,
	raw map[string]string,
	observedAt time.Time,
) ([]int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to begin transaction: %w", err)
	}

	// Rollback is a no-op after a successful commit
	defer tx.Rollback(ctx) //nolint:errcheck // Fine to ignore

	// Process entries in name order for deterministic batches
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}

	sort.Strings(names)

	ids := make([]int64, 0, len(names))

	for _, name := range names {
		// A single unparseable value aborts the whole batch
		value, err := numeric.Normalize(raw[name])
		if err != nil {
			return nil, fmt.Errorf("unable to normalize rate for %s: %w", name, err)
		}

		var id int64

		err = tx.QueryRow(
			ctx,
			insertOfficialRate,
			name,
			decimalToNumeric(value),
			timeToTimestamptz(observedAt),
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("unable to insert rate for %s: %w", name, err)
		}

		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("unable to commit transaction: %w", err)
	}

	return ids, nil
}

func (s *Storage) SaveMarketAverage(
	ctx context.Context,
	avg decimal.Decimal,
	observedAt time.Time,
) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // Fine to ignore

	_, err = tx.Exec(
		ctx,
		insertMarketAverage,
		types.MarketAverageName,
		decimalToNumeric(avg),
		timeToTimestamptz(observedAt),
		types.SourceBinance.String(),
	)
	if err != nil {
		return fmt.Errorf("unable to insert market average: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("unable to commit transaction: %w", err)
	}

	return nil
}

func (s *Storage) LatestOfficialRates(
	ctx context.Context,
	day time.Time,
) ([]*types.RateReading, error) {
	return s.queryLatest(ctx, latestOfficialRates, day)
}

func (s *Storage) LatestMarketAverages(
	ctx context.Context,
	day time.Time,
) ([]*types.RateReading, error) {
	return s.queryLatest(ctx, latestMarketAverages, day)
}

// queryLatest runs a latest-row-per-name query scoped to a calendar day
func (s *Storage) queryLatest(
	ctx context.Context,
	query string,
	day time.Time,
) ([]*types.RateReading, error) {
	rows, err := s.pool.Query(ctx, query, timeToDate(day))
	if err != nil {
		return nil, fmt.Errorf("unable to fetch readings: %w", err)
	}
	defer rows.Close()

	var readings []*types.RateReading

	for rows.Next() {
		var (
			reading    types.RateReading
			value      pgtype.Numeric
			observedAt pgtype.Timestamptz
			source     string
		)

		if err := rows.Scan(&reading.Name, &value, &observedAt, &source); err != nil {
			return nil, fmt.Errorf("unable to scan reading: %w", err)
		}

		reading.Value = numericToDecimal(value)
		reading.ObservedAt = timestamptzToTime(observedAt)
		reading.Source = types.Source(source)

		readings = append(readings, &reading)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to read rows: %w", err)
	}

	return readings, nil
}

// decimalToNumeric converts a decimal value to postgres numeric
func decimalToNumeric(value decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   value.Coefficient(),
		Exp:   value.Exponent(),
		Valid: true,
	}
}

// numericToDecimal converts the postgres value to a decimal
func numericToDecimal(value pgtype.Numeric) decimal.Decimal {
	if !value.Valid || value.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(value.Int, value.Exp)
}

// timeToTimestamptz converts the time value to postgres timestamp
func timeToTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:  t.UTC(),
		Valid: true,
	}
}

// timestamptzToTime converts the postgres timestamp value to time
func timestamptzToTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}

	return ts.Time
}

// timeToDate converts the time value to a postgres calendar date
func timeToDate(t time.Time) pgtype.Date {
	return pgtype.Date{
		Time:  t,
		Valid: true,
	}
}
