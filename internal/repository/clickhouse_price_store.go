package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockDeck/internal/domain/models"
	domrepo "StockDeck/internal/domain/repository"
	pkgch "StockDeck/pkg/clickhouse"
	applogger "StockDeck/pkg/logger"
)

// ClickHousePriceStore implements PriceStore backed by ClickHouse. It only
// ever reads; the external ETL and forecasting steps own the tables.
type ClickHousePriceStore struct {
	db            *sql.DB
	actualsTable  string
	forecastTable string
	metrics       domrepo.Metrics
	l             *applogger.Logger
}

func NewClickHousePriceStore(ch *pkgch.Client, actualsTable, forecastTable string) *ClickHousePriceStore {
	return &ClickHousePriceStore{
		db:            ch.DB(),
		actualsTable:  actualsTable,
		forecastTable: forecastTable,
	}
}

// SetLogger injects a structured logger.
func (s *ClickHousePriceStore) SetLogger(l *applogger.Logger) { s.l = l }

// SetMetrics injects a metrics recorder.
func (s *ClickHousePriceStore) SetMetrics(m domrepo.Metrics) { s.metrics = m }

func (s *ClickHousePriceStore) Actuals(ctx context.Context, symbol string, from, to models.Date) ([]models.PriceRow, error) {
	start := time.Now()

	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT symbol, date, open, high, low, close, volume FROM %s WHERE symbol = ?`, s.actualsTable)
	args := []interface{}{symbol}
	if !from.IsZero() {
		sb.WriteString(" AND date >= ?")
		args = append(args, from)
	}
	if !to.IsZero() {
		sb.WriteString(" AND date <= ?")
		args = append(args, to)
	}
	sb.WriteString(" ORDER BY date ASC")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, s.storeErr("actuals", symbol, err)
	}
	defer rows.Close()

	out := make([]models.PriceRow, 0, 256)
	for rows.Next() {
		var r models.PriceRow
		if err := rows.Scan(&r.Symbol, &r.Date, &r.Open, &r.High, &r.Low, &r.Close, &r.Volume); err != nil {
			return nil, s.storeErr("actuals_scan", symbol, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storeErr("actuals_rows", symbol, err)
	}

	s.observe("actuals", start)
	if s.l != nil {
		s.l.Debug("clickhouse actuals ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *ClickHousePriceStore) Forecast(ctx context.Context, symbol string) ([]models.ForecastRow, error) {
	start := time.Now()

	q := fmt.Sprintf(`SELECT symbol, date, predicted_close, lower_bound, upper_bound FROM %s WHERE symbol = ? ORDER BY date ASC`, s.forecastTable)
	rows, err := s.db.QueryContext(ctx, q, symbol)
	if err != nil {
		return nil, s.storeErr("forecast", symbol, err)
	}
	defer rows.Close()

	out := make([]models.ForecastRow, 0, 64)
	for rows.Next() {
		var r models.ForecastRow
		if err := rows.Scan(&r.Symbol, &r.Date, &r.PredictedClose, &r.LowerBound, &r.UpperBound); err != nil {
			return nil, s.storeErr("forecast_scan", symbol, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storeErr("forecast_rows", symbol, err)
	}

	s.observe("forecast", start)
	if s.l != nil {
		s.l.Debug("clickhouse forecast ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *ClickHousePriceStore) Symbols(ctx context.Context) ([]string, error) {
	start := time.Now()

	q := fmt.Sprintf(`SELECT DISTINCT symbol FROM %s ORDER BY symbol`, s.actualsTable)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, s.storeErr("symbols", "", err)
	}
	defer rows.Close()

	out := make([]string, 0, 32)
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, s.storeErr("symbols_scan", "", err)
		}
		out = append(out, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storeErr("symbols_rows", "", err)
	}

	s.observe("symbols", start)
	return out, nil
}

func (s *ClickHousePriceStore) HasSymbol(ctx context.Context, symbol string) (bool, error) {
	q := fmt.Sprintf(`SELECT count() FROM %s WHERE symbol = ?`, s.actualsTable)
	var n uint64
	if err := s.db.QueryRowContext(ctx, q, symbol).Scan(&n); err != nil {
		return false, s.storeErr("has_symbol", symbol, err)
	}
	return n > 0, nil
}

// Version builds a freshness token out of row counts and max dates of both
// tables. Any load by the external pipeline changes it, which rolls every
// memoization key forward.
func (s *ClickHousePriceStore) Version(ctx context.Context) (string, error) {
	q := fmt.Sprintf(`SELECT
        (SELECT count() FROM %[1]s),
        (SELECT max(date) FROM %[1]s),
        (SELECT count() FROM %[2]s),
        (SELECT max(date) FROM %[2]s)`,
		s.actualsTable, s.forecastTable)

	var (
		actCount, fcCount uint64
		actMax, fcMax     models.Date
	)
	if err := s.db.QueryRowContext(ctx, q).Scan(&actCount, &actMax, &fcCount, &fcMax); err != nil {
		return "", s.storeErr("version", "", err)
	}
	return fmt.Sprintf("%d.%s-%d.%s", actCount, actMax, fcCount, fcMax), nil
}

func (s *ClickHousePriceStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHousePriceStore) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordQueryLatency(op, time.Since(start).Seconds())
	}
}

// storeErr wraps a driver error into the interaction-level taxonomy so
// callers can match on ErrStoreUnavailable without knowing the driver.
func (s *ClickHousePriceStore) storeErr(op, symbol string, err error) error {
	if s.metrics != nil {
		s.metrics.RecordError("store_" + op)
	}
	if s.l != nil {
		s.l.Error("clickhouse "+op+" error",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}
	return fmt.Errorf("%w: %s: %v", models.ErrStoreUnavailable, op, err)
}
