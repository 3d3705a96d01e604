package repository

import (
	"context"

	"StockDeck/internal/domain/models"
)

// PriceStore provides read-only access to the warehouse tables holding
// actual and forecast price rows. Implementations receive an already
// authenticated handle; credential management lives outside this service.
type PriceStore interface {
	// Actuals returns rows for symbol within [from, to] ordered by date
	// ascending. A zero from or to leaves that side of the range open.
	Actuals(ctx context.Context, symbol string, from, to models.Date) ([]models.PriceRow, error)

	// Forecast returns all forecast rows for symbol ordered by date
	// ascending. Forecasts are not range-filtered at query time; the
	// coordinator intersects them with the selection for display.
	Forecast(ctx context.Context, symbol string) ([]models.ForecastRow, error)

	// Symbols lists distinct symbols present in the actuals table, sorted.
	Symbols(ctx context.Context) ([]string, error)

	// HasSymbol reports whether the actuals table has any row for symbol.
	HasSymbol(ctx context.Context, symbol string) (bool, error)

	// Version returns a cheap freshness token covering both tables. It
	// changes whenever the external pipeline loads new rows and keys the
	// memoization layer.
	Version(ctx context.Context) (string, error)

	Health(ctx context.Context) error
}

// Metrics records service-level observations.
type Metrics interface {
	RecordChartRequest(outcome string)
	RecordQueryLatency(op string, seconds float64)
	RecordCacheLookup(hit bool)
	RecordDegraded(symbol string)
	RecordError(kind string)
}
