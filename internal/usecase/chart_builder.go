package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"StockDeck/internal/domain/models"
	domrepo "StockDeck/internal/domain/repository"
	applogger "StockDeck/pkg/logger"
)

// DatasetBuilder produces a chart dataset for a selection. Implemented by
// ChartBuilder and wrapped by MemoBuilder.
type DatasetBuilder interface {
	BuildChartDataset(ctx context.Context, sel models.Selection) (*models.ChartDataset, error)
}

// ChartBuilder is the query-and-render coordinator: given a selection it
// fetches actuals and forecast rows, aligns them on date, and derives the
// three chart views. One synchronous round of queries per invocation, no
// shared mutable state; the warehouse is the single source of truth.
type ChartBuilder struct {
	store   domrepo.PriceStore
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewChartBuilder(store domrepo.PriceStore, metrics domrepo.Metrics) *ChartBuilder {
	return &ChartBuilder{store: store, metrics: metrics}
}

// SetLogger injects a structured logger.
func (b *ChartBuilder) SetLogger(l *applogger.Logger) { b.l = l }

// BuildChartDataset implements the coordinator contract:
//
//   - start > end fails with ErrInvalidRange (a zero start or end leaves
//     that side open, so only a fully specified inverted range fails)
//   - a symbol absent from the actuals table fails with ErrUnknownSymbol
//   - zero actual rows in the range fail with ErrNoDataInRange so the
//     caller shows a message instead of a silently blank chart
//   - missing forecast rows are NOT an error: the dataset is returned in
//     degraded mode with ForecastAvailable false
//
// All failures are deterministic given the input except store errors,
// which surface as ErrStoreUnavailable without retry.
func (b *ChartBuilder) BuildChartDataset(ctx context.Context, sel models.Selection) (*models.ChartDataset, error) {
	start := time.Now()

	if !sel.Start.IsZero() && !sel.End.IsZero() && sel.Start.After(sel.End.Time) {
		b.outcome("invalid_range")
		return nil, fmt.Errorf("%w: start %s is after end %s", models.ErrInvalidRange, sel.Start, sel.End)
	}

	ok, err := b.store.HasSymbol(ctx, sel.Symbol)
	if err != nil {
		b.outcome("store_unavailable")
		return nil, err
	}
	if !ok {
		b.outcome("unknown_symbol")
		return nil, fmt.Errorf("%w: %q has no rows in the actuals table", models.ErrUnknownSymbol, sel.Symbol)
	}

	actualRows, err := b.store.Actuals(ctx, sel.Symbol, sel.Start, sel.End)
	if err != nil {
		b.outcome("store_unavailable")
		return nil, err
	}
	if len(actualRows) == 0 {
		b.outcome("no_data")
		return nil, fmt.Errorf("%w: no actuals for %q between %s and %s",
			models.ErrNoDataInRange, sel.Symbol, sel.Start, sel.End)
	}

	// Forecasts are fetched unfiltered and intersected with the selection
	// here; only the lower bound applies, since forecast dates are strictly
	// future relative to the actuals and the overlay still plots them on
	// their own time segment when the selection ends earlier.
	forecastRows, err := b.store.Forecast(ctx, sel.Symbol)
	if err != nil {
		b.outcome("store_unavailable")
		return nil, err
	}

	actuals := actualSeries(actualRows)
	forecast := forecastSeries(forecastRows, sel.Start)

	ds := &models.ChartDataset{
		Symbol:            sel.Symbol,
		Start:             sel.Start,
		End:               sel.End,
		ForecastAvailable: len(forecast) > 0,
		Actuals:           actuals,
		Forecast:          forecast,
		Overlay: models.Overlay{
			Actuals:  actuals,
			Forecast: forecast,
		},
	}
	if len(actuals) > 0 && len(forecast) > 0 {
		boundary := forecast[0].Date
		ds.Overlay.Boundary = &boundary
	}

	if ds.ForecastAvailable {
		b.outcome("ok")
	} else {
		b.outcome("degraded")
		if b.metrics != nil {
			b.metrics.RecordDegraded(sel.Symbol)
		}
		if b.l != nil {
			b.l.Warn("no forecast rows, serving actuals only",
				applogger.String("symbol", sel.Symbol))
		}
	}

	if b.l != nil {
		b.l.Info("chart dataset built",
			applogger.String("symbol", sel.Symbol),
			applogger.String("start", sel.Start.String()),
			applogger.String("end", sel.End.String()),
			applogger.Int("actuals", len(actuals)),
			applogger.Int("forecast", len(forecast)),
			applogger.Bool("forecast_available", ds.ForecastAvailable),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return ds, nil
}

// actualSeries maps price rows to chart points, keeping ascending date
// order and collapsing duplicate dates (last row wins). The warehouse
// guarantees (symbol, date) uniqueness; the collapse keeps the output
// deterministic if that invariant is ever broken upstream.
func actualSeries(rows []models.PriceRow) []models.ChartPoint {
	out := make([]models.ChartPoint, 0, len(rows))
	for _, r := range rows {
		p := models.ChartPoint{Date: r.Date, Close: r.Close}
		if n := len(out); n > 0 && !out[n-1].Date.Before(p.Date.Time) {
			if out[n-1].Date.Equal(p.Date.Time) {
				out[n-1] = p
				continue
			}
			// Out-of-order row from the store; keep sorted by insertion.
			idx := n
			for idx > 0 && out[idx-1].Date.After(p.Date.Time) {
				idx--
			}
			if idx > 0 && out[idx-1].Date.Equal(p.Date.Time) {
				out[idx-1] = p
				continue
			}
			out = append(out, models.ChartPoint{})
			copy(out[idx+1:], out[idx:])
			out[idx] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// forecastSeries maps forecast rows to band points, dropping rows before
// the selection start and rows with an unusable prediction. Bounds are
// opaque inputs from the forecasting step and pass through untouched.
func forecastSeries(rows []models.ForecastRow, from models.Date) []models.BandPoint {
	out := make([]models.BandPoint, 0, len(rows))
	for _, r := range rows {
		if !from.IsZero() && r.Date.Before(from.Time) {
			continue
		}
		if math.IsNaN(r.PredictedClose) {
			continue
		}
		out = append(out, models.BandPoint{
			Date:      r.Date,
			Predicted: r.PredictedClose,
			Lower:     r.LowerBound,
			Upper:     r.UpperBound,
		})
	}
	return out
}

func (b *ChartBuilder) outcome(o string) {
	if b.metrics != nil {
		b.metrics.RecordChartRequest(o)
	}
}
