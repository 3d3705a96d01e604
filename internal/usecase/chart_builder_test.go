package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"StockDeck/internal/domain/models"
)

// fakeStore serves canned rows, filtering the way the warehouse would.
type fakeStore struct {
	actuals  map[string][]models.PriceRow
	forecast map[string][]models.ForecastRow
	version  string
	err      error

	actualsCalls  int
	forecastCalls int
	versionCalls  int
}

func (f *fakeStore) Actuals(_ context.Context, symbol string, from, to models.Date) ([]models.PriceRow, error) {
	f.actualsCalls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.PriceRow
	for _, r := range f.actuals[symbol] {
		if !from.IsZero() && r.Date.Before(from.Time) {
			continue
		}
		if !to.IsZero() && r.Date.After(to.Time) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) Forecast(_ context.Context, symbol string) ([]models.ForecastRow, error) {
	f.forecastCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.forecast[symbol], nil
}

func (f *fakeStore) Symbols(_ context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, 0, len(f.actuals))
	for s := range f.actuals {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) HasSymbol(_ context.Context, symbol string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.actuals[symbol]
	return ok, nil
}

func (f *fakeStore) Version(_ context.Context) (string, error) {
	f.versionCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.version, nil
}

func (f *fakeStore) Health(_ context.Context) error { return f.err }

func day(y int, m time.Month, d int) models.Date { return models.NewDate(y, m, d) }

func priceRow(symbol string, d models.Date, close float64) models.PriceRow {
	return models.PriceRow{Symbol: symbol, Date: d, Open: close, High: close, Low: close, Close: close, Volume: 1000}
}

func newTestStore() *fakeStore {
	return &fakeStore{
		version: "v1",
		actuals: map[string][]models.PriceRow{
			"AAPL": {
				priceRow("AAPL", day(2016, 1, 4), 105.35),
				priceRow("AAPL", day(2016, 6, 1), 98.46),
				priceRow("AAPL", day(2016, 12, 30), 115.82),
			},
			"MSFT": {
				priceRow("MSFT", day(2015, 1, 2), 46.76),
				priceRow("MSFT", day(2015, 12, 31), 55.48),
			},
		},
		forecast: map[string][]models.ForecastRow{
			"AAPL": {
				{Symbol: "AAPL", Date: day(2017, 1, 1), PredictedClose: 117.1, LowerBound: 110.2, UpperBound: 124.3},
				{Symbol: "AAPL", Date: day(2017, 1, 2), PredictedClose: 117.6, LowerBound: 110.5, UpperBound: 124.9},
			},
		},
	}
}

func TestBuildChartDatasetOverlayBoundary(t *testing.T) {
	store := newTestStore()
	b := NewChartBuilder(store, nil)

	sel := models.Selection{Symbol: "AAPL", Start: day(2016, 1, 1), End: day(2016, 12, 31)}
	ds, err := b.BuildChartDataset(context.Background(), sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ds.ForecastAvailable {
		t.Fatalf("expected forecast to be available")
	}
	if len(ds.Actuals) != 3 {
		t.Fatalf("expected 3 actual points, got %d", len(ds.Actuals))
	}
	if last := ds.Actuals[len(ds.Actuals)-1].Date; last.String() != "2016-12-30" {
		t.Fatalf("actuals should end within the selection, got %s", last)
	}
	// Forecast rows are future-dated past the selection end and must still
	// appear on their own time segment.
	if len(ds.Forecast) != 2 {
		t.Fatalf("expected 2 forecast points, got %d", len(ds.Forecast))
	}
	if ds.Forecast[0].Date.String() != "2017-01-01" {
		t.Fatalf("forecast should start 2017-01-01, got %s", ds.Forecast[0].Date)
	}
	if ds.Overlay.Boundary == nil || ds.Overlay.Boundary.String() != "2017-01-01" {
		t.Fatalf("overlay boundary should mark the first forecast date, got %v", ds.Overlay.Boundary)
	}
}

func TestBuildChartDatasetSortedNoDuplicates(t *testing.T) {
	store := newTestStore()
	// Break the warehouse uniqueness invariant on purpose.
	store.actuals["AAPL"] = append(store.actuals["AAPL"],
		priceRow("AAPL", day(2016, 6, 1), 99.01))
	b := NewChartBuilder(store, nil)

	ds, err := b.BuildChartDataset(context.Background(),
		models.Selection{Symbol: "AAPL", Start: day(2016, 1, 1), End: day(2016, 12, 31)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(ds.Actuals); i++ {
		if !ds.Actuals[i-1].Date.Before(ds.Actuals[i].Date.Time) {
			t.Fatalf("actuals not strictly ascending at %d: %s >= %s",
				i, ds.Actuals[i-1].Date, ds.Actuals[i].Date)
		}
	}
	if len(ds.Actuals) != 3 {
		t.Fatalf("duplicate date should collapse, got %d points", len(ds.Actuals))
	}
}

func TestBuildChartDatasetForecastBounds(t *testing.T) {
	store := newTestStore()
	b := NewChartBuilder(store, nil)

	ds, err := b.BuildChartDataset(context.Background(),
		models.Selection{Symbol: "AAPL", Start: day(2016, 1, 1), End: day(2016, 12, 31)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src := store.forecast["AAPL"]
	if len(ds.Forecast) != len(src) {
		t.Fatalf("expected %d forecast points, got %d", len(src), len(ds.Forecast))
	}
	for i, p := range ds.Forecast {
		r := src[i]
		if !p.Date.Equal(r.Date.Time) || p.Predicted != r.PredictedClose ||
			p.Lower != r.LowerBound || p.Upper != r.UpperBound {
			t.Fatalf("point %d does not match source row: %+v vs %+v", i, p, r)
		}
		if !(p.Lower <= p.Predicted && p.Predicted <= p.Upper) {
			t.Fatalf("point %d violates band ordering: lower=%v predicted=%v upper=%v",
				i, p.Lower, p.Predicted, p.Upper)
		}
	}
	if !reflect.DeepEqual(ds.Overlay.Forecast, ds.Forecast) {
		t.Fatalf("overlay forecast segment must be the same series")
	}
}

func TestBuildChartDatasetDegradedMode(t *testing.T) {
	store := newTestStore()
	b := NewChartBuilder(store, nil)

	ds, err := b.BuildChartDataset(context.Background(),
		models.Selection{Symbol: "MSFT", Start: day(2015, 1, 1), End: day(2015, 12, 31)})
	if err != nil {
		t.Fatalf("degraded mode must not be an error, got: %v", err)
	}
	if ds.ForecastAvailable {
		t.Fatalf("expected forecast_available=false")
	}
	if len(ds.Forecast) != 0 || len(ds.Overlay.Forecast) != 0 {
		t.Fatalf("forecast views should be empty")
	}
	if ds.Overlay.Boundary != nil {
		t.Fatalf("no boundary without forecast")
	}
	if len(ds.Actuals) != 2 {
		t.Fatalf("actuals panel must be unaffected, got %d points", len(ds.Actuals))
	}
}

func TestBuildChartDatasetUnknownSymbol(t *testing.T) {
	b := NewChartBuilder(newTestStore(), nil)

	_, err := b.BuildChartDataset(context.Background(),
		models.Selection{Symbol: "ZZZZ", Start: day(2016, 1, 1), End: day(2016, 12, 31)})
	if !errors.Is(err, models.ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestBuildChartDatasetInvalidRange(t *testing.T) {
	store := newTestStore()
	b := NewChartBuilder(store, nil)

	_, err := b.BuildChartDataset(context.Background(),
		models.Selection{Symbol: "AAPL", Start: day(2016, 12, 31), End: day(2016, 1, 1)})
	if !errors.Is(err, models.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if store.actualsCalls != 0 {
		t.Fatalf("invalid range must fail before querying")
	}
}

func TestBuildChartDatasetNoDataInRange(t *testing.T) {
	b := NewChartBuilder(newTestStore(), nil)

	_, err := b.BuildChartDataset(context.Background(),
		models.Selection{Symbol: "AAPL", Start: day(2001, 1, 1), End: day(2001, 12, 31)})
	if !errors.Is(err, models.ErrNoDataInRange) {
		t.Fatalf("expected ErrNoDataInRange, got %v", err)
	}
}

func TestBuildChartDatasetStoreUnavailable(t *testing.T) {
	store := newTestStore()
	store.err = models.ErrStoreUnavailable
	b := NewChartBuilder(store, nil)

	_, err := b.BuildChartDataset(context.Background(),
		models.Selection{Symbol: "AAPL", Start: day(2016, 1, 1), End: day(2016, 12, 31)})
	if !errors.Is(err, models.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestBuildChartDatasetIdempotent(t *testing.T) {
	b := NewChartBuilder(newTestStore(), nil)
	sel := models.Selection{Symbol: "AAPL", Start: day(2016, 1, 1), End: day(2016, 12, 31)}

	first, err := b.BuildChartDataset(context.Background(), sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := b.BuildChartDataset(context.Background(), sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same selection against unchanged store must yield identical datasets")
	}
	b1, _ := json.Marshal(first)
	b2, _ := json.Marshal(second)
	if string(b1) != string(b2) {
		t.Fatalf("serialized datasets differ:\n%s\n%s", b1, b2)
	}
}

func TestBuildChartDatasetOpenRange(t *testing.T) {
	b := NewChartBuilder(newTestStore(), nil)

	ds, err := b.BuildChartDataset(context.Background(), models.Selection{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Actuals) != 3 {
		t.Fatalf("open range should return every actual row, got %d", len(ds.Actuals))
	}
	if len(ds.Forecast) != 2 {
		t.Fatalf("open range should keep all forecast rows, got %d", len(ds.Forecast))
	}
}
