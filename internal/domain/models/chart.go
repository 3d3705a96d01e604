package models

// Selection is the user's current chart query: one symbol plus an optional
// date range. A zero Start or End means that side of the range is open;
// the dashboard sends the full available range by default. Selections are
// ephemeral and never persisted.
type Selection struct {
	Symbol string `json:"symbol"`
	Start  Date   `json:"start"`
	End    Date   `json:"end"`
}

// ChartPoint is one observed close on the actuals series.
type ChartPoint struct {
	Date  Date    `json:"date"`
	Close float64 `json:"close"`
}

// BandPoint is one predicted close with its confidence band.
type BandPoint struct {
	Date      Date    `json:"date"`
	Predicted float64 `json:"predicted"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
}

// Overlay juxtaposes the actual and forecast series on one shared date
// axis. When both series are present, Boundary marks the first forecast
// date, i.e. the transition from historical to predicted data; it is nil
// in degraded mode.
type Overlay struct {
	Actuals  []ChartPoint `json:"actuals"`
	Forecast []BandPoint  `json:"forecast"`
	Boundary *Date        `json:"boundary,omitempty"`
}

// ChartDataset holds the aligned series for one rendering pass. It is
// derived, read-only, and recomputed per selection: the same selection
// against an unchanged store yields an identical dataset. The three views
// are built from one set of query results, never re-queried per view.
//
// ForecastAvailable false is the documented degraded mode: the forecast
// table has no rows for the symbol, the forecast panel and overlay
// forecast segment are empty, and the actuals panel is unaffected.
type ChartDataset struct {
	Symbol            string       `json:"symbol"`
	Start             Date         `json:"start"`
	End               Date         `json:"end"`
	ForecastAvailable bool         `json:"forecast_available"`
	Actuals           []ChartPoint `json:"actuals"`
	Forecast          []BandPoint  `json:"forecast"`
	Overlay           Overlay      `json:"overlay"`
}
