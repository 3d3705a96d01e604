package models

// PriceRow is one observed trading day from the actuals table.
// (Symbol, Date) is unique per source table.
type PriceRow struct {
	Symbol string  `json:"symbol"`
	Date   Date    `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// ForecastRow is one model-predicted trading day with confidence bounds.
// Bounds are produced by the external forecasting step and treated as
// opaque here; LowerBound <= PredictedClose <= UpperBound is the source
// table's invariant, not something this service recomputes.
type ForecastRow struct {
	Symbol         string  `json:"symbol"`
	Date           Date    `json:"date"`
	PredictedClose float64 `json:"predicted_close"`
	LowerBound     float64 `json:"lower_bound"`
	UpperBound     float64 `json:"upper_bound"`
}
