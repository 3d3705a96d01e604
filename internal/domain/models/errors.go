package models

import "errors"

// Chart query failure taxonomy. All four are interaction-level: they are
// reported to the caller for direct display and never crash the process.
// The first three are deterministic given the input and are not retried;
// ErrStoreUnavailable wraps whatever the warehouse driver returned.
var (
	ErrUnknownSymbol    = errors.New("unknown symbol")
	ErrInvalidRange     = errors.New("invalid date range")
	ErrNoDataInRange    = errors.New("no data in range")
	ErrStoreUnavailable = errors.New("store unavailable")
)
