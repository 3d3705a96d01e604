package usecase

import (
	"context"

	applogger "StockDeck/pkg/logger"
)

// Invalidator drops memoized state. Satisfied by MemoBuilder.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// RefreshListener reacts to "tables refreshed" events published by the
// external ETL/forecasting pipeline after a load completes. The payload
// is ignored; any message on the topic means the warehouse moved and
// memoized datasets must go.
type RefreshListener struct {
	topic string
	inv   Invalidator
	l     *applogger.Logger
}

func NewRefreshListener(topic string, inv Invalidator) *RefreshListener {
	return &RefreshListener{topic: topic, inv: inv}
}

// SetLogger injects a structured logger.
func (h *RefreshListener) SetLogger(l *applogger.Logger) { h.l = l }

func (h *RefreshListener) Topic() string { return h.topic }

func (h *RefreshListener) Handle(ctx context.Context, _ []byte) error {
	if h.l != nil {
		h.l.Info("pipeline refresh event received", applogger.String("topic", h.topic))
	}
	return h.inv.Invalidate(ctx)
}
