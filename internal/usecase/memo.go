package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"StockDeck/internal/domain/models"
	domrepo "StockDeck/internal/domain/repository"
	pkgcache "StockDeck/pkg/cache"
	applogger "StockDeck/pkg/logger"
)

const chartKeyPrefix = "chart:"

// MemoBuilder memoizes chart datasets. The key is explicit:
// (symbol, start, end, table-version), so a dataset can only be served
// from cache while the warehouse tables are unchanged; a hit and a miss
// yield identical datasets, which is the only invariant the cache must
// preserve. Invalidation happens two ways: the version token rolls
// forward when the store reports new data, and Invalidate drops
// everything eagerly when the pipeline announces a refresh.
type MemoBuilder struct {
	next    DatasetBuilder
	store   domrepo.PriceStore
	cache   pkgcache.Service
	metrics domrepo.Metrics
	l       *applogger.Logger

	ttl        time.Duration
	versionTTL time.Duration

	mu        sync.Mutex
	version   string
	versionAt time.Time
}

func NewMemoBuilder(next DatasetBuilder, store domrepo.PriceStore, cache pkgcache.Service, ttl, versionTTL time.Duration) *MemoBuilder {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if versionTTL <= 0 {
		versionTTL = 30 * time.Second
	}
	return &MemoBuilder{
		next:       next,
		store:      store,
		cache:      cache,
		ttl:        ttl,
		versionTTL: versionTTL,
	}
}

// SetLogger injects a structured logger.
func (m *MemoBuilder) SetLogger(l *applogger.Logger) { m.l = l }

// SetMetrics injects a metrics recorder.
func (m *MemoBuilder) SetMetrics(mt domrepo.Metrics) { m.metrics = mt }

func (m *MemoBuilder) BuildChartDataset(ctx context.Context, sel models.Selection) (*models.ChartDataset, error) {
	version, err := m.tableVersion(ctx)
	if err != nil {
		// The store is unreachable; let the builder surface the failure
		// through the normal taxonomy instead of masking it here.
		return m.next.BuildChartDataset(ctx, sel)
	}

	key := fmt.Sprintf("%s%s:%s:%s:%s", chartKeyPrefix, sel.Symbol, sel.Start, sel.End, version)

	var cached models.ChartDataset
	err = m.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		m.lookup(true)
		return &cached, nil
	case errors.Is(err, pkgcache.ErrCacheMiss):
		m.lookup(false)
	default:
		m.lookup(false)
		if m.l != nil {
			m.l.Warn("chart cache get error", applogger.Error(err))
		}
	}

	ds, err := m.next.BuildChartDataset(ctx, sel)
	if err != nil {
		return nil, err
	}

	if err := m.cache.Set(ctx, key, ds, m.ttl); err != nil && m.l != nil {
		m.l.Warn("chart cache set error", applogger.Error(err))
	}
	return ds, nil
}

// Invalidate drops all memoized datasets and the cached version token.
// Called when the external pipeline announces a table refresh.
func (m *MemoBuilder) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	m.version = ""
	m.versionAt = time.Time{}
	m.mu.Unlock()

	if err := m.cache.DeleteByPattern(ctx, chartKeyPrefix+"*"); err != nil {
		return fmt.Errorf("invalidate chart cache: %w", err)
	}
	if m.l != nil {
		m.l.Info("chart cache invalidated")
	}
	return nil
}

// tableVersion returns the store freshness token, re-reading it at most
// once per versionTTL.
func (m *MemoBuilder) tableVersion(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.version != "" && time.Since(m.versionAt) < m.versionTTL {
		v := m.version
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	v, err := m.store.Version(ctx)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.version = v
	m.versionAt = time.Now()
	m.mu.Unlock()
	return v, nil
}

func (m *MemoBuilder) lookup(hit bool) {
	if m.metrics != nil {
		m.metrics.RecordCacheLookup(hit)
	}
}
