package di

import (
	"context"
	"fmt"
	"time"

	domrepo "StockDeck/internal/domain/repository"
	"StockDeck/internal/handler/api"
	internalrepo "StockDeck/internal/repository"
	"StockDeck/internal/usecase"
	pkgcache "StockDeck/pkg/cache"
	pkgch "StockDeck/pkg/clickhouse"
	"StockDeck/pkg/config"
	xhttp "StockDeck/pkg/http"
	pkgkafka "StockDeck/pkg/kafka"
	applogger "StockDeck/pkg/logger"
	"StockDeck/pkg/metrics"
	"StockDeck/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lcfg := &applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	if lcfg.Level == "" {
		lcfg.Level = "info"
	}
	if lcfg.Format == "" {
		lcfg.Format = "console"
	}
	if lcfg.Output == "" {
		lcfg.Output = "stdout"
	}
	l, err := applogger.New(lcfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the two
// warehouse tables exist. The external pipeline owns their content; the
// idempotent DDL only covers first boot against an empty database.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            symbol String,
            date Date,
            open Float64,
            high Float64,
            low Float64,
            close Float64,
            volume Int64
        ) ENGINE=MergeTree ORDER BY (symbol, date)`, cfg.ClickHouse.ActualsTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            symbol String,
            date Date,
            predicted_close Float64,
            lower_bound Float64,
            upper_bound Float64
        ) ENGINE=MergeTree ORDER BY (symbol, date)`, cfg.ClickHouse.ForecastTable),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvidePriceStore creates the ClickHouse-backed price store.
func ProvidePriceStore(chClient *pkgch.Client, cfg *config.Config, m domrepo.Metrics, l *applogger.Logger) domrepo.PriceStore {
	store := internalrepo.NewClickHousePriceStore(chClient, cfg.ClickHouse.ActualsTable, cfg.ClickHouse.ForecastTable)
	store.SetLogger(l)
	store.SetMetrics(m)
	return store
}

// ProvideCache creates the memoization cache backend.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		c, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			pkgcache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return pkgcache.NewMemoryCache(), nil
}

// ProvideChartBuilder creates the query-and-render coordinator.
func ProvideChartBuilder(store domrepo.PriceStore, m domrepo.Metrics, l *applogger.Logger) *usecase.ChartBuilder {
	b := usecase.NewChartBuilder(store, m)
	b.SetLogger(l)
	return b
}

// ProvideMemoBuilder wraps the coordinator with the explicit memoization layer.
func ProvideMemoBuilder(b *usecase.ChartBuilder, store domrepo.PriceStore, cache pkgcache.Service, cfg *config.Config, m domrepo.Metrics, l *applogger.Logger) *usecase.MemoBuilder {
	memo := usecase.NewMemoBuilder(b, store, cache, cfg.Cache.TTL, cfg.Cache.VersionTTL)
	memo.SetLogger(l)
	memo.SetMetrics(m)
	return memo
}

// ProvideRefreshConsumer creates the optional pipeline-refresh consumer.
// Without configured brokers the service relies on the version token alone.
func ProvideRefreshConsumer(cfg *config.Config, memo *usecase.MemoBuilder, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if len(cfg.Refresh.Brokers) == 0 || cfg.Refresh.Topic == "" {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Refresh.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Refresh.GroupID),
	)
	if err != nil {
		return nil, fmt.Errorf("refresh consumer: %w", err)
	}

	listener := usecase.NewRefreshListener(cfg.Refresh.Topic, memo)
	listener.SetLogger(l)
	consumer.RegisterHandler(listener)
	return consumer, nil
}

// ProvideChartsHandler creates the dashboard HTTP handler.
func ProvideChartsHandler(l *applogger.Logger, memo *usecase.MemoBuilder, store domrepo.PriceStore, cfg *config.Config) xhttp.Handler {
	h := api.NewChartsHandler(l, memo, store)
	h.SetRateLimit(cfg.Dashboard.RateCapacity, cfg.Dashboard.RateRefill)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	consumer *pkgkafka.Consumer,
	chClient *pkgch.Client,
	cache pkgcache.Service,
) *server.App {
	return server.New(cfg, l, handler, consumer, chClient, cache)
}
