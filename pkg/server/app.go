package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	pkgcache "StockDeck/pkg/cache"
	pkgch "StockDeck/pkg/clickhouse"
	"StockDeck/pkg/config"
	xhttp "StockDeck/pkg/http"
	pkgkafka "StockDeck/pkg/kafka"
	applogger "StockDeck/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
	handler    xhttp.Handler
	consumer   *pkgkafka.Consumer
	chClient   *pkgch.Client
	cache      pkgcache.Service
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	consumer *pkgkafka.Consumer,
	chClient *pkgch.Client,
	cache pkgcache.Service,
) *App {
	return &App{
		cfg:      cfg,
		l:        l,
		handler:  handler,
		consumer: consumer,
		chClient: chClient,
		cache:    cache,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	// Refresh consumer is optional; without brokers the version token is
	// the only invalidation path.
	if a.consumer != nil {
		if err := a.consumer.Start(); err != nil {
			a.l.Error("refresh consumer start error", applogger.Error(err))
			return err
		}
		a.l.Info("refresh consumer started", applogger.Strings("brokers", a.cfg.Refresh.Brokers))
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("dashboard ready", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.l.Warn("refresh consumer stop error", applogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.l.Warn("cache close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
