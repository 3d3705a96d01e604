//go:build wireinject
// +build wireinject

package di

import (
	"StockDeck/pkg/config"
	"StockDeck/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,

		// Repositories
		ProvidePriceStore,

		// Use cases
		ProvideChartBuilder,
		ProvideMemoBuilder,
		ProvideRefreshConsumer,

		// HTTP surface
		ProvideChartsHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
