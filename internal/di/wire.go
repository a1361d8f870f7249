//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"EconPull/internal/usecase"
	"EconPull/pkg/config"
	"EconPull/pkg/server"
)

var baseSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideRedisCache,
	ProvideSnapshotStore,
	ProvideKafkaProducer,
	ProvideCalendarBus,
)

var refreshSet = wire.NewSet(
	baseSet,
	ProvideRunLock,
	ProvideSnapshotNotifier,
	ProvideFed,
	ProvideGenerators,
	ProvideAggregator,
	ProvideValueUpdater,
	ProvideClickHouseClient,
	ProvideEventArchive,
	ProvideRefreshJob,
)

// InitializeAPI builds the HTTP query service.
func InitializeAPI(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		baseSet,
		ProvideQueryCache,
		ProvideCalendarQuery,
		ProvideRefreshDispatcher,
		ProvideCalendarHandler,
		ProvideHTTPServer,
		ProvideAPIApp,
	)
	return nil, nil, nil
}

// InitializeWorker builds the long-running aggregator.
func InitializeWorker(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(refreshSet, ProvideWorkerApp)
	return nil, nil, nil
}

// InitializeRefreshJob builds a job for a single run.
func InitializeRefreshJob(cfg *config.Config) (*usecase.RefreshJob, func(), error) {
	wire.Build(refreshSet)
	return nil, nil, nil
}
