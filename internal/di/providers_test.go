package di

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalrepo "EconPull/internal/repository"
	"EconPull/internal/usecase"
	"EconPull/pkg/cache"
	"EconPull/pkg/config"
	"EconPull/pkg/logger"
)

func TestOptionalInfrastructureDisabledByDefault(t *testing.T) {
	cfg := config.Default()

	rc, cleanup, err := ProvideRedisCache(cfg)
	require.NoError(t, err)
	cleanup()
	assert.Nil(t, rc)

	p, cleanup, err := ProvideKafkaProducer(cfg, logger.Nop())
	require.NoError(t, err)
	cleanup()
	assert.Nil(t, p)

	ch, cleanup, err := ProvideClickHouseClient(cfg)
	require.NoError(t, err)
	cleanup()
	assert.Nil(t, ch)

	archive, err := ProvideEventArchive(cfg, nil, logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, archive)

	assert.Nil(t, ProvideValueUpdater(cfg, nil, logger.Nop()))
}

func TestNilBusYieldsNilInterfaces(t *testing.T) {
	bus := ProvideCalendarBus(config.Default(), nil, logger.Nop())
	assert.Nil(t, bus)
	assert.True(t, ProvideRefreshDispatcher(bus) == nil)
	assert.True(t, ProvideSnapshotNotifier(bus) == nil)
}

func TestProvideSnapshotStore(t *testing.T) {
	cfg := config.Default()
	cfg.Snapshot.Path = filepath.Join(t.TempDir(), "calendar.json")

	store, err := ProvideSnapshotStore(cfg, nil, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &internalrepo.FileSnapshotStore{}, store)

	cfg.Snapshot.Backend = config.SnapshotBackendRedis
	_, err = ProvideSnapshotStore(cfg, nil, logger.Nop())
	assert.Error(t, err)
}

func TestProvideRunLockFallsBackToMemory(t *testing.T) {
	assert.IsType(t, &cache.MemoryCache{}, ProvideRunLock(nil))
	assert.IsType(t, &cache.MemoryCache{}, ProvideQueryCache(config.Default(), nil))
}

func TestProvideGeneratorsCoversAllSources(t *testing.T) {
	gens := ProvideGenerators(ProvideFed(config.Default(), logger.Nop()))
	seen := make(map[string]bool)
	for _, g := range gens {
		seen[g.Source()] = true
	}
	assert.Len(t, seen, 12)
	assert.True(t, seen["fed"])
}

func TestWorkerNeedsATrigger(t *testing.T) {
	cfg := config.Default()
	cfg.Snapshot.Path = filepath.Join(t.TempDir(), "calendar.json")
	store, err := ProvideSnapshotStore(cfg, nil, logger.Nop())
	require.NoError(t, err)

	_, err = ProvideWorkerApp(cfg, logger.Nop(), &usecase.RefreshJob{}, store)
	assert.Error(t, err)

	cfg.Aggregator.RunInterval = 1
	app, err := ProvideWorkerApp(cfg, logger.Nop(), &usecase.RefreshJob{}, store)
	require.NoError(t, err)
	assert.NotNil(t, app)
}
