package di

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"EconPull/internal/domain/repository"
	"EconPull/internal/handler/api"
	internalrepo "EconPull/internal/repository"
	"EconPull/internal/service/fred"
	"EconPull/internal/service/ratelimit"
	"EconPull/internal/service/sources"
	"EconPull/internal/usecase"
	"EconPull/pkg/cache"
	pkgch "EconPull/pkg/clickhouse"
	"EconPull/pkg/config"
	pkghttp "EconPull/pkg/http"
	pkgkafka "EconPull/pkg/kafka"
	"EconPull/pkg/logger"
	"EconPull/pkg/metrics"
	"EconPull/pkg/server"
)

// Optional infrastructure (Redis, Kafka, ClickHouse, FRED) is provided as a
// nil value when disabled in config; consumers check for nil.

func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideRedisCache connects to Redis when redis.enabled is set.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	return rc, func() { _ = rc.Close() }, nil
}

// ProvideRunLock uses Redis so one refresh runs across all workers; without
// Redis the lock is process-local.
func ProvideRunLock(rc *cache.RedisCache) repository.RunLock {
	if rc != nil {
		return rc
	}
	return cache.NewMemoryCache(cache.WithMemoryMaxSize(16))
}

func ProvideSnapshotStore(cfg *config.Config, rc *cache.RedisCache, log *logger.Logger) (repository.SnapshotStore, error) {
	switch cfg.Snapshot.Backend {
	case config.SnapshotBackendRedis:
		if rc == nil {
			return nil, fmt.Errorf("snapshot backend redis requires redis.enabled")
		}
		return internalrepo.NewCacheSnapshotStore(rc, cfg.Snapshot.Key), nil
	default:
		return internalrepo.NewFileSnapshotStore(cfg.Snapshot.Path, log), nil
	}
}

// ProvideQueryCache shares query results across replicas through Redis when
// it is enabled, with a short in-process L1 in front.
func ProvideQueryCache(cfg *config.Config, rc *cache.RedisCache) cache.Service {
	if rc != nil {
		return cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(1024),
			cache.WithLayeredMemoryTTL(cfg.Server.QueryCacheTTL),
		)
	}
	return cache.NewMemoryCache(cache.WithMemoryMaxSize(1024), cache.WithMemoryCleanup(time.Minute))
}

func ProvideCalendarQuery(cfg *config.Config, store repository.SnapshotStore, c cache.Service, m *metrics.Recorder, log *logger.Logger) *usecase.CalendarQuery {
	return usecase.NewCalendarQuery(store, c, m, log, usecase.WithCacheTTL(cfg.Server.QueryCacheTTL))
}

func ProvideKafkaProducer(cfg *config.Config, log *logger.Logger) (*pkgkafka.Producer, func(), error) {
	if !cfg.KafkaEnabled() {
		return nil, func() {}, nil
	}
	p, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	if cfg.Log.Topic != "" {
		log.AddCollector(&logger.CollectionConfig{
			TimeInterval: cfg.Log.FlushInterval,
			Topic:        cfg.Log.Topic,
			Publisher:    p,
		})
	}
	return p, func() {
		log.RemoveCollector()
		_ = p.Close()
	}, nil
}

func ProvideCalendarBus(cfg *config.Config, p *pkgkafka.Producer, log *logger.Logger) *internalrepo.KafkaCalendarBus {
	if p == nil {
		return nil
	}
	return internalrepo.NewKafkaCalendarBus(p, cfg.Kafka.RefreshTopic, cfg.Kafka.SnapshotTopic, log)
}

// ProvideRefreshDispatcher returns a nil interface, not a typed nil, when
// Kafka is off so the handler can answer 503.
func ProvideRefreshDispatcher(bus *internalrepo.KafkaCalendarBus) repository.RefreshDispatcher {
	if bus == nil {
		return nil
	}
	return bus
}

func ProvideSnapshotNotifier(bus *internalrepo.KafkaCalendarBus) repository.SnapshotNotifier {
	if bus == nil {
		return nil
	}
	return bus
}

func ProvideCalendarHandler(log *logger.Logger, q *usecase.CalendarQuery, d repository.RefreshDispatcher) *api.CalendarEchoHandler {
	return api.NewCalendarEchoHandler(log, q, d, ratelimit.New())
}

func ProvideHTTPServer(cfg *config.Config, h *api.CalendarEchoHandler, log *logger.Logger) *pkghttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return pkghttp.NewServer([]pkghttp.Handler{h},
		pkghttp.WithHost(cfg.Server.Host),
		pkghttp.WithPort(cfg.Server.Port),
		pkghttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		pkghttp.WithCORS(cfg.Server.CORS),
		pkghttp.WithMetricsPath(metricsPath),
		pkghttp.WithLogger(log),
	)
}

// provideKafkaConsumer builds a consumer in group. API replicas pass a
// per-host group so each one sees every snapshot notification.
func provideKafkaConsumer(cfg *config.Config, group, dlq string, log *logger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.KafkaEnabled() {
		return nil, nil
	}
	c, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(group),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(dlq),
		pkgkafka.WithConsumerLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return c, nil
}

func ProvideAPIApp(
	cfg *config.Config,
	log *logger.Logger,
	srv *pkghttp.Server,
	store repository.SnapshotStore,
	q *usecase.CalendarQuery,
) (*server.App, error) {
	opts := []server.Option{
		server.WithHTTPServer(srv),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		server.WithCloser("snapshot store", store.Close),
	}

	if fs, ok := store.(*internalrepo.FileSnapshotStore); ok {
		opts = append(opts, server.WithRunner("snapshot watcher", func(ctx context.Context) error {
			if err := fs.Watch(ctx, func() { q.Invalidate(context.Background()) }); err != nil {
				log.Warn("snapshot watch disabled", logger.Error(err))
				return nil
			}
			<-ctx.Done()
			return nil
		}))
	}

	host, _ := os.Hostname()
	consumer, err := provideKafkaConsumer(cfg, cfg.Kafka.Consumer.GroupID+"-api-"+host, "", log)
	if err != nil {
		return nil, err
	}
	opts = append(opts, server.WithConsumer(consumer,
		usecase.NewSnapshotPublishedHandler(cfg.Kafka.SnapshotTopic, q, log)))

	return server.New(log, opts...), nil
}

func ProvideFed(cfg *config.Config, log *logger.Logger) *sources.Fed {
	client := pkghttp.NewClient(pkghttp.WithTimeout(cfg.Aggregator.FetchTimeout))
	return sources.NewFed(client, log,
		sources.WithCalendarURL(cfg.Fed.CalendarURL),
		sources.WithFetchTimeout(cfg.Aggregator.FetchTimeout),
	)
}

func ProvideGenerators(fed *sources.Fed) []repository.Generator {
	return sources.All(fed)
}

func ProvideAggregator(cfg *config.Config, gens []repository.Generator, m *metrics.Recorder, log *logger.Logger) *usecase.Aggregator {
	return usecase.NewAggregator(gens, m, log, usecase.WithConcurrency(cfg.Aggregator.Concurrency))
}

// ProvideValueUpdater is nil without a FRED API key.
func ProvideValueUpdater(cfg *config.Config, m *metrics.Recorder, log *logger.Logger) *usecase.ValueUpdater {
	if cfg.Fred.APIKey == "" {
		log.Info("fred.api_key not set, actual/previous values stay empty")
		return nil
	}
	client := fred.NewClient(
		pkghttp.NewClient(pkghttp.WithTimeout(cfg.Aggregator.FetchTimeout)),
		cfg.Fred.APIKey,
		fred.WithBaseURL(cfg.Fred.BaseURL),
		fred.WithRateLimit(rate.Limit(cfg.Fred.RateLimit), cfg.Fred.Burst),
	)
	return usecase.NewValueUpdater(client, usecase.DefaultBindings, m, log)
}

func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(4, 2),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, true),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideEventArchive creates the archive table on first use.
func ProvideEventArchive(cfg *config.Config, ch *pkgch.Client, log *logger.Logger) (repository.EventArchive, error) {
	if ch == nil {
		return nil, nil
	}
	archive := internalrepo.NewClickHouseEventArchive(ch, cfg.ClickHouse.Table, log)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.Init(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return archive, nil
}

func ProvideRefreshJob(
	cfg *config.Config,
	lock repository.RunLock,
	agg *usecase.Aggregator,
	store repository.SnapshotStore,
	m *metrics.Recorder,
	log *logger.Logger,
	updater *usecase.ValueUpdater,
	archive repository.EventArchive,
	notifier repository.SnapshotNotifier,
) *usecase.RefreshJob {
	opts := []usecase.RefreshJobOption{usecase.WithLockTTL(cfg.Aggregator.LockTTL)}
	if updater != nil {
		opts = append(opts, usecase.WithValueUpdater(updater))
	}
	if archive != nil {
		opts = append(opts, usecase.WithArchive(archive))
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}
	return usecase.NewRefreshJob(lock, agg, store, m, log, opts...)
}

// ProvideWorkerApp consumes refresh requests and, with run_interval set,
// refreshes on a ticker too.
func ProvideWorkerApp(cfg *config.Config, log *logger.Logger, job *usecase.RefreshJob, store repository.SnapshotStore) (*server.App, error) {
	opts := []server.Option{server.WithCloser("snapshot store", store.Close)}

	consumer, err := provideKafkaConsumer(cfg, cfg.Kafka.Consumer.GroupID, cfg.Kafka.Consumer.DLQTopic, log)
	if err != nil {
		return nil, err
	}
	opts = append(opts, server.WithConsumer(consumer,
		usecase.NewRefreshRequestHandler(cfg.Kafka.RefreshTopic, job, log)))

	if every := cfg.Aggregator.RunInterval; every > 0 {
		opts = append(opts, server.WithRunner("scheduled refresh", usecase.ScheduledRefresh(job, every, log)))
	}
	if consumer == nil && cfg.Aggregator.RunInterval <= 0 {
		return nil, fmt.Errorf("worker has nothing to do: set kafka.brokers or aggregator.run_interval, or use -once")
	}
	return server.New(log, opts...), nil
}
