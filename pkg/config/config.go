package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"EconPull/pkg/util"
)

const (
	SnapshotBackendFile  = "file"
	SnapshotBackendRedis = "redis"
)

type Config struct {
	Environment string `yaml:"environment"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
		// Topic receives aggregated warn/error entries when Kafka is configured.
		Topic         string        `yaml:"topic"`
		FlushInterval time.Duration `yaml:"flush_interval"`
	} `yaml:"log"`
	Server struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORS            bool          `yaml:"cors"`
		QueryCacheTTL   time.Duration `yaml:"query_cache_ttl"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Snapshot struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
		Key     string `yaml:"key"`
	} `yaml:"snapshot"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers       []string `yaml:"brokers"`
		RefreshTopic  string   `yaml:"refresh_topic"`
		SnapshotTopic string   `yaml:"snapshot_topic"`
		RequiredAcks  int      `yaml:"required_acks"`
		Compression   string   `yaml:"compression"`
		Producer      struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		Table            string        `yaml:"table"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Fred struct {
		APIKey    string  `yaml:"api_key"`
		BaseURL   string  `yaml:"base_url"`
		RateLimit float64 `yaml:"rate_limit"`
		Burst     int     `yaml:"burst"`
	} `yaml:"fred"`
	Fed struct {
		CalendarURL string `yaml:"calendar_url"`
	} `yaml:"fed"`
	Aggregator struct {
		Concurrency  int           `yaml:"concurrency"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
		LockTTL      time.Duration `yaml:"lock_ttl"`
		// RunInterval > 0 makes the worker also refresh on a ticker.
		RunInterval time.Duration `yaml:"run_interval"`
	} `yaml:"aggregator"`
}

// Default returns a config usable for a single-host file-backed deployment.
func Default() *Config {
	c := &Config{Environment: "development"}
	c.Log.Level = "info"
	c.Log.Format = "json"
	c.Log.Output = "stdout"
	c.Log.FlushInterval = 30 * time.Second
	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 10 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.CORS = true
	c.Server.QueryCacheTTL = 30 * time.Second
	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	c.Snapshot.Backend = SnapshotBackendFile
	c.Snapshot.Path = "data/calendar.json"
	c.Snapshot.Key = "calendar:snapshot:current"
	c.Redis.Host = "localhost"
	c.Redis.Port = 6379
	c.Redis.Prefix = "econpull"
	c.Kafka.RefreshTopic = "econpull.calendar.refresh"
	c.Kafka.SnapshotTopic = "econpull.calendar.snapshots"
	c.Kafka.RequiredAcks = -1
	c.Kafka.Compression = "snappy"
	c.Kafka.Producer.MaxAttempts = 5
	c.Kafka.Producer.WriteTimeout = 10 * time.Second
	c.Kafka.Producer.ReadTimeout = 10 * time.Second
	c.Kafka.Consumer.GroupID = "econpull-aggregator"
	c.Kafka.Consumer.Workers = 1
	c.Kafka.Consumer.RetryMax = 3
	c.Kafka.Consumer.BackoffMin = 500 * time.Millisecond
	c.Kafka.Consumer.BackoffMax = 5 * time.Second
	c.ClickHouse.Host = "localhost"
	c.ClickHouse.Port = 9000
	c.ClickHouse.Database = "econpull"
	c.ClickHouse.Table = "calendar_events"
	c.ClickHouse.DialTimeout = 5 * time.Second
	c.ClickHouse.ReadTimeout = 30 * time.Second
	c.ClickHouse.WriteTimeout = 30 * time.Second
	c.ClickHouse.MaxExecutionTime = 60 * time.Second
	c.Fred.BaseURL = "https://api.stlouisfed.org/fred"
	c.Fred.RateLimit = 2
	c.Fred.Burst = 4
	c.Fed.CalendarURL = "https://www.federalreserve.gov/monetarypolicy/fomccalendars.htm"
	c.Aggregator.Concurrency = 4
	c.Aggregator.FetchTimeout = 8 * time.Second
	c.Aggregator.LockTTL = 5 * time.Minute
	return c
}

// Load reads a YAML file over Default(). An empty path yields the defaults.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads .env (if present), the YAML file, then applies
// environment overrides and validates the result.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func read(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	util.EnvString("ENVIRONMENT", &c.Environment)
	util.EnvString("LOG_LEVEL", &c.Log.Level)
	util.EnvString("LOG_FORMAT", &c.Log.Format)
	util.EnvInt("PORT", &c.Server.Port)
	util.EnvString("SNAPSHOT_BACKEND", &c.Snapshot.Backend)
	util.EnvString("SNAPSHOT_PATH", &c.Snapshot.Path)
	util.EnvBool("REDIS_ENABLED", &c.Redis.Enabled)
	util.EnvString("REDIS_HOST", &c.Redis.Host)
	util.EnvInt("REDIS_PORT", &c.Redis.Port)
	util.EnvString("REDIS_PASSWORD", &c.Redis.Password)
	util.EnvList("KAFKA_BROKERS", &c.Kafka.Brokers)
	util.EnvBool("CLICKHOUSE_ENABLED", &c.ClickHouse.Enabled)
	util.EnvString("CLICKHOUSE_HOST", &c.ClickHouse.Host)
	util.EnvString("CLICKHOUSE_PASSWORD", &c.ClickHouse.Password)
	util.EnvString("FRED_API_KEY", &c.Fred.APIKey)
	util.EnvString("FED_CALENDAR_URL", &c.Fed.CalendarURL)
	util.EnvDuration("AGGREGATOR_RUN_INTERVAL", &c.Aggregator.RunInterval)
}

// KafkaEnabled reports whether brokers are configured.
func (c *Config) KafkaEnabled() bool { return len(c.Kafka.Brokers) > 0 }

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Snapshot.Backend {
	case SnapshotBackendFile:
		if c.Snapshot.Path == "" {
			return fmt.Errorf("snapshot.path is required for the file backend")
		}
	case SnapshotBackendRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("snapshot.backend 'redis' requires redis.enabled")
		}
	default:
		return fmt.Errorf("snapshot.backend must be 'file' or 'redis', got '%s'", c.Snapshot.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Aggregator.Concurrency < 1 {
		return fmt.Errorf("aggregator.concurrency must be >= 1")
	}
	if c.Aggregator.FetchTimeout <= 0 {
		return fmt.Errorf("aggregator.fetch_timeout must be positive")
	}
	if c.KafkaEnabled() && (c.Kafka.RefreshTopic == "" || c.Kafka.SnapshotTopic == "") {
		return fmt.Errorf("kafka.refresh_topic and kafka.snapshot_topic are required when brokers are set")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Table == "" {
		return fmt.Errorf("clickhouse.table is required when clickhouse is enabled")
	}
	return nil
}
