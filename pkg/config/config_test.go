package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SnapshotBackendFile, c.Snapshot.Backend)
	assert.Equal(t, 8*time.Second, c.Aggregator.FetchTimeout)
	assert.False(t, c.KafkaEnabled())
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 9090
snapshot:
  backend: redis
redis:
  enabled: true
  host: cache.internal
kafka:
  brokers: ["k1:9092"]
aggregator:
  concurrency: 8
  run_interval: 6h
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "cache.internal", c.Redis.Host)
	assert.Equal(t, 6379, c.Redis.Port, "unset keys keep defaults")
	assert.True(t, c.KafkaEnabled())
	assert.Equal(t, "econpull.calendar.refresh", c.Kafka.RefreshTopic)
	assert.Equal(t, 6*time.Hour, c.Aggregator.RunInterval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown backend", "snapshot:\n  backend: s3\n"},
		{"redis backend without redis", "snapshot:\n  backend: redis\n"},
		{"zero concurrency", "aggregator:\n  concurrency: 0\n"},
		{"kafka without topics", "kafka:\n  brokers: [k:9092]\n  refresh_topic: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FRED_API_KEY", "secret")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("SNAPSHOT_PATH", "/var/lib/econpull/calendar.json")

	c, err := LoadWithEnv("")
	require.NoError(t, err)
	assert.Equal(t, "secret", c.Fred.APIKey)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "/var/lib/econpull/calendar.json", c.Snapshot.Path)
}
