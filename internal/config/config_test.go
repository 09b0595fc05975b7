package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/roads_data.csv", cfg.DataPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, 7, cfg.TrendDays)
	assert.Equal(t, int64(0), cfg.TrendSeed)
	assert.Equal(t, 100, cfg.CacheSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "road-risk-records", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("ROADRISK_DATA_PATH", "testdata/other.csv")
	t.Setenv("ROADRISK_HTTP_ADDR", ":9090")
	t.Setenv("ROADRISK_LOG_LEVEL", "debug")
	t.Setenv("ROADRISK_LOG_FORMAT", "text")
	t.Setenv("ROADRISK_TOP_N", "5")
	t.Setenv("ROADRISK_TREND_DAYS", "14")
	t.Setenv("ROADRISK_TREND_SEED", "42")
	t.Setenv("ROADRISK_SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("ROADRISK_KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("ROADRISK_KAFKA_TOPIC", "custom-topic")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "testdata/other.csv", cfg.DataPath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, 14, cfg.TrendDays)
	assert.Equal(t, int64(42), cfg.TrendSeed)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roadrisk.yaml")
	content := "data_path: /data/roads.csv\ntop_n: 3\nlog_format: text\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/roads.csv", cfg.DataPath)
	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, "text", cfg.LogFormat)
	// untouched keys keep defaults
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero top_n", "ROADRISK_TOP_N", "0"},
		{"negative trend_days", "ROADRISK_TREND_DAYS", "-1"},
		{"zero cache_size", "ROADRISK_CACHE_SIZE", "0"},
		{"bad shutdown_timeout", "ROADRISK_SHUTDOWN_TIMEOUT", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
