// Package config loads service settings from a config file, ROADRISK_*
// environment variables, and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all settings for the dashboard service and its subcommands.
type Config struct {
	DataPath  string `mapstructure:"data_path"`
	HTTPAddr  string `mapstructure:"http_addr"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Dashboard view parameters. TrendSeed pins the synthetic trend chart
	// so every request draws the same series.
	TopN      int   `mapstructure:"top_n"`
	TrendDays int   `mapstructure:"trend_days"`
	TrendSeed int64 `mapstructure:"trend_seed"`
	CacheSize int   `mapstructure:"cache_size"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Kafka export configuration, used only by the export subcommand.
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
}

// Load reads configuration. cfgFile may be empty, in which case only
// defaults and environment variables apply.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("data_path", "data/roads_data.csv")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("top_n", 10)
	v.SetDefault("trend_days", 7)
	v.SetDefault("trend_seed", 0)
	v.SetDefault("cache_size", 100)
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("kafka_topic", "road-risk-records")

	v.SetEnvPrefix("ROADRISK")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DataPath == "" {
		return errors.New("data_path is required")
	}
	if c.HTTPAddr == "" {
		return errors.New("http_addr is required")
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.TrendDays <= 0 {
		return fmt.Errorf("trend_days must be positive, got %d", c.TrendDays)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive, got %d", c.CacheSize)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	return nil
}
