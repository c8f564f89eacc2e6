package config

import (
	"errors"
	"os"
	"time"

	"github.com/couchcryptid/climate-eto-service/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Calculation settings applied to requests that carry none.
	SettingsFile    string
	DefaultSettings domain.Settings

	// NASA POWER daily provider configuration.
	PowerEnabled         bool
	PowerBaseURL         string
	PowerTimeout         time.Duration
	PowerCacheSize       int
	PowerMaxRetries      int
	PowerBreakerFailures int

	// InfluxDB report mirror. Disabled when InfluxURL is empty.
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	powerEnabled, err := parseBool("POWER_ENABLED", false)
	if err != nil {
		return nil, err
	}

	powerTimeout, err := parsePositiveDuration("POWER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	powerCacheSize, err := parseIntRange("POWER_CACHE_SIZE", 256, 1, 1_000_000)
	if err != nil {
		return nil, err
	}

	powerRetries, err := parseIntRange("POWER_MAX_RETRIES", 3, 0, 10)
	if err != nil {
		return nil, err
	}

	breakerFailures, err := parseIntRange("POWER_BREAKER_FAILURES", 5, 1, 100)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "daily-climate-series"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "eto-reports"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "climate-eto"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		SettingsFile: os.Getenv("SETTINGS_FILE"),

		PowerEnabled:         powerEnabled,
		PowerBaseURL:         sharedcfg.EnvOrDefault("POWER_BASE_URL", "https://power.larc.nasa.gov/api/temporal/daily/point"),
		PowerTimeout:         powerTimeout,
		PowerCacheSize:       powerCacheSize,
		PowerMaxRetries:      powerRetries,
		PowerBreakerFailures: breakerFailures,

		InfluxURL:    os.Getenv("INFLUX_URL"),
		InfluxToken:  os.Getenv("INFLUX_TOKEN"),
		InfluxOrg:    os.Getenv("INFLUX_ORG"),
		InfluxBucket: os.Getenv("INFLUX_BUCKET"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.InfluxURL != "" && (cfg.InfluxToken == "" || cfg.InfluxOrg == "" || cfg.InfluxBucket == "") {
		return nil, errors.New("INFLUX_URL is set but INFLUX_TOKEN, INFLUX_ORG and INFLUX_BUCKET are not all set")
	}

	if cfg.SettingsFile != "" {
		s, err := LoadSettings(cfg.SettingsFile)
		if err != nil {
			return nil, err
		}
		cfg.DefaultSettings = s
	}

	return cfg, nil
}

// MirrorEnabled reports whether reports are also written to InfluxDB.
func (c *Config) MirrorEnabled() bool { return c.InfluxURL != "" }
