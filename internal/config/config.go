package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Site source kinds accepted by SITE_SOURCE.
const (
	SourceLive    = "live"
	SourceFixture = "fixture"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	StaticDir       string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Polling.
	PollInterval time.Duration
	PollTimeout  time.Duration
	StaleAfter   time.Duration
	QueryLat     float64
	QueryLon     float64

	// Radar site.
	SiteSource        string
	SiteFixtureImage  string
	RadarMetadataURL  string
	RadarImageBaseURL string
	FetchTimeout      time.Duration

	// Optional Kafka status sink.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaStatusTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	pollInterval, err := parsePositiveDuration("POLL_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	pollTimeout, err := parsePositiveDuration("POLL_TIMEOUT", "2m")
	if err != nil {
		return nil, err
	}
	// An unset POLL_TIMEOUT follows a short POLL_INTERVAL down.
	if os.Getenv("POLL_TIMEOUT") == "" && pollTimeout > pollInterval {
		pollTimeout = pollInterval
	}
	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	staleAfter, err := parsePositiveDuration("STALE_AFTER", "30m")
	if err != nil {
		return nil, err
	}

	lat, err := parseFloat("QUERY_LAT", "46.0620872")
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("QUERY_LON", "14.5428026")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8088"),
		StaticDir:       sharedcfg.EnvOrDefault("STATIC_DIR", "./public_html"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		PollInterval: pollInterval,
		PollTimeout:  pollTimeout,
		StaleAfter:   staleAfter,
		QueryLat:     lat,
		QueryLon:     lon,

		SiteSource:        sharedcfg.EnvOrDefault("SITE_SOURCE", SourceLive),
		SiteFixtureImage:  os.Getenv("SITE_FIXTURE_IMAGE"),
		RadarMetadataURL:  sharedcfg.EnvOrDefault("RADAR_METADATA_URL", "http://www.meteo.si/uploads/probase/www/nowcast/inca/inca_si0zm_data.json?prod=si0zm"),
		RadarImageBaseURL: sharedcfg.EnvOrDefault("RADAR_IMAGE_BASE_URL", "http://www.meteo.si"),
		FetchTimeout:      fetchTimeout,

		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaStatusTopic: sharedcfg.EnvOrDefault("KAFKA_STATUS_TOPIC", "rain-status"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SiteSource != SourceLive && c.SiteSource != SourceFixture {
		return fmt.Errorf("invalid SITE_SOURCE %q: want %q or %q", c.SiteSource, SourceLive, SourceFixture)
	}
	if c.SiteSource == SourceLive && (c.RadarMetadataURL == "" || c.RadarImageBaseURL == "") {
		return errors.New("RADAR_METADATA_URL and RADAR_IMAGE_BASE_URL are required for the live site source")
	}
	if c.QueryLat < -90 || c.QueryLat > 90 {
		return fmt.Errorf("QUERY_LAT out of range: %v", c.QueryLat)
	}
	if c.QueryLon < -180 || c.QueryLon > 180 {
		return fmt.Errorf("QUERY_LON out of range: %v", c.QueryLon)
	}
	if c.PollTimeout > c.PollInterval {
		return fmt.Errorf("POLL_TIMEOUT (%s) must not exceed POLL_INTERVAL (%s)", c.PollTimeout, c.PollInterval)
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if c.KafkaStatusTopic == "" {
			return errors.New("KAFKA_STATUS_TOPIC is required when KAFKA_ENABLED is true")
		}
	}
	return nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
