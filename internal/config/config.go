package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// DataDir replaces the embedded pathway catalog and county tables when set.
	DataDir string

	// Simulator configuration. An empty SimulatorURL selects the built-in surrogate.
	SimulatorURL           string
	SimulatorTimeout       time.Duration
	SimulationQueueTimeout time.Duration

	CORSAllowedOrigins []string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// Calculation event publishing.
	KafkaBrokers        []string
	KafkaEnabled        bool
	KafkaTopic          string
	KafkaPublishTimeout time.Duration // how long a response may wait on its event
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	simulatorTimeout, err := parsePositiveDuration("SIMULATOR_TIMEOUT", "2m")
	if err != nil {
		return nil, err
	}

	queueTimeout, err := parsePositiveDuration("SIMULATION_QUEUE_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RATE_LIMIT_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}

	burst, err := strconv.Atoi(sharedcfg.EnvOrDefault("RATE_LIMIT_BURST", "10"))
	if err != nil || burst <= 0 {
		return nil, errors.New("invalid RATE_LIMIT_BURST")
	}

	publishTimeout, err := parsePositiveDuration("KAFKA_PUBLISH_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir: os.Getenv("DATA_DIR"),

		SimulatorURL:           strings.TrimRight(os.Getenv("SIMULATOR_URL"), "/"),
		SimulatorTimeout:       simulatorTimeout,
		SimulationQueueTimeout: queueTimeout,

		CORSAllowedOrigins: splitList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		RateLimitEnabled: os.Getenv("RATE_LIMIT_ENABLED") == "true",
		RateLimitRPS:     rps,
		RateLimitBurst:   burst,

		KafkaBrokers:        brokers,
		KafkaEnabled:        kafkaEnabled,
		KafkaTopic:          sharedcfg.EnvOrDefault("KAFKA_TOPIC", "pathway-calculations"),
		KafkaPublishTimeout: publishTimeout,
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
