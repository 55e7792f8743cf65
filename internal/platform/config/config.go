// Package config loads process configuration from SEARCHBRIDGE_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"searchbridge/pkg/platform/strings"
)

const envPrefix = "SEARCHBRIDGE_"

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Notifier kinds.
const (
	NotifierNoop  = "noop"
	NotifierKafka = "kafka"
)

type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	Log             LogConfig     `envPrefix:"LOG_"`
	StoreDriver     string        `env:"STORE_DRIVER" envDefault:"memory"`
	Database        DatabaseConfig
	Redis           RedisConfig `envPrefix:"REDIS_"`
	Kafka           KafkaConfig `envPrefix:"KAFKA_"`
	Notifier        string      `env:"NOTIFIER" envDefault:"noop"`
	Retry           RetryConfig
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// RedisConfig is optional; an empty URL disables the policy cache.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig is optional; no brokers disables the intake consumer, the
// Kafka notifier and scheduled dispatch.
type KafkaConfig struct {
	Brokers           []string `env:"BROKERS" envSeparator:","`
	Group             string   `env:"GROUP" envDefault:"searchbridge"`
	TopicPrefix       string   `env:"TOPIC_PREFIX"`
	Partitions        int32    `env:"PARTITIONS" envDefault:"3"`
	ReplicationFactor int16    `env:"REPLICATION_FACTOR" envDefault:"1"`
}

type RetryConfig struct {
	ScanSchedule       string        `env:"RETRY_SCAN_SCHEDULE" envDefault:"*/5 * * * *"`
	ScanTimeout        time.Duration `env:"RETRY_SCAN_TIMEOUT" envDefault:"2m"`
	PolicyCacheTTL     time.Duration `env:"POLICY_CACHE_TTL" envDefault:"1m"`
	ProviderPolicyFile string        `env:"PROVIDER_POLICY_FILE"`
}

// KafkaEnabled reports whether any broker is configured.
func (c Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: envPrefix})
}

// LoadFrom reads the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Prefix: envPrefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	// "a:9092, ,a:9092" must not count as brokers.
	cfg.Kafka.Brokers = strings.DedupeAndTrim(cfg.Kafka.Brokers)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("%sDATABASE_URL is required for the postgres store", envPrefix)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	switch c.Notifier {
	case NotifierNoop:
	case NotifierKafka:
		if !c.KafkaEnabled() {
			return fmt.Errorf("%sKAFKA_BROKERS is required for the kafka notifier", envPrefix)
		}
	default:
		return fmt.Errorf("unknown notifier %q", c.Notifier)
	}
	return nil
}
