package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pkgpostgres "github.com/cashflowgame/finance-service/pkg/postgres"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

type KafkaConfig struct {
	Brokers     []string
	EventsTopic string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// ScoreTTL bounds how long a computed credit score is served from cache.
	ScoreTTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	HTTPPort    int
	StoreDriver string
	DB          DatabaseConfig
	Kafka       KafkaConfig
	Redis       RedisConfig
	Log         LogConfig
	RulesFile   string
	ServiceName string
}

// Validate rejects combinations the service cannot start with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DB.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the %s store", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Kafka.Enabled() && c.Kafka.EventsTopic == "" {
		return fmt.Errorf("KAFKA_EVENTS_TOPIC must not be empty when brokers are set")
	}
	return nil
}

func Load() Config {
	return Config{
		HTTPPort:    getEnvInt("HTTP_PORT", 8090),
		StoreDriver: getEnv("STORE_DRIVER", StoreMemory),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "cashflow"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "cashflow_finance"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Kafka: KafkaConfig{
			Brokers:     getEnvList("KAFKA_BROKERS"),
			EventsTopic: getEnv("KAFKA_EVENTS_TOPIC", "finance.events"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			ScoreTTL: getEnvDuration("CREDIT_SCORE_CACHE_TTL", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RulesFile:   getEnv("GAME_RULES_FILE", ""),
		ServiceName: "finance-service",
	}
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

// PostgresConfig converts the database settings for pkg/postgres.
func (c Config) PostgresConfig() pkgpostgres.Config {
	return pkgpostgres.Config{
		Host:            c.DB.Host,
		Port:            c.DB.Port,
		User:            c.DB.User,
		Password:        c.DB.Password,
		Database:        c.DB.Name,
		SSLMode:         c.DB.SSLMode,
		ApplicationName: c.ServiceName,
		MaxConns:        int32(c.DB.MaxConns),
	}
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
