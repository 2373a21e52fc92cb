package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPPort string

	MongoURI    string
	MongoDBName string

	PGHost            string
	PGPort            int
	PGUser            string
	PGPassword        string
	PGDBName          string
	MigrationsDirPath string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers string

	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
	ReconcileInterval time.Duration
}

func Load() *Config {
	return &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "storedb"),

		PGHost:            getEnv("PG_HOST", "localhost"),
		PGPort:            getEnvInt("PG_PORT", 5432),
		PGUser:            getEnv("PG_USER", "postgres"),
		PGPassword:        getEnv("PG_PASSWORD", "postgres"),
		PGDBName:          getEnv("PG_DB_NAME", "ordersdb"),
		MigrationsDirPath: getEnv("MIGRATIONS_DIR", "migrations"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		ReconcileInterval: getEnvDuration("RECONCILE_INTERVAL", 30*time.Second),
	}
}

// Brokers splits KAFKA_BROKERS into the address list kafka-go expects.
func (c *Config) Brokers() []string {
	parts := strings.Split(c.KafkaBrokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(os.Getenv(key))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(os.Getenv(key))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
