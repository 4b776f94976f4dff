package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Token store backends.
const (
	TokenStorePostgres = "postgres"
	TokenStoreRedis    = "redis"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort               string
	DatabaseURL            string
	DBPoolSize             int
	RedisURL               string
	RedisPoolSize          int
	TokenStore             string
	TokenTTL               time.Duration // zero means tokens never expire
	JWTSecret              string
	BcryptCost             int
	KafkaBrokers           []string
	KafkaTopic             string
	KafkaPartitions        int
	// KafkaReplicationFactor is used only when the events topic is created.
	KafkaReplicationFactor int
}

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Get returns the application config (loads once from env).
func Get() *Config {
	cfgOnce.Do(func() {
		cfg = FromEnv()
	})
	return cfg
}

// LoadEnvFile reads a .env file into the process environment. Variables that are
// already set win over the file; a missing file is not an error.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// FromEnv builds a Config from the current environment without caching it.
func FromEnv() *Config {
	return &Config{
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		DBPoolSize:             getIntEnv("DB_POOL_SIZE", 20),
		RedisURL:               getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPoolSize:          getIntEnv("REDIS_POOL_SIZE", 50),
		TokenStore:             strings.ToLower(getEnv("TOKEN_STORE", TokenStorePostgres)),
		TokenTTL:               time.Duration(getIntEnv("TOKEN_TTL_HOURS", 24)) * time.Hour,
		JWTSecret:              os.Getenv("JWT_SECRET"),
		BcryptCost:             getIntEnv("BCRYPT_COST", bcrypt.DefaultCost),
		KafkaBrokers:           getSliceEnv("KAFKA_BROKERS"),
		KafkaTopic:             getEnv("KAFKA_TASK_TOPIC", "task-events"),
		KafkaPartitions:        getIntEnv("KAFKA_PARTITIONS", 3),
		KafkaReplicationFactor: getIntEnv("KAFKA_REPLICATION_FACTOR", 1),
	}
}

// UsesRedis reports whether Redis backs the token store.
func (c *Config) UsesRedis() bool {
	return c.TokenStore == TokenStoreRedis
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return defaultVal
}

// getSliceEnv splits a comma separated list; empty entries are dropped.
func getSliceEnv(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
