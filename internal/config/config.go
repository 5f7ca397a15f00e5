package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
	StoreDriverMemory   = "memory"
)

// Config is the process configuration resolved from the environment.
type Config struct {
	Port         string
	StoreDriver  string
	DatabaseURL  string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	Collection   string
	RefreshDelay time.Duration
	LogLevel     string
	LogFormat    string
	SeedPath     string
	SeedOnStart  bool
}

// LoadDotEnv reads .env files into the environment when present.
// A missing file is not an error; environment variables still apply.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		logrus.Debug("no .env file found (using environment variables)")
	}
}

// Load reads Config from environment variables with defaults for local runs.
func Load() Config {
	return Config{
		Port:         Get("PORT", "8080"),
		StoreDriver:  strings.ToLower(Get("STORE_DRIVER", StoreDriverMemory)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    Get("REDIS_ADDR", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:      GetInt("REDIS_DB", 0),
		Collection:   Get("COLLECTION", "deliveries"),
		RefreshDelay: GetDuration("REFRESH_DELAY", 100*time.Millisecond),
		LogLevel:     Get("LOG_LEVEL", "info"),
		LogFormat:    Get("LOG_FORMAT", "json"),
		SeedPath:     Get("SEED_PATH", "data/seeds/deliveries.json"),
		SeedOnStart:  GetBool("SEED_ON_START", false),
	}
}

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid integer value, using default %d", fallback)
		return fallback
	}
	return n
}

func GetBool(key string, fallback bool) bool {
	v := Get(key, "")
	if v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid boolean value, using default %v", fallback)
		return fallback
	}
	return b
}

// GetDuration accepts Go duration strings ("250ms") or bare milliseconds ("250").
func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}

	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}

	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		logrus.WithField("key", key).Warnf("invalid duration value, using default %s", fallback)
		return fallback
	}
	return d
}
