package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	MongoURI           string
	MongoDatabase      string
	RedisAddr          string
	Port               string
	EnforceHostControl bool
	ReapInterval       time.Duration
}

func Load() *Config {
	return &Config{
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DB", "wouldrather"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		Port:               getEnv("PORT", "8080"),
		EnforceHostControl: getEnvBool("ENFORCE_HOST_CONTROL", false),
		ReapInterval:       getEnvDuration("REAP_INTERVAL", time.Hour),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
