package config

import (
	"os"
	"strings"
)

// Store drivers selectable via STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Config struct {
	HTTPAddr     string
	ServiceName  string
	StoreDriver  string
	DataDir      string
	RedisAddr    string
	PostgresURL  string
	KafkaBrokers []string
}

func Load() Config {
	return Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		ServiceName:  getenv("SERVICE_NAME", "storefront"),
		StoreDriver:  getenv("STORE_DRIVER", DriverMemory),
		DataDir:      getenv("DATA_DIR", "data"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		PostgresURL:  os.Getenv("POSTGRES_URL"),
		KafkaBrokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
