package config

import (
	"os"
	"time"
)

type Config struct {
	Port             string
	DatabaseURL      string
	SnapshotInterval time.Duration
}

// Load reads configuration from the environment. An empty DATABASE_URL
// means the store runs memory-only, with no snapshots.
func Load() Config {
	return Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SnapshotInterval: getDuration("SNAPSHOT_INTERVAL", 5*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
