package httpapi

import (
	"os"
	"strconv"
	"strings"
)

// Config controls HTTP API behavior.
type Config struct {
	MaxBodyBytes int64
}

// LoadConfigFromEnv loads API config from environment variables with safe defaults.
func LoadConfigFromEnv() Config {
	cfg := Config{
		MaxBodyBytes: envInt64("PARLEY_API_MAX_BODY_BYTES", 1<<20), // 1 MiB
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	return cfg
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
