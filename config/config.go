package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds server and upstream settings, read from environment.
type Config struct {
	ListenAddr      string // address the HTTP server binds, e.g. :8080
	UpstreamBaseURL string // catalog API base, e.g. https://app.gogophim.com/v1
	RequestTimeout  time.Duration
	AutoLoadCeiling int    // max pages aggregated per browse query
	DataDir         string // where preferences persist
	PosterRelay     bool   // serve /api/poster image relay
	LogFile         string // optional rotating log file; empty logs to stderr
}

// Load reads config from environment with sane defaults.
func Load() *Config {
	c := &Config{
		ListenAddr:      getEnv("CHUMSTREAM_LISTEN_ADDR", ":8080"),
		UpstreamBaseURL: getEnv("CHUMSTREAM_UPSTREAM_URL", "https://app.gogophim.com/v1"),
		RequestTimeout:  getEnvDuration("CHUMSTREAM_REQUEST_TIMEOUT", 8*time.Second),
		AutoLoadCeiling: getEnvInt("CHUMSTREAM_AUTO_LOAD_CEILING", 5),
		DataDir:         getEnv("CHUMSTREAM_DATA_DIR", "./data"),
		PosterRelay:     getEnvBool("CHUMSTREAM_POSTER_RELAY", true),
		LogFile:         os.Getenv("CHUMSTREAM_LOG_FILE"),
	}
	if c.AutoLoadCeiling <= 0 {
		c.AutoLoadCeiling = 5
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 8 * time.Second
	}
	c.UpstreamBaseURL = strings.TrimSuffix(c.UpstreamBaseURL, "/")
	return c
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
