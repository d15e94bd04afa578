// Package config reads process configuration from environment variables and
// the schedules file.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds scheduler configuration from environment variables.
type Config struct {
	// NATSURLs is a comma-separated list of store endpoints. Additional
	// URLs serve as failover targets; the client reconnects to whichever
	// endpoint is currently reachable.
	NATSURLs string

	// SchedulesFile is the path to the JSON schedule list.
	SchedulesFile string

	// TickPeriod is how often the scheduler loop fires.
	TickPeriod time.Duration

	// MissedJobsWindow bounds how far back a tick looks for unclaimed
	// instants. Instants older than the window are permanently skipped.
	MissedJobsWindow time.Duration

	// StoreTimeout bounds each individual store call.
	StoreTimeout time.Duration

	// MaxParallel caps concurrent schedule evaluation within one tick.
	MaxParallel int

	HTTPPort string
	GRPCPort string
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		NATSURLs:         getEnv("CRONBEAT_NATS_URL", "nats://localhost:4222"),
		SchedulesFile:    getEnv("CRONBEAT_SCHEDULES_FILE", "schedules.json"),
		TickPeriod:       getEnvDuration("CRONBEAT_TICK_PERIOD", 30*time.Second),
		MissedJobsWindow: getEnvDuration("CRONBEAT_MISSED_JOBS_WINDOW", time.Hour),
		StoreTimeout:     getEnvDuration("CRONBEAT_STORE_TIMEOUT", 5*time.Second),
		MaxParallel:      getEnvInt("CRONBEAT_MAX_PARALLEL", 8),
		HTTPPort:         getEnv("CRONBEAT_HTTP_PORT", "8080"),
		GRPCPort:         getEnv("CRONBEAT_GRPC_PORT", "9090"),
	}
}

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}
