package env

import (
	"os"
	"strconv"
	"time"

	"github.com/doomedramen/autopwn-sub010/pkg/debug"
)

// GetOrDefault returns the environment variable value or the default if not set
func GetOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	debug.Debug("%s not set, using default: %s", key, defaultValue)
	return defaultValue
}

// GetInt returns the environment variable as an int or the default if not
// set or not parseable
func GetInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		debug.Warning("%s is not a valid integer, using default: %d", key, defaultValue)
	}
	return defaultValue
}

// GetDuration returns the environment variable parsed as a time.Duration or
// the default if not set or not parseable
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		debug.Warning("%s is not a valid duration, using default: %v", key, defaultValue)
	}
	return defaultValue
}

// GetBool returns the environment variable as a boolean.
// Returns false unless the value is "true", "1", "yes", or "y" (case insensitive)
func GetBool(key string) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes", "y", "TRUE", "YES", "Y":
		return true
	default:
		return false
	}
}
