package utils

import (
	"os"
	"strconv"
	"time"
)

// Typed accessors over os.LookupEnv. A set but unparseable value falls back
// to the default, same as an unset one.

// GetEnvAsInt reads an integer environment variable.
func GetEnvAsInt(key string, defaultVal int) int {
	if value, ok := os.LookupEnv(key); ok {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultVal
}

// GetEnvAsUint64 reads an unsigned integer environment variable.
func GetEnvAsUint64(key string, defaultVal uint64) uint64 {
	if value, ok := os.LookupEnv(key); ok {
		if result, err := strconv.ParseUint(value, 10, 64); err == nil {
			return result
		}
	}
	return defaultVal
}

// GetEnvAsDuration reads a duration environment variable ("30s", "5m", ...).
func GetEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if result, err := time.ParseDuration(value); err == nil {
			return result
		}
	}
	return defaultVal
}

// GetEnvAsBool reads a boolean environment variable.
func GetEnvAsBool(key string, defaultVal bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if result, err := strconv.ParseBool(value); err == nil {
			return result
		}
	}
	return defaultVal
}

// GetEnvAsString reads a string environment variable.
func GetEnvAsString(key string, defaultVal string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultVal
}
