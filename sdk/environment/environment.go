// Package environment provides utilities for managing environment variables
// and configuration loading with support for namespacing and defaults.
package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from the given .env files, or from
// ".env" in the working directory when none are given. Variables already set
// in the process environment win over file values.
//
// Example:
//
//	if err := LoadEnv(); err != nil {
//	    log.Printf("load .env: %v", err)
//	}
func LoadEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// LoadOptional behaves like LoadEnv but ignores files that do not exist.
func LoadOptional(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// GetEnvOrDefault retrieves an environment variable value, returning a fallback
// value if the variable is not set.
//
// Example:
//
//	dir := GetEnvOrDefault("CRUDGEN_OUTPUT_DIR", ".")
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvKeyPrefix constructs a namespaced environment variable key by
// combining a prefix with the key name using an underscore. If no prefix is
// provided, it returns the key unchanged.
//
// Example:
//
//	key := GetEnvKeyPrefix("CRUDGEN", "WORKERS")
//	// Returns: "CRUDGEN_WORKERS"
func GetEnvKeyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

// GetPrefixEnvOrDefault retrieves a namespaced environment variable value,
// returning a fallback value if the variable is not set.
func GetPrefixEnvOrDefault(prefix, key, fallback string) string {
	return GetEnvOrDefault(GetEnvKeyPrefix(prefix, key), fallback)
}
