package envconfig

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"nutriplan/pkg/logger"
)

// GetEnv returns the value of the environment variable or the fallback
// if it is unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// LoadEnvFile loads KEY=VALUE pairs from a .env style file into the
// process environment. Existing environment variables are not
// overridden. Lines starting with '#' and blank lines are skipped.
func LoadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open env file %s: %v", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)

		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %v", key, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read env file %s: %v", path, err)
	}
	return nil
}

// GetLogLevel returns the configured log level, defaulting to info.
func GetLogLevel() logger.LogLevel {
	switch strings.ToLower(GetEnv("LOG_LEVEL", "info")) {
	case "debug":
		return logger.LevelDebug
	case "warn":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// GetJWTSecret returns the bearer token signing secret. An empty value
// disables authenticated routes at startup.
func GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "")
}
