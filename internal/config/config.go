package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds process-level settings resolved from the environment.
// LLM provider settings are resolved separately by llm.ConfigFromEnv once
// Load has populated the environment from any .env file.
type Config struct {
	// DBPath is the SQLite database file (CODULINGO_DB). Empty means the
	// XDG default chosen by the store.
	DBPath string

	// LogMode selects the zap encoder: "production" or "development"
	// (CODULINGO_LOG_MODE).
	LogMode string

	// LogFile overrides where logs are written (CODULINGO_LOG_FILE).
	// Empty means next to the database.
	LogFile string

	// DotEnv reports whether a .env file was found and loaded.
	DotEnv bool
}

// Load reads optional .env files into the process environment (existing
// variables win) and then resolves the configuration. With no arguments
// godotenv looks for ./.env.
func Load(files ...string) Config {
	loaded := godotenv.Load(files...) == nil

	return Config{
		DBPath:  getEnv("CODULINGO_DB", ""),
		LogMode: strings.ToLower(getEnv("CODULINGO_LOG_MODE", "production")),
		LogFile: getEnv("CODULINGO_LOG_FILE", ""),
		DotEnv:  loaded,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
