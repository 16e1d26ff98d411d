package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	ServerAddr string // Address the HTTP server listens on, e.g. ":5000"
	DataDir    string // Directory holding the persisted JSON snapshots

	FlushInterval time.Duration // How often the background flush runs
	HistoryTTL    time.Duration // Freshness window for the play-history cache

	MusicAPIURL     string        // Base URL of the music-service API, empty disables remote features
	MusicAPIToken   string        // Bearer token for the music-service API
	MusicAPITimeout time.Duration // Per-request timeout for remote calls

	LogPath       string
	LogLevel      string
	LogMaxSize    int // megabytes
	LogMaxBackups int
	LogMaxAge     int // days
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvDuration gets an environment variable as seconds or returns a default.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":5000"),
		DataDir:    getEnv("DATA_DIR", "data"),

		FlushInterval: getEnvDuration("FLUSH_INTERVAL_SECONDS", 60*time.Second),
		HistoryTTL:    getEnvDuration("HISTORY_TTL_SECONDS", 5*time.Second),

		MusicAPIURL:     getEnv("MUSIC_API_URL", ""),
		MusicAPIToken:   os.Getenv("MUSIC_API_TOKEN"), // no hardcoded default for credentials
		MusicAPITimeout: getEnvDuration("MUSIC_API_TIMEOUT_SECONDS", 10*time.Second),

		LogPath:       getEnv("LOG_PATH", filepath.Join("logs", "tunescore.log")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogMaxSize:    getEnvInt("LOG_MAX_SIZE", 50),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvInt("LOG_MAX_AGE", 28),
	}
}
