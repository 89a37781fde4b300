package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the tracker service.
type Config struct {
	// Real-time feeds
	GTFSVehiclePositionsURL string `validate:"required,url"`
	GTFSTripUpdatesURL      string `validate:"required,url"`

	// Static GTFS
	RenfeGTFSURL string `validate:"required,url"`
	CacheDir     string `validate:"required"`

	// Polling
	PollInterval time.Duration `validate:"gt=0"`

	// Region of interest (Valencia Cercanías by default)
	MinLat float64 `validate:"latitude"`
	MaxLat float64 `validate:"latitude,gtefield=MinLat"`
	MinLon float64 `validate:"longitude"`
	MaxLon float64 `validate:"longitude,gtefield=MinLon"`

	// HTTP API
	Port           string
	AllowedOrigins []string
}

// Load reads configuration from .env files and environment variables with
// sensible defaults, then validates it.
func Load() (*Config, error) {
	// Base .env first, .env.local overrides for local development.
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := &Config{
		GTFSVehiclePositionsURL: getEnv("GTFS_VEHICLE_POSITIONS_URL", "https://gtfsrt.renfe.com/vehicle_positions.pb"),
		GTFSTripUpdatesURL:      getEnv("GTFS_TRIP_UPDATES_URL", "https://gtfsrt.renfe.com/trip_updates.pb"),

		RenfeGTFSURL: getEnv("RENFE_GTFS_URL", "https://ssl.renfe.com/ftransit/Fichero_CER_FOMENTO/fomento_transit.zip"),
		CacheDir:     getEnv("CACHE_DIR", "/data/cache"),

		PollInterval: time.Duration(getEnvInt("POLL_INTERVAL_MS", 15000)) * time.Millisecond,

		MinLat: getEnvFloat("MIN_LAT", 38.8),
		MaxLat: getEnvFloat("MAX_LAT", 40.2),
		MinLon: getEnvFloat("MIN_LON", -1.3),
		MaxLon: getEnvFloat("MAX_LON", 0.3),

		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
