package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the defaults of the batch command
type Config struct {
	// Files
	TapsPath   string
	TripsPath  string
	ErrorsPath string
	// FaresPath is empty when the built-in fares are used
	FaresPath string

	LogLevel string
}

// Load reads the configuration from environment variables, after loading envFile when it exists
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// variables already set in the environment win over the file
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return &Config{
		TapsPath:   getEnv("TAP2TRIP_INPUT", "taps.csv"),
		TripsPath:  getEnv("TAP2TRIP_OUTPUT", "trips.csv"),
		ErrorsPath: getEnv("TAP2TRIP_ERRORS", "errors.csv"),
		FaresPath:  getEnv("TAP2TRIP_FARES", ""),
		LogLevel:   getEnv("TAP2TRIP_LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
