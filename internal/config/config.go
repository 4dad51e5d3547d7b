// Package config loads the application configuration. This file handles the
// optional .env file and the process-wide default logger.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"fjacquet/ledger-import/internal/logging"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file if one exists in the
// working directory or its parent. Variables already set are not overridden.
func LoadEnv() {
	once.Do(func() {
		loadEnvFile(logging.GetLogger())
	})
}

func loadEnvFile(logger logging.Logger) string {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			logger.Debug("No .env file found, using environment variables")
			return ""
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.WithError(err).Warn("Error loading .env file")
		return ""
	}
	logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldFile, Value: envFile})
	return envFile
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// Load reads .env, then the layered configuration, and installs the
// configured logger as the process default.
func Load(configFile string) (*Config, logging.Logger, error) {
	LoadEnv()
	cfg, err := InitializeConfig(configFile)
	if err != nil {
		return nil, nil, err
	}
	logger := ConfigureLoggingFromConfig(cfg)
	logging.SetDefault(logger)
	return cfg, logger, nil
}
