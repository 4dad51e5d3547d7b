// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/store"
	"fjacquet/ledger-import/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LEDGER_DATABASE_DSN.
const EnvPrefix = "LEDGER"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Database struct {
		Driver   string `mapstructure:"driver" yaml:"driver"`
		DSN      string `mapstructure:"dsn" yaml:"-"` // may carry credentials
		MaxConns int32  `mapstructure:"max_conns" yaml:"max_conns"`
	} `mapstructure:"database" yaml:"database"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Import struct {
		DefaultAccount string   `mapstructure:"default_account" yaml:"default_account"`
		DateFormats    []string `mapstructure:"date_formats" yaml:"date_formats"`
	} `mapstructure:"import" yaml:"import"`

	Categorization struct {
		MerchantPatternsFile string `mapstructure:"merchant_patterns_file" yaml:"merchant_patterns_file"`
		RulesFile            string `mapstructure:"rules_file" yaml:"rules_file"`
		LearningEnabled      bool   `mapstructure:"learning_enabled" yaml:"learning_enabled"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Profiles struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"profiles" yaml:"profiles"`

	Report struct {
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"report" yaml:"report"`
}

// StoreConfig returns the database settings in the shape store.Open takes.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Driver:   c.Database.Driver,
		DSN:      c.Database.DSN,
		MaxConns: c.Database.MaxConns,
	}
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	return []rune(c.CSV.Delimiter)[0]
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// A non-empty configFile replaces the search path.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ledger-import")
		v.AddConfigPath(".ledger-import")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "ledger.db")
	v.SetDefault("database.max_conns", 4)

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("import.default_account", "")
	v.SetDefault("import.date_formats", []string{})

	v.SetDefault("categorization.merchant_patterns_file", "merchant_patterns.yaml")
	v.SetDefault("categorization.rules_file", "rules.yaml")
	v.SetDefault("categorization.learning_enabled", true)

	v.SetDefault("profiles.file", "")

	v.SetDefault("report.format", "text")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if _, err := store.ParseDialect(config.Database.Driver); err != nil {
		return err
	}

	if config.Database.MaxConns < 1 || config.Database.MaxConns > 100 {
		return fmt.Errorf("database.max_conns must be between 1 and 100, got: %d", config.Database.MaxConns)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	for _, layout := range config.Import.DateFormats {
		if strings.TrimSpace(layout) == "" {
			return errors.New("import.date_formats must not contain empty layouts")
		}
	}

	if err := validation.IsValidOutputFormat(config.Report.Format); err != nil {
		return fmt.Errorf("invalid report format: %w", err)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the Config struct
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}
