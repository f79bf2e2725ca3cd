package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Database  string   `mapstructure:"database"`
	CachePath string   `mapstructure:"cache_path"`
	NoCache   bool     `mapstructure:"no_cache"`
	Workers   int      `mapstructure:"workers"`
	Filter    []string `mapstructure:"filter"`
	LogLevel  string   `mapstructure:"log_level"`
	LogFormat string   `mapstructure:"log_format"`
}

// Load initializes and loads configuration from file
func Load(cfgFile string) (*Config, error) {
	// Set defaults
	viper.SetDefault("database", "dbpfkit.db")
	viper.SetDefault("workers", 16)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")

	// Config file handling
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName("dbpfkit")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DBPFKIT")
	viper.AutomaticEnv()

	// Read config file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("invalid worker configuration: count must be at least 1, got %d", cfg.Workers)
	}

	// Validate filter entries if provided
	if _, err := FilterTypes(cfg.Filter); err != nil {
		return nil, fmt.Errorf("invalid filter configuration: %w", err)
	}

	return &cfg, nil
}
