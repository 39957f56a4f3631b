package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server   Server   `mapstructure:"server"`
	Rates    Rates    `mapstructure:"rates"`
	Database Database `mapstructure:"database"`
	Kafka    Kafka    `mapstructure:"kafka"`
}

// Server configuration
type Server struct {
	Port string `mapstructure:"port"`
}

// Rates configuration for the external currency service
type Rates struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Database configuration; an empty URL selects the in-memory ledger
type Database struct {
	URL string `mapstructure:"url"`
}

// Kafka configuration; empty brokers select the in-process publisher
type Kafka struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// LoadConfig loads configuration from YAML file
// Uses CONFIG_ENV environment variable to determine which config file to load
func LoadConfig(configDir string) (*Config, error) {
	configEnv := os.Getenv("CONFIG_ENV")
	if configEnv == "" {
		configEnv = "local"
	}

	// Load base app-config.yaml as template/defaults (if it exists)
	baseConfigPath := fmt.Sprintf("%s/app-config.yaml", configDir)
	baseConfigExists := false
	if _, err := os.Stat(baseConfigPath); err == nil {
		viper.SetConfigFile(baseConfigPath)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read base config file: %w", err)
		}
		baseConfigExists = true
	}

	// Load environment-specific config (e.g., local.yaml when CONFIG_ENV=local)
	envConfigPath := fmt.Sprintf("%s/%s.yaml", configDir, configEnv)
	if _, err := os.Stat(envConfigPath); err == nil {
		if baseConfigExists {
			// Merge environment config on top of base config
			viper.SetConfigFile(envConfigPath)
			if err := viper.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to merge env config file: %w", err)
			}
		} else {
			viper.SetConfigFile(envConfigPath)
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read env config file: %w", err)
			}
		}
	}

	// Also read from environment variables (with prefix)
	viper.SetEnvPrefix("CENTAVO")
	viper.AutomaticEnv()

	// Bind environment variables
	viper.BindEnv("server.port", "CENTAVO_SERVER_PORT", "PORT")
	viper.BindEnv("rates.endpoint", "CENTAVO_RATES_ENDPOINT", "RATES_ENDPOINT")
	viper.BindEnv("rates.timeout", "CENTAVO_RATES_TIMEOUT", "RATES_TIMEOUT")
	viper.BindEnv("database.url", "CENTAVO_DATABASE_URL", "DATABASE_URL")
	viper.BindEnv("kafka.brokers", "CENTAVO_KAFKA_BROKERS", "KAFKA_BROKERS")
	viper.BindEnv("kafka.topic", "CENTAVO_KAFKA_TOPIC", "KAFKA_TOPIC")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults if not provided
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Rates.Endpoint == "" {
		cfg.Rates.Endpoint = "https://fake-api.apps.berlintech.ai/api/currency_exchange"
	}
	if cfg.Rates.Timeout == 0 {
		cfg.Rates.Timeout = 10 * time.Second
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "centavo.transactions"
	}

	// Handle rates timeout from string (e.g., "10s", "1m")
	if timeoutStr := viper.GetString("rates.timeout"); timeoutStr != "" {
		if parsed, err := time.ParseDuration(timeoutStr); err == nil {
			cfg.Rates.Timeout = parsed
		}
	}

	return &cfg, nil
}
