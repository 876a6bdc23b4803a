package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sac-pickem-go/logging"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Game feed configuration
	Feed FeedConfig `json:"feed"`

	// Application configuration
	App AppConfig `json:"app"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string `json:"port"`
	Host        string `json:"host"`
	Environment string `json:"environment"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string        `json:"host"`
	Port     string        `json:"port"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Database string        `json:"database"`
	Timeout  time.Duration `json:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
}

// FeedConfig holds score/odds feed configuration
type FeedConfig struct {
	OddsAPIKey   string        `json:"odds_api_key"`
	PollInterval time.Duration `json:"poll_interval"`
	ScoreDays    int           `json:"score_days"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	CurrentSeason  int    `json:"current_season"`
	RulesFile      string `json:"rules_file"`
	IsDevelopment  bool   `json:"is_development"`
	UpdaterEnabled bool   `json:"updater_enabled"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Don't treat missing .env as an error
		logging.Warnf("Could not load .env file: %v", err)
	}

	environment := getEnv("ENVIRONMENT", "development")
	isDevelopment := strings.ToLower(environment) == "development"

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Environment: environment,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", "pickem"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "sac_pickem"),
			Timeout:  getDurationEnv("DB_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "debug"),
			Prefix:      getEnv("LOG_PREFIX", "pickem"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
		},
		Feed: FeedConfig{
			OddsAPIKey:   getEnv("ODDS_API_KEY", ""),
			PollInterval: getDurationEnv("FEED_POLL_INTERVAL", 45*time.Second),
			ScoreDays:    getIntEnv("FEED_SCORE_DAYS", 3),
		},
		App: AppConfig{
			CurrentSeason:  getIntEnv("CURRENT_SEASON", 2026),
			RulesFile:      getEnv("RULES_FILE", "rules.yaml"),
			IsDevelopment:  isDevelopment,
			UpdaterEnabled: getBoolEnv("UPDATER_ENABLED", true),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("database port is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Feed.PollInterval < 10*time.Second {
		return fmt.Errorf("feed poll interval must be at least 10s, got: %s", c.Feed.PollInterval)
	}

	if c.App.CurrentSeason < 2020 || c.App.CurrentSeason > 2035 {
		return fmt.Errorf("current season must be between 2020 and 2035, got: %d", c.App.CurrentSeason)
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// GetMongoURI returns the MongoDB connection URI
func (c *Config) GetMongoURI() string {
	if c.Database.Username != "" && c.Database.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=%s",
			c.Database.Username, c.Database.Password,
			c.Database.Host, c.Database.Port,
			c.Database.Database, c.Database.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s",
		c.Database.Host, c.Database.Port, c.Database.Database)
}

// IsFeedConfigured returns true if the odds feed has an API key
func (c *Config) IsFeedConfigured() bool {
	return c.Feed.OddsAPIKey != ""
}

// LogConfiguration logs the current configuration (without sensitive data)
func (c *Config) LogConfiguration() {
	logging.Info("=== Application Configuration ===")
	logging.Infof("Server: %s (Environment: %s)", c.GetServerAddress(), c.Server.Environment)
	logging.Infof("Database: %s:%s/%s (Username: %s, Auth: %t)",
		c.Database.Host, c.Database.Port, c.Database.Database,
		c.Database.Username, c.Database.Password != "")
	logging.Infof("Logging: Level=%s, Prefix=%s, Color=%t",
		c.Logging.Level, c.Logging.Prefix, c.Logging.EnableColor)
	logging.Infof("Feed: Configured=%t, PollInterval=%s, ScoreDays=%d",
		c.IsFeedConfigured(), c.Feed.PollInterval, c.Feed.ScoreDays)
	logging.Infof("App: Season=%d, RulesFile=%s, Development=%t, Updater=%t",
		c.App.CurrentSeason, c.App.RulesFile, c.App.IsDevelopment, c.App.UpdaterEnabled)
	logging.Info("================================")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
