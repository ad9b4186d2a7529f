// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`

	// File paths
	StoragePath  string `mapstructure:"storagepath"`
	DatabaseName string `mapstructure:"-"` // Derived from other settings

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Database settings
	DatabaseMaxOpenConns int `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int `mapstructure:"dbmaxidleconns"`

	// Event store settings
	RetentionCap          int `mapstructure:"retentioncap"`
	SessionTimeoutSeconds int `mapstructure:"sessiontimeoutseconds"`

	// Suggested dashboard refresh cadence. The engine never schedules itself;
	// hosts poll the query API on their own timer.
	RefreshIntervalSeconds int `mapstructure:"refreshintervalseconds"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		// Set defaults
		v.SetDefault("appname", "glance")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("storagepath", "storage")
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)
		v.SetDefault("retentioncap", 50000)
		v.SetDefault("sessiontimeoutseconds", 1800)
		v.SetDefault("refreshintervalseconds", 10)

		// Bind environment variables
		v.BindEnv("appname", "GLANCE_APP_NAME")
		v.BindEnv("appport", "GLANCE_APP_PORT")
		v.BindEnv("environment", "GLANCE_ENV")
		v.BindEnv("loglevel", "GLANCE_LOG_LEVEL")
		v.BindEnv("storagepath", "GLANCE_STORAGE_PATH")
		v.BindEnv("logsdir", "GLANCE_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "GLANCE_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "GLANCE_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "GLANCE_LOGS_MAX_AGE_IN_DAYS")
		v.BindEnv("dbmaxopenconns", "GLANCE_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "GLANCE_DB_MAX_IDLE_CONNS")
		v.BindEnv("retentioncap", "GLANCE_RETENTION_CAP")
		v.BindEnv("sessiontimeoutseconds", "GLANCE_SESSION_TIMEOUT_SECONDS")
		v.BindEnv("refreshintervalseconds", "GLANCE_REFRESH_INTERVAL_SECONDS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		// Validate
		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		// Set derived values
		cfg.DatabaseName = cfg.GetDatabasePath()
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	if c.RetentionCap <= 0 {
		return fmt.Errorf("invalid retention cap: %d", c.RetentionCap)
	}

	return nil
}

// GetDatabasePath returns the appropriate database path based on environment
func (c *Config) GetDatabasePath() string {
	if c.DatabaseName == "" {
		c.DatabaseName = filepath.Join(c.StoragePath,
			fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
	}
	return c.DatabaseName
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetMaxOpenConns returns the appropriate MaxOpenConns value based on environment.
// If explicitly set via env var, uses that value. Otherwise:
// - Test: 1 (required for test stability with a shared sqlite file)
// - Development/Production: 10 (allows concurrent reads for parallel queries)
func (c *Config) GetMaxOpenConns() int {
	if c.DatabaseMaxOpenConns > 0 {
		return c.DatabaseMaxOpenConns
	}

	if c.Environment == Test {
		return 1
	}

	return 10
}

// GetMaxIdleConns returns the appropriate MaxIdleConns value based on environment
func (c *Config) GetMaxIdleConns() int {
	if c.DatabaseMaxIdleConns > 0 {
		return c.DatabaseMaxIdleConns
	}

	if c.Environment == Test {
		return 1
	}

	return 5
}

// GetSessionTimeout returns the visitor session timeout in seconds.
// A session identity older than this is rotated on the next event.
func (c *Config) GetSessionTimeout() int {
	return c.SessionTimeoutSeconds
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
