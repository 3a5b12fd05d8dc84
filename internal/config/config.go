package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultConfigPath is used when PORTAL_CONFIG is not set
const DefaultConfigPath = "configs/config.yaml"

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver            string `yaml:"driver" env:"DB_DRIVER"`
		Path              string `yaml:"path" env:"DB_PATH"` // sqlite store file
		Host              string `yaml:"host" env:"DB_HOST"`
		Port              string `yaml:"port" env:"DB_PORT"`
		User              string `yaml:"user" env:"DB_USER"`
		Password          string `yaml:"password" env:"DB_PASSWORD"`
		DBName            string `yaml:"dbname" env:"DB_NAME"`
		SSLMode           string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns      int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns      int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime   string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		SeedSampleCourses bool   `yaml:"seed_sample_courses" env:"DB_SEED_SAMPLE_COURSES"`
	} `yaml:"database"`

	Session struct {
		Secret     string `yaml:"secret" env:"SESSION_SECRET"`
		TTL        string `yaml:"ttl" env:"SESSION_TTL"`
		CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		Secure     bool   `yaml:"secure" env:"SESSION_SECURE"`
	} `yaml:"session"`

	Admin struct {
		Secret     string `yaml:"secret" env:"ADMIN_SECRET"`
		SecretHash string `yaml:"secret_hash" env:"ADMIN_SECRET_HASH"` // bcrypt, wins over Secret
	} `yaml:"admin"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// ResolvePath returns the config file path from PORTAL_CONFIG or the default.
func ResolvePath() string {
	if p := strings.TrimSpace(os.Getenv("PORTAL_CONFIG")); p != "" {
		return p
	}
	return DefaultConfigPath
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// A missing file is fine, defaults and env still apply
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"

	config.Database.Driver = DriverSQLite
	config.Database.Path = "portal.db"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "courseportal"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.SeedSampleCourses = true

	config.Session.TTL = "12h"
	config.Session.CookieName = "portal_session"

	config.Admin.Secret = "admin123"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverSQLite:
		if strings.TrimSpace(config.Database.Path) == "" {
			return fmt.Errorf("database path is required for the sqlite driver")
		}
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid connection max lifetime: %w", err)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}
	if config.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}
	if _, err := time.ParseDuration(config.Session.TTL); err != nil {
		return fmt.Errorf("invalid session ttl format: %w", err)
	}

	if config.Admin.Secret == "" && config.Admin.SecretHash == "" {
		return fmt.Errorf("admin secret or secret hash is required")
	}

	for name, value := range map[string]string{
		"server read timeout":  config.Server.ReadTimeout,
		"server write timeout": config.Server.WriteTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
