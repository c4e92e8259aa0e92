package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Workspace WorkspaceConfig `yaml:"workspace" toml:"workspace"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
	Lock      LockConfig      `yaml:"lock" toml:"lock"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler" toml:"scheduler"`
	Import    ImportConfig    `yaml:"import" toml:"import"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host               string   `yaml:"host" toml:"host"`
	Port               int      `yaml:"port" toml:"port"`
	ReadTimeoutSeconds int      `yaml:"read_timeout_seconds" toml:"read_timeout_seconds"`
	AllowedOrigins     []string `yaml:"allowed_origins" toml:"allowed_origins"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	User     string `yaml:"user" toml:"user"`
	Password string `yaml:"password" toml:"password"`
	Database string `yaml:"database" toml:"database"`
	SSLMode  string `yaml:"ssl_mode" toml:"ssl_mode"`
}

// WorkspaceConfig controls where in-progress POS work is kept
type WorkspaceConfig struct {
	Backend       string `yaml:"backend" toml:"backend"` // "sqlite" or "memory"
	Path          string `yaml:"path" toml:"path"`
	RetentionDays int    `yaml:"retention_days" toml:"retention_days"`
}

// AuthConfig contains token settings and the first account manager
type AuthConfig struct {
	JWTSecret          string `yaml:"jwt_secret" toml:"jwt_secret"`
	AccessTokenMinutes int    `yaml:"access_token_expiry_minutes" toml:"access_token_expiry_minutes"`
	BootstrapName      string `yaml:"bootstrap_name" toml:"bootstrap_name"`
	BootstrapEmail     string `yaml:"bootstrap_email" toml:"bootstrap_email"`
	BootstrapPassword  string `yaml:"bootstrap_password" toml:"bootstrap_password"`
}

// LockConfig selects how concurrent report submissions are de-duplicated
type LockConfig struct {
	Backend       string `yaml:"backend" toml:"backend"` // "memory" or "redis"
	RedisAddr     string `yaml:"redis_addr" toml:"redis_addr"`
	RedisPassword string `yaml:"redis_password" toml:"redis_password"`
	RedisDB       int    `yaml:"redis_db" toml:"redis_db"`
	TTLSeconds    int    `yaml:"ttl_seconds" toml:"ttl_seconds"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" toml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	PruneWorkspaces string `yaml:"prune_workspaces" toml:"prune_workspaces"`
}

// ImportConfig bounds spreadsheet uploads
type ImportConfig struct {
	MaxUploadMB int64 `yaml:"max_upload_mb" toml:"max_upload_mb"`
}

// Load reads configuration from a YAML or TOML file. Values from a .env file
// next to the working directory and from the environment take precedence.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := decode(configPath, data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		fmt.Sscanf(val, "%d", dst)
	}
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	envString("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)

	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)

	envString("WORKSPACE_BACKEND", &c.Workspace.Backend)
	envString("WORKSPACE_DB_PATH", &c.Workspace.Path)

	envString("JWT_SECRET", &c.Auth.JWTSecret)
	envString("BOOTSTRAP_EMAIL", &c.Auth.BootstrapEmail)
	envString("BOOTSTRAP_PASSWORD", &c.Auth.BootstrapPassword)

	envString("LOCK_BACKEND", &c.Lock.Backend)
	envString("REDIS_ADDR", &c.Lock.RedisAddr)
	envString("REDIS_PASSWORD", &c.Lock.RedisPassword)

	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 30
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.Auth.AccessTokenMinutes == 0 {
		c.Auth.AccessTokenMinutes = 60
	}

	switch c.Workspace.Backend {
	case "":
		c.Workspace.Backend = "sqlite"
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown workspace backend: %s", c.Workspace.Backend)
	}
	if c.Workspace.Path == "" {
		c.Workspace.Path = "data/workspaces.db"
	}
	if c.Workspace.RetentionDays == 0 {
		c.Workspace.RetentionDays = 30
	}

	switch c.Lock.Backend {
	case "":
		c.Lock.Backend = "memory"
	case "memory":
	case "redis":
		if c.Lock.RedisAddr == "" {
			return fmt.Errorf("redis address is required for the redis lock backend")
		}
	default:
		return fmt.Errorf("unknown lock backend: %s", c.Lock.Backend)
	}
	if c.Lock.TTLSeconds == 0 {
		c.Lock.TTLSeconds = 30
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Scheduler.PruneWorkspaces == "" {
		c.Scheduler.PruneWorkspaces = "0 0 3 * * *" // 3 AM UTC
	}

	if c.Import.MaxUploadMB == 0 {
		c.Import.MaxUploadMB = 10
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) LockTTL() time.Duration {
	return time.Duration(c.Lock.TTLSeconds) * time.Second
}

func (c *Config) WorkspaceRetention() time.Duration {
	return time.Duration(c.Workspace.RetentionDays) * 24 * time.Hour
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.Auth.AccessTokenMinutes) * time.Minute
}
