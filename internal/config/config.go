package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"parkify/internal/models"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	API        APIConfig        `yaml:"api"`
	Pagination PaginationConfig `yaml:"pagination"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type StorageConfig struct {
	FilesDir     string `yaml:"files_dir"`
	HashKey      string `yaml:"hash_key"`
	BlockKey     string `yaml:"block_key"`
	SignedURLTTL int    `yaml:"signed_url_ttl"` // seconds
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type APIConfig struct {
	Port            int                `yaml:"port"`
	PrincipalHeader string             `yaml:"principal_header"`
	Auth            APIAuthConfig      `yaml:"auth"`
	RateLimit       APIRateLimitConfig `yaml:"rate_limit"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// PageConfig holds one endpoint family's pagination defaults.
type PageConfig struct {
	Limit    int    `yaml:"limit"`
	MaxLimit int    `yaml:"max_limit"`
	Ordering string `yaml:"ordering"`
}

type PaginationConfig struct {
	Spots    PageConfig `yaml:"spots"`
	Bookings PageConfig `yaml:"bookings"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// Optional .env next to the binary; the YAML may reference its values.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Storage.HashKey == "" {
		return errors.New("storage hash key is required")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "parkify"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.API.PrincipalHeader == "" {
		c.API.PrincipalHeader = "x-user-id"
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Storage.SignedURLTTL <= 0 {
		c.Storage.SignedURLTTL = models.DefaultSignedURLTTL
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	applyPageDefaults(&c.Pagination.Spots)
	applyPageDefaults(&c.Pagination.Bookings)
}

func applyPageDefaults(p *PageConfig) {
	if p.Limit <= 0 {
		p.Limit = models.DefaultPageSize
	}
	if p.MaxLimit <= 0 {
		p.MaxLimit = models.MaxPageSize
	}
	if p.Ordering == "" {
		p.Ordering = "rate_per_hour"
	}
}
