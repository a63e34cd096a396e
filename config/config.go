package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the service configuration, read from a YAML file whose values may
// reference environment variables (${JWT_SECRET} etc).
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Auth     AuthConfig     `yaml:"auth"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	// LegacyIDs adds an "_id" alias next to every "id" in responses.
	LegacyIDs      bool     `yaml:"legacy_ids"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver        string `yaml:"driver"`
	DSN           string `yaml:"dsn"`
	MigrationsDir string `yaml:"migrations_dir"`
}

type CacheConfig struct {
	Type           string `yaml:"type"`
	RedisAddr      string `yaml:"redis_addr"`
	RedisPassword  string `yaml:"redis_password"`
	RedisDB        int    `yaml:"redis_db"`
	ListTTLSeconds int    `yaml:"list_ttl_seconds"`
	ItemTTLSeconds int    `yaml:"item_ttl_seconds"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	OTPTTLMinutes int    `yaml:"otp_ttl_minutes"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
	// DevMode returns the reset code in the response when mail delivery fails.
	DevMode bool `yaml:"dev_mode"`
}

// Default returns the configuration used for any value the file leaves out.
func Default() Config {
	return Config{
		App: AppConfig{
			Name:        "hoyspace-api",
			Environment: "development",
		},
		Server: ServerConfig{
			Port:      "8080",
			LegacyIDs: true,
		},
		Database: DatabaseConfig{
			Driver:        "sqlite3",
			DSN:           "file:hoyspace.db?_foreign_keys=on",
			MigrationsDir: "./database/migrations/sqlite",
		},
		Cache: CacheConfig{
			Type:           "redis",
			RedisAddr:      "localhost:6379",
			ListTTLSeconds: 300,
			ItemTTLSeconds: 600,
		},
		Auth: AuthConfig{
			TokenTTLHours: 24 * 30,
			OTPTTLMinutes: 10,
			BcryptCost:    10,
		},
	}
}

// Load reads .env (if present) and then the YAML file at path. A missing file
// is not an error: defaults plus environment are used instead.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret (or JWT_SECRET) is required")
	}
	switch c.Database.Driver {
	case "sqlite3", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost %d out of range", c.Auth.BcryptCost)
	}
	return nil
}
