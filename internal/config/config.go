package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultAppEnv        = "dev"
	defaultHTTPAddr      = ":8080"
	defaultDatabaseURL   = "artisthub.db"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTTTL        = "24h"
	defaultStorageDriver = StorageLocal
	defaultLocalDir      = "./storage/public"
	defaultPublicURL     = "http://localhost:8080/storage"
	defaultCORSOrigins   = "http://localhost:3000,http://127.0.0.1:3000,https://gulf-coast.vercel.app,https://gulf.sardaritskillshare.com"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

type Config struct {
	AppEnv      string `yaml:"appEnv"`
	HTTPAddr    string `yaml:"httpAddr"`
	DatabaseURL string `yaml:"databaseURL"`

	JWTSecret string        `yaml:"jwtSecret"`
	JWTTTL    time.Duration `yaml:"jwtTTL"`

	Storage StorageConfig `yaml:"storage"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`

	CORSAllowedOrigins []string `yaml:"corsAllowedOrigins"`
}

type StorageConfig struct {
	Driver    string `yaml:"driver"`
	LocalDir  string `yaml:"localDir"`
	PublicURL string `yaml:"publicURL"`

	MinioEndpoint  string `yaml:"minioEndpoint"`
	MinioAccessKey string `yaml:"minioAccessKey"`
	MinioSecretKey string `yaml:"minioSecretKey"`
	MinioBucket    string `yaml:"minioBucket"`
	MinioUseSSL    bool   `yaml:"minioUseSSL"`
}

// Load builds the runtime config. Precedence: environment > CONFIG_FILE (yaml) > defaults.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s addr=%s storage=%s redis=%t", cfg.AppEnv, cfg.HTTPAddr, cfg.Storage.Driver, cfg.RedisAddr != "")

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", orDefault(cfg.AppEnv, defaultAppEnv))))
	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", orDefault(cfg.HTTPAddr, defaultHTTPAddr)))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", orDefault(cfg.DatabaseURL, defaultDatabaseURL)))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", orDefault(cfg.JWTSecret, defaultJWTSecret)))

	ttlFallback := defaultJWTTTL
	if cfg.JWTTTL > 0 {
		ttlFallback = cfg.JWTTTL.String()
	}
	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", ttlFallback)
	if err != nil {
		return err
	}

	s := &cfg.Storage
	s.Driver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", orDefault(s.Driver, defaultStorageDriver))))
	s.LocalDir = strings.TrimSpace(getEnv("STORAGE_LOCAL_DIR", orDefault(s.LocalDir, defaultLocalDir)))
	s.PublicURL = strings.TrimRight(strings.TrimSpace(getEnv("STORAGE_PUBLIC_URL", orDefault(s.PublicURL, defaultPublicURL))), "/")
	s.MinioEndpoint = strings.TrimSpace(getEnv("MINIO_ENDPOINT", s.MinioEndpoint))
	s.MinioAccessKey = strings.TrimSpace(getEnv("MINIO_ACCESS_KEY", s.MinioAccessKey))
	s.MinioSecretKey = strings.TrimSpace(getEnv("MINIO_SECRET_KEY", s.MinioSecretKey))
	s.MinioBucket = strings.TrimSpace(getEnv("MINIO_BUCKET", s.MinioBucket))
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		s.MinioUseSSL = parseBool(v)
	}

	cfg.RedisAddr = strings.TrimSpace(getEnv("REDIS_ADDR", cfg.RedisAddr))
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitCSV(v)
	} else if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = splitCSV(defaultCORSOrigins)
	}

	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}

	switch cfg.Storage.Driver {
	case StorageLocal:
		if cfg.Storage.LocalDir == "" {
			return fmt.Errorf("STORAGE_LOCAL_DIR must not be empty")
		}
	case StorageMinio:
		if cfg.Storage.MinioEndpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required for STORAGE_DRIVER=minio")
		}
		if cfg.Storage.MinioAccessKey == "" || cfg.Storage.MinioSecretKey == "" {
			return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for STORAGE_DRIVER=minio")
		}
		if cfg.Storage.MinioBucket == "" {
			return fmt.Errorf("MINIO_BUCKET is required for STORAGE_DRIVER=minio")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: local, minio")
	}
	if cfg.Storage.PublicURL == "" {
		return fmt.Errorf("STORAGE_PUBLIC_URL must not be empty")
	}

	if cfg.IsProduction() {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}

	return nil
}

// IsProduction reports whether internal error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBool(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
