package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App       AppConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	S3        S3Config
	Migration MigrationConfig
	Queue     QueueConfig
	Kafka     KafkaConfig
	Seed      SeedConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name          string
	Environment   string // development, test, staging, production
	Port          string
	Version       string
	LogLevel      string
	AutoMigrate   bool
	ShutdownGrace time.Duration
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// StorageConfig selects the image backend and the local upload root.
type StorageConfig struct {
	Driver         string // local | s3
	UploadPath     string
	MaxUploadBytes int64
}

// S3Config points at AWS S3 or any S3 compatible store such as MinIO.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PublicURL string
}

type MigrationConfig struct {
	LegacyEnabled      bool
	LegacyFixturesPath string
	LegacyImgPath      string
}

type QueueConfig struct {
	Concurrency int
	S3SyncCron  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type SeedConfig struct {
	Enabled bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:          getEnv("APP_NAME", "Catalog API"),
			Environment:   getEnv("APP_ENV", "development"),
			Port:          getEnv("APP_PORT", "8080"),
			Version:       getEnv("APP_VERSION", "1.0.0"),
			LogLevel:      getEnv("LOG_LEVEL", "info"),
			AutoMigrate:   getEnvBool("DB_AUTO_MIGRATE", true),
			ShutdownGrace: getEnvDuration("SHUTDOWN_GRACE", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", defaultJWTSecret),
			Expiration: getEnvDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			UploadPath:     getEnv("UPLOAD_PATH", "./uploads/images"),
			MaxUploadBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20)),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", "s3.amazonaws.com"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Bucket:    getEnv("S3_BUCKET", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			UseSSL:    getEnvBool("S3_USE_SSL", true),
			PublicURL: getEnv("S3_PUBLIC_URL", ""),
		},
		Migration: MigrationConfig{
			LegacyEnabled:      getEnvBool("LEGACY_MIGRATION_ENABLED", false),
			LegacyFixturesPath: getEnv("LEGACY_FIXTURES_PATH", ""),
			LegacyImgPath:      getEnv("LEGACY_IMG_PATH", ""),
		},
		Queue: QueueConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 5),
			S3SyncCron:  getEnv("S3_SYNC_CRON", ""),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "catalog_events"),
		},
		Seed: SeedConfig{
			Enabled: getEnvBool("SEED_ENABLED", true),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations the services cannot run with.
func (c *Config) Validate() error {
	if c.App.Environment == "production" && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.S3.Bucket == "" || c.S3.Region == "" {
			return fmt.Errorf("S3_BUCKET and S3_REGION are required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want local or s3)", c.Storage.Driver)
	}

	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}

	if c.Queue.S3SyncCron != "" {
		if _, err := cron.ParseStandard(c.Queue.S3SyncCron); err != nil {
			return fmt.Errorf("invalid S3_SYNC_CRON %q: %w", c.Queue.S3SyncCron, err)
		}
	}

	return nil
}

// S3Enabled reports whether an S3 backend can be built, either as the
// primary store or as the migration target.
func (c *Config) S3Enabled() bool {
	return c.S3.Bucket != ""
}

func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
