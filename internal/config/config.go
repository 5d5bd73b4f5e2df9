package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis (asynq backend)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JwtSecret string
	JwtTTL    time.Duration

	// Server
	ApiPort string

	// Email
	SmtpHost        string
	SmtpPort        int
	SmtpUsername    string
	SmtpPassword    string
	SmtpFromAddress string

	// AWS S3
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string

	// App Defaults
	AppName            string
	DefaultPageSize    int
	MaxUploadSizeBytes int64

	// Retention purge for soft-deleted inquiries
	PurgeRetention     time.Duration
	PurgeSweepInterval time.Duration

	// Rate Limiting Defaults
	RateLimitBucketSize int
	RateLimitRefillRate int // tokens per second
}

// Load reads configuration from the environment (optionally via a .env file)
// and returns a populated Config. Required variables cause an error here so
// startup fails fast rather than mid-request.
func Load(runMode string) (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{RunMode: runMode}

	cfg.MongoURI = os.Getenv("MONGO_URI")
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "lodgekeep")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = redisDB

	cfg.JwtSecret = os.Getenv("JWT_SECRET")
	if cfg.JwtSecret == "" && runMode != "bg" {
		return nil, fmt.Errorf("JWT_SECRET is required in %q mode", runMode)
	}
	cfg.JwtTTL, err = getEnvDuration("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg.ApiPort = getEnv("API_PORT", "8080")

	cfg.SmtpHost = os.Getenv("SMTP_HOST")
	cfg.SmtpPort, err = getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	cfg.SmtpUsername = os.Getenv("SMTP_USERNAME")
	cfg.SmtpPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SmtpFromAddress = getEnv("SMTP_FROM_ADDRESS", "no-reply@lodgekeep.local")

	cfg.AwsAccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.AwsSecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	cfg.AwsRegion = getEnv("AWS_REGION", "ap-southeast-1")
	cfg.AwsS3Bucket = os.Getenv("AWS_S3_BUCKET")
	if cfg.AwsS3Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required")
	}

	cfg.AppName = getEnv("APP_NAME", "LodgeKeep")
	cfg.DefaultPageSize, err = getEnvInt("DEFAULT_PAGE_SIZE", 10)
	if err != nil {
		return nil, err
	}
	maxUploadMB, err := getEnvInt("MAX_UPLOAD_SIZE_MB", 2)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadSizeBytes = int64(maxUploadMB) << 20

	cfg.PurgeRetention, err = getEnvDuration("PURGE_RETENTION", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.PurgeSweepInterval, err = getEnvDuration("PURGE_SWEEP_INTERVAL", 6*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg.RateLimitBucketSize, err = getEnvInt("RATE_LIMIT_BUCKET_SIZE", 20)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitRefillRate, err = getEnvInt("RATE_LIMIT_REFILL_RATE", 5)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q", key, v)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, v)
	}
	return d, nil
}
