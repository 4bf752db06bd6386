package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Tagger   TaggerConfig
	QA       QAConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Server   ServerConfig
	Worker   WorkerConfig
	Source   SourceConfig
	Log      LogConfig
}

// TaggerConfig holds UDPipe-related configuration
type TaggerConfig struct {
	URL        string
	Model      string
	Timeout    time.Duration
	MaxRetries uint
}

// QAConfig holds question-answering service configuration
type QAConfig struct {
	URL            string
	Timeout        time.Duration
	ScoreThreshold float64
	MaxRetries     uint
}

// DatabaseConfig holds database-related configuration. A DSN starting with
// postgres:// selects pgx, anything else is treated as a SQLite DSN.
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// StorageConfig holds artifact storage configuration
type StorageConfig struct {
	Type        string // "local" or "s3"
	LocalDir    string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Prefix    string
}

// CacheConfig holds tagger response cache configuration
type CacheConfig struct {
	Type     string // "none", "memory" or "redis"
	RedisURL string
	TTL      time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr  string
	InputRoot string
}

// WorkerConfig holds batch queue configuration
type WorkerConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// SourceConfig holds source-reading configuration
type SourceConfig struct {
	PdfToText string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Tagger: TaggerConfig{
			URL:        getEnv("TAGGER_URL", "http://localhost:3000/process"),
			Model:      getEnv("TAGGER_MODEL", "ukrainian-iu-ud-2.10-220711"),
			Timeout:    getEnvAsDuration("TAGGER_TIMEOUT", 60*time.Second),
			MaxRetries: uint(getEnvAsInt("TAGGER_MAX_RETRIES", 3)),
		},
		QA: QAConfig{
			URL:            getEnv("QA_URL", "http://localhost:8000/answer"),
			Timeout:        getEnvAsDuration("QA_TIMEOUT", 30*time.Second),
			ScoreThreshold: getEnvAsFloat64("QA_SCORE_THRESHOLD", 0.1),
			MaxRetries:     uint(getEnvAsInt("QA_MAX_RETRIES", 3)),
		},
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", "file:courtdocs.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Storage: StorageConfig{
			Type:        strings.ToLower(getEnv("STORAGE_TYPE", "local")),
			LocalDir:    getEnv("STORAGE_LOCAL_DIR", "./data/parsed"),
			S3Bucket:    getEnv("S3_BUCKET", ""),
			S3Region:    getEnv("S3_REGION", "eu-central-1"),
			S3Endpoint:  getEnv("S3_ENDPOINT", ""),
			S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey: getEnv("S3_SECRET_KEY", ""),
			S3Prefix:    getEnv("S3_PREFIX", "parsed"),
		},
		Cache: CacheConfig{
			Type:     strings.ToLower(getEnv("CACHE_TYPE", "memory")),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
			TTL:      getEnvAsDuration("CACHE_TTL", 24*time.Hour),
		},
		Server: ServerConfig{
			GRPCAddr:  getEnv("GRPC_ADDR", ":8080"),
			InputRoot: getEnv("INPUT_ROOT", "./data/raw"),
		},
		Worker: WorkerConfig{
			Workers:        getEnvAsInt("WORKERS", 4),
			QueueSize:      getEnvAsInt("QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("PROCESS_TIMEOUT", 5*time.Minute),
		},
		Source: SourceConfig{
			PdfToText: getEnv("PDFTOTEXT_BIN", "pdftotext"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 10),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// IsPostgres reports whether the DSN points at Postgres.
func (d DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(d.DSN, "postgres://") || strings.HasPrefix(d.DSN, "postgresql://")
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("TAGGER_URL", c.Tagger.URL, Required, HTTPURL).
		Field("TAGGER_MODEL", c.Tagger.Model, Required).
		Field("QA_URL", c.QA.URL, Required, HTTPURL).
		Field("QA_SCORE_THRESHOLD", c.QA.ScoreThreshold, Between(0, 1)).
		Field("DB_URL", c.Database.DSN, Required).
		Field("STORAGE_TYPE", c.Storage.Type, OneOf("local", "s3")).
		Field("CACHE_TYPE", c.Cache.Type, OneOf("none", "memory", "redis")).
		Field("WORKERS", c.Worker.Workers, Positive)
	if c.Storage.Type == "s3" {
		v.Field("S3_BUCKET", c.Storage.S3Bucket, Required)
	}
	if c.Cache.Type == "redis" {
		v.Field("REDIS_URL", c.Cache.RedisURL, Required)
	}
	if v.HasErrors() {
		return NewAppError(CodeConfig, v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
