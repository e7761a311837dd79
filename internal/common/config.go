package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// PDF text backends.
const (
	PDFBackendPDFToText = "pdftotext"
	PDFBackendNative    = "native"
	PDFBackendAuto      = "auto"
)

// Config holds all application configuration
type Config struct {
	LogLevel slog.Level
	Database DatabaseConfig
	Server   ServerConfig
	Extract  ExtractConfig
	Ingest   IngestConfig
	Queue    QueueConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
}

// ExtractConfig controls how documents become text or grids.
type ExtractConfig struct {
	PDFToTextBin string
	PDFBackend   string
	MaxFileBytes int64
	Timeout      time.Duration
}

// IngestConfig controls directory watching.
type IngestConfig struct {
	WatchDirs []string
	Debounce  time.Duration
}

// QueueConfig sizes the background processing queue.
type QueueConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables win.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		LogLevel: getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		},
		Extract: ExtractConfig{
			PDFToTextBin: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			PDFBackend:   strings.ToLower(getEnv("PDF_BACKEND", PDFBackendAuto)),
			MaxFileBytes: getEnvAsInt64("MAX_FILE_BYTES", 32<<20),
			Timeout:      getEnvAsDuration("EXTRACT_TIMEOUT", 60*time.Second),
		},
		Ingest: IngestConfig{
			WatchDirs: getEnvAsList("WATCH_DIRS"),
			Debounce:  getEnvAsDuration("WATCH_DEBOUNCE", 750*time.Millisecond),
		},
		Queue: QueueConfig{
			Workers:        getEnvAsInt("WORKERS", 2),
			QueueSize:      getEnvAsInt("QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("PROCESS_TIMEOUT", 2*time.Minute),
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
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

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(value)); err == nil {
			return lvl
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the settings every binary needs.
func (c *Config) Validate() error {
	switch c.Extract.PDFBackend {
	case PDFBackendPDFToText, PDFBackendNative, PDFBackendAuto:
	default:
		return NewAppError("CONFIG_ERROR", "PDF_BACKEND must be pdftotext, native or auto", ErrInvalidInput)
	}
	if c.Extract.MaxFileBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_FILE_BYTES must be positive", ErrInvalidInput)
	}
	if c.Queue.Workers <= 0 || c.Queue.QueueSize <= 0 {
		return NewAppError("CONFIG_ERROR", "WORKERS and QUEUE_SIZE must be positive", ErrInvalidInput)
	}
	return nil
}

// ValidateServer additionally checks what the daemon needs.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	return nil
}
