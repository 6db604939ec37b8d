package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAddr        = ":8080"
	defaultDatabaseURL = "file:rehearse.db?_pragma=foreign_keys(1)"
	defaultJWTSecret   = "change-me-jwt-secret"
	defaultJWTTTL      = "24h"
	defaultUploadDir   = "./uploads"
	defaultMaxFileSize = 10 * 1024 * 1024
	defaultMaxBatch    = 10
)

// Config holds the runtime configuration for the API server.
// Upload limits are process-wide constants loaded once at startup,
// never tunable per request.
type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSecret     string
	JWTTTL        time.Duration
	UploadDir     string
	MaxFileSize   int64
	MaxBatchFiles int
}

func Load() (*Config, error) {
	cfg := &Config{
		Addr:        getEnv("ADDR", defaultAddr),
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),
		JWTSecret:   strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		UploadDir:   getEnv("UPLOAD_DIR", defaultUploadDir),
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", defaultJWTTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	cfg.MaxFileSize, err = parseInt64Env("MAX_FILE_SIZE", defaultMaxFileSize)
	if err != nil {
		return nil, err
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	maxBatch, err := parseInt64Env("MAX_BATCH_FILES", defaultMaxBatch)
	if err != nil {
		return nil, err
	}
	if maxBatch <= 0 {
		return nil, fmt.Errorf("MAX_BATCH_FILES must be positive")
	}
	cfg.MaxBatchFiles = int(maxBatch)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt64Env(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
