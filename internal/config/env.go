package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

const envPrefix = "BUDGET_"

func getEnv(key string, dst *string) {
	if value := os.Getenv(envPrefix + key); value != "" {
		*dst = value
	}
}

// parseEnv overlays Config with BUDGET_* environment variables. Malformed
// durations are ignored.
func parseEnv(cfg *Config) {
	getEnv("DB", &cfg.DatabasePath)
	getEnv("LOG_LEVEL", &cfg.LogLevel)
	getEnv("LOG_FORMAT", &cfg.LogFormat)
	getEnv("DEFAULT_CURRENCY", &cfg.DefaultCurrency)
	getEnv("BACKUP_DIR", &cfg.BackupDir)
	getEnv("S3_BUCKET", &cfg.S3Bucket)
	getEnv("S3_REGION", &cfg.S3Region)
	getEnv("S3_ENDPOINT", &cfg.S3Endpoint)
	getEnv("S3_ACCESS_KEY", &cfg.S3AccessKey)
	getEnv("S3_SECRET_KEY", &cfg.S3SecretKey)
	getEnv("S3_PREFIX", &cfg.S3Prefix)

	if value := os.Getenv(envPrefix + "MEMBER_DELETE_POLICY"); value != "" {
		cfg.MemberDeletePolicy = models.MemberDeletePolicy(value)
	}
	if value := os.Getenv(envPrefix + "PRESIGN_EXPIRY"); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			cfg.PresignExpiry = d
		}
	}
}
