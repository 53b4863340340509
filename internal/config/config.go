package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/budgetkeeper/internal/catalog"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

// Config holds runtime settings for the budget CLI.
//
// S3Bucket switches backups from BackupDir to an S3 compatible bucket.
// S3AccessKey and S3SecretKey are optional; without them the default AWS
// credential chain is used.
type Config struct {
	DatabasePath       string
	LogLevel           string
	LogFormat          string
	MemberDeletePolicy models.MemberDeletePolicy
	DefaultCurrency    string

	BackupDir     string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3Prefix      string
	PresignExpiry time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "budget.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.MemberDeletePolicy = models.MemberDeleteNullify
	c.DefaultCurrency = "USD"
	c.BackupDir = "backups"
	c.S3Region = "us-east-1"
	c.PresignExpiry = 15 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// UsesS3 reports whether backups go to a bucket instead of BackupDir.
func (c *Config) UsesS3() bool {
	return c.S3Bucket != ""
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.DatabasePath) == "" {
		problems = append(problems, "database path is required")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.LogLevel))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format %q: must be text or json", c.LogFormat))
	}

	if !c.MemberDeletePolicy.Valid() {
		problems = append(problems, fmt.Sprintf("invalid member delete policy %q: must be cascade, nullify or reject", c.MemberDeletePolicy))
	}

	if _, err := catalog.NormalizeCurrency(c.DefaultCurrency); err != nil {
		problems = append(problems, fmt.Sprintf("invalid default currency %q", c.DefaultCurrency))
	}

	if c.UsesS3() {
		if c.S3Region == "" {
			problems = append(problems, "s3 region is required when a bucket is set")
		}
		if (c.S3AccessKey == "") != (c.S3SecretKey == "") {
			problems = append(problems, "s3 access key and secret key must be set together")
		}
		// S3 rejects presigned URLs valid for more than a week.
		if c.PresignExpiry < time.Second || c.PresignExpiry > 7*24*time.Hour {
			problems = append(problems, fmt.Sprintf("invalid presign expiry %v: must be between 1s and 168h", c.PresignExpiry))
		}
	} else if strings.TrimSpace(c.BackupDir) == "" {
		problems = append(problems, "backup directory is required when no bucket is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
