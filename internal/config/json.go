package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/budgetkeeper/internal/flagx"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	DatabasePath       string         `json:"database_path"`
	LogLevel           string         `json:"log_level"`
	LogFormat          string         `json:"log_format"`
	MemberDeletePolicy string         `json:"member_delete_policy"`
	DefaultCurrency    string         `json:"default_currency"`
	BackupDir          string         `json:"backup_dir"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3Endpoint         string         `json:"s3_endpoint"`
	S3AccessKey        string         `json:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key"`
	S3Prefix           string         `json:"s3_prefix"`
	PresignExpiry      timex.Duration `json:"presign_expiry"`
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.DatabasePath, jc.DatabasePath)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
	if jc.MemberDeletePolicy != "" {
		cfg.MemberDeletePolicy = models.MemberDeletePolicy(jc.MemberDeletePolicy)
	}
	setIf(&cfg.DefaultCurrency, jc.DefaultCurrency)
	setIf(&cfg.BackupDir, jc.BackupDir)
	setIf(&cfg.S3Bucket, jc.S3Bucket)
	setIf(&cfg.S3Region, jc.S3Region)
	setIf(&cfg.S3Endpoint, jc.S3Endpoint)
	setIf(&cfg.S3AccessKey, jc.S3AccessKey)
	setIf(&cfg.S3SecretKey, jc.S3SecretKey)
	setIf(&cfg.S3Prefix, jc.S3Prefix)
	if jc.PresignExpiry.Duration != 0 {
		cfg.PresignExpiry = jc.PresignExpiry.Duration
	}
}
