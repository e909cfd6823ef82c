package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gymkeeper/internal/flagx"
	"github.com/dmitrijs2005/gymkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Durations use timex.Duration, so "2s" and integer nanoseconds both work.
type JsonConfig struct {
	StoreDriver         string         `json:"store_driver"`
	StoreDSN            string         `json:"store_dsn"`
	SessionSecret       string         `json:"session_secret"`
	SessionTTL          timex.Duration `json:"session_ttl"`
	HashPasswords       *bool          `json:"hash_passwords"`
	PaymentDelay        timex.Duration `json:"payment_delay"`
	ExpiryCheckInterval timex.Duration `json:"expiry_check_interval"`
	ReceiptsDir         string         `json:"receipts_dir"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
	S3AccessKey         string         `json:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// Only keys present with a non-zero value override what is already set.
// Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
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

	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setDur := func(dst *time.Duration, v timex.Duration) {
		if v.Duration != 0 {
			*dst = v.Duration
		}
	}

	setStr(&cfg.StoreDriver, jc.StoreDriver)
	setStr(&cfg.StoreDSN, jc.StoreDSN)
	setStr(&cfg.SessionSecret, jc.SessionSecret)
	setDur(&cfg.SessionTTL, jc.SessionTTL)
	setDur(&cfg.PaymentDelay, jc.PaymentDelay)
	setDur(&cfg.ExpiryCheckInterval, jc.ExpiryCheckInterval)
	setStr(&cfg.ReceiptsDir, jc.ReceiptsDir)
	setStr(&cfg.S3Bucket, jc.S3Bucket)
	setStr(&cfg.S3Region, jc.S3Region)
	setStr(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setStr(&cfg.S3AccessKey, jc.S3AccessKey)
	setStr(&cfg.S3SecretKey, jc.S3SecretKey)
	setStr(&cfg.LogLevel, jc.LogLevel)
	if jc.HashPasswords != nil {
		cfg.HashPasswords = *jc.HashPasswords
	}
}
