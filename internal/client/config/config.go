package config

import "time"

// DefaultSessionSecret signs session tokens when nothing else is configured.
// It is fine for a single local install and nothing more.
const DefaultSessionSecret = "gymkeeper-local-session-key"

// Config holds runtime settings for the member CLI.
//
// Units: all intervals are time.Duration. SessionTTL of zero means sessions
// never expire; PaymentDelay is how long the mock gateway takes.
type Config struct {
	StoreDriver string
	StoreDSN    string

	SessionSecret string
	SessionTTL    time.Duration
	HashPasswords bool

	PaymentDelay        time.Duration
	ExpiryCheckInterval time.Duration

	ReceiptsDir    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreDriver = "sqlite"
	c.StoreDSN = "gym.db"
	c.SessionSecret = DefaultSessionSecret
	c.SessionTTL = 0
	c.HashPasswords = false
	c.PaymentDelay = 2 * time.Second
	c.ExpiryCheckInterval = time.Hour
	c.ReceiptsDir = "receipts"
	c.S3Region = "us-east-1"
	c.LogLevel = "info"
}

// UseS3 reports whether receipts go to a bucket instead of ReceiptsDir.
func (c *Config) UseS3() bool {
	return c.S3Bucket != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (.env file and GYM_* variables), JSON (if present) and
// command-line flags (if present). Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
