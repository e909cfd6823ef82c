package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gymkeeper/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv overlays Config with GYM_* variables.
//
// Variables come from the process environment and from a dotenv file: the
// one named by -e/-env, or ./.env when present. A variable set in the real
// environment wins over the file. A missing explicit file, or a value that
// does not parse, panics like the other loaders.
func parseEnv(cfg *Config) {
	path := flagx.EnvFileFlags()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	fileVars, err := godotenv.Read(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		fileVars = map[string]string{}
	}

	applyEnv(cfg, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	})
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("GYM_STORE_DRIVER", &cfg.StoreDriver)
	str("GYM_STORE_DSN", &cfg.StoreDSN)
	str("GYM_SESSION_SECRET", &cfg.SessionSecret)
	dur("GYM_SESSION_TTL", &cfg.SessionTTL)
	dur("GYM_PAYMENT_DELAY", &cfg.PaymentDelay)
	dur("GYM_EXPIRY_CHECK_INTERVAL", &cfg.ExpiryCheckInterval)
	str("GYM_RECEIPTS_DIR", &cfg.ReceiptsDir)
	str("GYM_S3_BUCKET", &cfg.S3Bucket)
	str("GYM_S3_REGION", &cfg.S3Region)
	str("GYM_S3_ENDPOINT", &cfg.S3BaseEndpoint)
	str("GYM_S3_ACCESS_KEY", &cfg.S3AccessKey)
	str("GYM_S3_SECRET_KEY", &cfg.S3SecretKey)
	str("GYM_LOG_LEVEL", &cfg.LogLevel)

	if v, ok := lookup("GYM_HASH_PASSWORDS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.HashPasswords = b
	}
}
