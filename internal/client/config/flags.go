package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gymkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-d string   store driver: sqlite or postgres
//	-s string   store DSN (SQLite file or PostgreSQL URL)
//	-k string   session signing secret
//	-p int      mock payment delay (seconds)
//	-i int      membership expiry check interval (seconds)
//	-l string   log level: debug, info, warn, error
//	-r string   local receipts directory
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// loaders (-c, -e) do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-k", "-p", "-i", "-l", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreDriver, "d", cfg.StoreDriver, "record store driver (sqlite, postgres)")
	fs.StringVar(&cfg.StoreDSN, "s", cfg.StoreDSN, "record store DSN")
	fs.StringVar(&cfg.SessionSecret, "k", cfg.SessionSecret, "session signing secret")
	paymentDelay := fs.Int("p", int(cfg.PaymentDelay.Seconds()), "mock payment delay (in seconds)")
	expiryInterval := fs.Int("i", int(cfg.ExpiryCheckInterval.Seconds()), "membership expiry check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.ReceiptsDir, "r", cfg.ReceiptsDir, "receipts directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PaymentDelay = time.Duration(*paymentDelay) * time.Second
	cfg.ExpiryCheckInterval = time.Duration(*expiryInterval) * time.Second
}
