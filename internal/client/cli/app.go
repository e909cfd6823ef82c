package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gymkeeper/internal/client/config"
	"github.com/dmitrijs2005/gymkeeper/internal/client/receipts"
	"github.com/dmitrijs2005/gymkeeper/internal/client/records"
	"github.com/dmitrijs2005/gymkeeper/internal/client/services"
	"github.com/dmitrijs2005/gymkeeper/internal/client/store"
	"github.com/dmitrijs2005/gymkeeper/internal/logging"
)

const uploadTimeout = 30 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   store.Store
	session services.SessionManager
	guard   *services.RouteGuard
	gateway services.PaymentGateway
	handoff *services.Handoff
	visits  *services.VisitBooker
	sink    receipts.Sink
	now     func() time.Time

	reader *bufio.Reader
	outMu  sync.Mutex
	out    io.Writer
}

// NewApp opens the record store, rehydrates the persisted session and
// wires the services the REPL commands use.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	st, err := store.Open(ctx, c.StoreDriver, c.StoreDSN)
	if err != nil {
		logger.Error(ctx, "error opening record store", "driver", c.StoreDriver, "error", err)
		return nil, err
	}

	if c.SessionSecret == config.DefaultSessionSecret {
		logger.Warn(ctx, "using the built-in session secret, set GYM_SESSION_SECRET to override")
	}
	codec := records.NewSessionCodec([]byte(c.SessionSecret), c.SessionTTL)

	session := services.NewSessionManager(st, codec, logger, services.WithPasswordHashing(c.HashPasswords))
	if err := session.Initialize(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}

	var sink receipts.Sink
	if c.UseS3() {
		sink = receipts.NewS3Sink(receipts.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		}, &http.Client{Timeout: uploadTimeout})
	} else {
		sink = receipts.NewFileSink(c.ReceiptsDir)
	}

	return &App{
		config:  c,
		logger:  logger,
		store:   st,
		session: session,
		guard:   services.NewRouteGuard(session, st, logger),
		gateway: services.NewMockGateway(c.PaymentDelay),
		handoff: services.NewHandoff(),
		visits:  services.NewVisitBooker(logger),
		sink:    sink,
		now:     time.Now,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run starts the expiry watcher and the REPL. It returns when the user
// exits or input ends, and closes the store.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() {
		if err := a.store.Close(); err != nil {
			a.logger.Error(ctx, "error closing record store", "error", err)
		}
	}()

	a.println("Welcome to GymKeeper (type 'help' for commands)")

	if a.config.ExpiryCheckInterval > 0 {
		w := services.NewExpiryWatcher(a.session, a.logger, a.notifyExpiry)
		go w.Run(ctx, a.config.ExpiryCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.CurrentUser() != nil
}

func (a *App) getStatus() string {
	u := a.session.CurrentUser()
	if u == nil {
		return "guest"
	}
	return u.Name
}

func (a *App) notifyExpiry(n services.ExpiryNotice) {
	a.printf("\n[membership %s] %s\n", n.Status, n.Overview.RenewalHint)
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}
