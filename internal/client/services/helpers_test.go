package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
	"github.com/dmitrijs2005/gymkeeper/internal/client/records"
	"github.com/dmitrijs2005/gymkeeper/internal/client/store"
	"github.com/dmitrijs2005/gymkeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newTestStore(t testing.TB) *store.SQLStore {
	t.Helper()
	st, err := store.Open(context.Background(), store.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newCodec() *records.SessionCodec {
	return records.NewSessionCodec([]byte("test-secret"), 0)
}

// tb is satisfied by both *testing.T and *rapid.T.
type tb interface {
	Helper()
	require.TestingT
}

// seedUsers writes the registered-user table directly.
func seedUsers(t tb, st store.Repository, users ...models.User) {
	t.Helper()
	raw, err := records.EncodeUsers(users)
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), records.KeyUsers, raw))
}

func readUsers(t tb, st store.Repository) []models.User {
	t.Helper()
	raw, err := st.Get(context.Background(), records.KeyUsers)
	require.NoError(t, err)
	users, err := records.DecodeUsers(raw)
	require.NoError(t, err)
	return users
}

func readSession(t tb, st store.Repository) *models.User {
	t.Helper()
	raw, err := st.Get(context.Background(), records.KeySession)
	require.NoError(t, err)
	if raw == nil {
		return nil
	}
	u, err := newCodec().Decode(raw)
	require.NoError(t, err)
	return u
}

// newManager returns an initialized session manager over st.
func newManager(t testing.TB, st store.Store, logger logging.Logger, opts ...SessionOption) SessionManager {
	t.Helper()
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	m := NewSessionManager(st, newCodec(), logger, opts...)
	require.NoError(t, m.Initialize(context.Background()))
	return m
}

func sameMembership(a, b models.Membership) bool {
	return a.PlanID == b.PlanID && a.BranchID == b.BranchID && a.Start.Equal(b.Start) && a.End.Equal(b.End)
}

// faultyStore injects errors into reads and transactional writes.
type faultyStore struct {
	store.Store
	failGet    bool
	failSetKey string
}

func (f *faultyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errBoom
	}
	return f.Store.Get(ctx, key)
}

func (f *faultyStore) WithTx(ctx context.Context, fn func(ctx context.Context, repo store.Repository) error) error {
	return f.Store.WithTx(ctx, func(ctx context.Context, r store.Repository) error {
		return fn(ctx, &faultyRepo{Repository: r, failSetKey: f.failSetKey})
	})
}

type faultyRepo struct {
	store.Repository
	failSetKey string
}

func (r *faultyRepo) Set(ctx context.Context, key string, value []byte) error {
	if key == r.failSetKey {
		return fmt.Errorf("failed to set record[%s]: %w", key, errBoom)
	}
	return r.Repository.Set(ctx, key, value)
}

// recordingLogger keeps messages per level.
type recordingLogger struct {
	mu   sync.Mutex
	msgs map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{msgs: map[string][]string{}}
}

func (l *recordingLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs[level] = append(l.msgs[level], msg)
}

func (l *recordingLogger) Debug(_ context.Context, msg string, _ ...any) { l.add("debug", msg) }
func (l *recordingLogger) Info(_ context.Context, msg string, _ ...any)  { l.add("info", msg) }
func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...any)  { l.add("warn", msg) }
func (l *recordingLogger) Error(_ context.Context, msg string, _ ...any) { l.add("error", msg) }
func (l *recordingLogger) With(_ ...any) logging.Logger                  { return l }

func (l *recordingLogger) messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs[level]...)
}

// gatewayFunc adapts a function to PaymentGateway.
type gatewayFunc func(ctx context.Context, method PaymentMethod) (string, error)

func (f gatewayFunc) Charge(ctx context.Context, method PaymentMethod) (string, error) {
	return f(ctx, method)
}
