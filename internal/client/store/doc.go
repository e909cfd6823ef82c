// Package store provides the local record store: a small key/value table
// that holds the member session and the registered-user table.
//
// # Backends
//
// SQLStore works over database/sql with two dialects:
//
//   - "sqlite"   (modernc.org/sqlite, the default; pool pinned to one connection)
//   - "postgres" (github.com/jackc/pgx/v5/stdlib)
//
// Open runs the embedded goose migrations from internal/client/migrations
// before returning.
//
// # Contract
//
// Get returns (nil, nil) for a missing key. Set is an upsert. Remove is
// idempotent. Writes that must land together go through WithTx, which hands
// the callback a Repository bound to the transaction; using the outer store
// inside the callback is a mistake (and deadlocks on SQLite).
//
// Typical Usage
//
//	st, err := store.Open(ctx, "sqlite", "gym.db")
//	if err != nil { ... }
//	defer st.Close()
//
//	err = st.WithTx(ctx, func(ctx context.Context, r store.Repository) error {
//	    if err := r.Set(ctx, "gym_session", token); err != nil {
//	        return err
//	    }
//	    return r.Set(ctx, "gym_users", table)
//	})
package store
