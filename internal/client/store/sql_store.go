package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gymkeeper/internal/client/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLStore is the database/sql backed Store.
type SQLStore struct {
	*SQLRepository
	db     *sql.DB
	txOpts *sql.TxOptions
}

var _ Store = (*SQLStore)(nil)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func queriesFor(driver string) (queries, error) {
	switch driver {
	case DriverSQLite, "":
		return sqliteQueries, nil
	case DriverPostgres:
		return postgresQueries, nil
	default:
		return queries{}, fmt.Errorf("unsupported store driver %q", driver)
	}
}

// New wraps an already opened database. Migrations are not run.
func New(db *sql.DB, driver string) (*SQLStore, error) {
	q, err := queriesFor(driver)
	if err != nil {
		return nil, err
	}
	return &SQLStore{SQLRepository: newSQLRepository(db, q), db: db, txOpts: txOptionsFor(driver)}, nil
}

// RunMigrations applies the embedded migrations for the given driver.
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	goose.SetBaseFS(migrations.Migrations)

	dialect := "sqlite3"
	if driver == DriverPostgres {
		dialect = "pgx"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, migrations.Dir(driver)); err != nil {
		return fmt.Errorf("failed to migrate records: %w", err)
	}
	return nil
}

// Open connects to the store, runs migrations and returns it ready for use.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	if driver == "" {
		driver = DriverSQLite
	}

	sqlDriver := "sqlite"
	if driver == DriverPostgres {
		sqlDriver = "pgx"
	} else if driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one connection keeps ":memory:" a single database and serializes writers
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s store: %w", driver, err)
	}

	if err := RunMigrations(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db, driver)
}

// WithTx runs fn against a transactional repository. Everything fn wrote is
// committed together, or rolled back if fn fails or panics.
func (s *SQLStore) WithTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	return runTx(ctx, s.db, s.txOpts, func(ctx context.Context, tx execer) error {
		return fn(ctx, newSQLRepository(tx, s.q))
	})
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
