package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/msomdec/pomodeck/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle that backs the persistent client state.
type DB struct {
	SQLDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and limits the pool to a single connection.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Token writes from the renewer and from login/logout are serialized here.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SQLDB: db}, nil
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SQLDB)
}

// Close closes the underlying database handle.
func (db *DB) Close() error {
	return db.SQLDB.Close()
}

// State returns the key/value client state store. When secret is non-empty
// values are sealed at rest.
func (db *DB) State(secret string) (*StateRepository, error) {
	return NewStateRepository(db, secret)
}
