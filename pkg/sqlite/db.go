// Package sqlite stores kvstore values in a local SQLite database, using the
// pure-Go modernc.org/sqlite driver and embedded golang-migrate migrations.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

const pragmas = "_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"

// DB holds a single-connection writer and a small reader pool over the same
// database file. A single writer avoids "database is locked" errors.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
	dsn    string
}

// Open opens the database file at path in WAL mode and applies migrations.
func Open(ctx context.Context, path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&%s", path, pragmas)
	return open(ctx, dsn)
}

// OpenMemory opens a named shared in-memory database and applies migrations.
// Connections opened with the same name see the same data until the last one
// is closed.
func OpenMemory(ctx context.Context, name string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&%s", url.PathEscape(name), pragmas)
	return open(ctx, dsn)
}

func open(ctx context.Context, dsn string) (*DB, error) {
	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	if err := writer.PingContext(ctx); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(4)

	if err := reader.PingContext(ctx); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	db := &DB{Writer: writer, Reader: reader, dsn: dsn}
	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Close closes both connections and returns the first error encountered.
func (db *DB) Close() error {
	var firstErr error

	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}
	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}

// Healthcheck returns a probe that pings the reader pool.
func (db *DB) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		return db.Reader.PingContext(ctx)
	}
}
