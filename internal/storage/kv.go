// internal/storage/kv.go

// Package storage persists the client's local key/value state (the bearer
// token lives here) in a single table.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Queries use ? placeholders; the handle rebinds them for the driver.
const (
	selectValue = `SELECT value FROM local_storage WHERE key = ?`
	upsertValue = `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value,
		    updated_at = excluded.updated_at
	`
	deleteValue = `DELETE FROM local_storage WHERE key = ?`
)

// KV is a string key/value table.
type KV struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

// Open connects to dsn with the named driver and makes sure the table exists.
func Open(ctx context.Context, driver, dsn string) (*KV, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One writer; avoids SQLITE_BUSY between pooled connections.
		db.SetMaxOpenConns(1)
	}

	kv := newKV(db)
	if err := kv.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return kv, nil
}

func newKV(db *sqlx.DB) *KV {
	return &KV{db: db, tracer: otel.Tracer("kingdomseekers/storage")}
}

func (kv *KV) init(ctx context.Context) error {
	_, err := kv.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS local_storage (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create local_storage table: %w", describe(err))
	}
	return nil
}

// Get returns the value stored under key.
func (kv *KV) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, span := kv.tracer.Start(ctx, "storage.get",
		trace.WithAttributes(attribute.String("storage.key", key)))
	defer span.End()

	var value string
	err := kv.db.GetContext(ctx, &value, kv.db.Rebind(selectValue), key)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetAttributes(attribute.Bool("storage.hit", false))
		return "", false, nil
	}
	if err != nil {
		span.RecordError(err)
		return "", false, fmt.Errorf("read %q: %w", key, describe(err))
	}
	span.SetAttributes(attribute.Bool("storage.hit", true))
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (kv *KV) Set(ctx context.Context, key, value string) error {
	ctx, span := kv.tracer.Start(ctx, "storage.set",
		trace.WithAttributes(attribute.String("storage.key", key)))
	defer span.End()

	_, err := kv.db.ExecContext(ctx, kv.db.Rebind(upsertValue), key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("write %q: %w", key, describe(err))
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (kv *KV) Delete(ctx context.Context, key string) error {
	ctx, span := kv.tracer.Start(ctx, "storage.delete",
		trace.WithAttributes(attribute.String("storage.key", key)))
	defer span.End()

	if _, err := kv.db.ExecContext(ctx, kv.db.Rebind(deleteValue), key); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete %q: %w", key, describe(err))
	}
	return nil
}

// Close releases the database handle.
func (kv *KV) Close() error {
	return kv.db.Close()
}

// describe adds the PostgreSQL error code when there is one.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%w (sqlstate %s)", err, pqErr.Code)
	}
	return err
}
