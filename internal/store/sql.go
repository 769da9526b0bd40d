package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Backend selects where assessment blobs are kept.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendMySQL    Backend = "mysql"
	BackendPostgres Backend = "postgres"
)

// DefaultSQLitePath is used when the sqlite backend has no DSN.
const DefaultSQLitePath = "resilience.db"

// SQLBlobStore keeps blobs in a database/sql table (SQLite or MySQL).
type SQLBlobStore struct {
	db      *sql.DB
	backend Backend
}

var _ BlobStore = (*SQLBlobStore)(nil)

// OpenBlobStore opens the blob store for backend. Every failure wraps
// ErrPersistenceUnavailable.
func OpenBlobStore(ctx context.Context, backend Backend, dsn string) (BlobStore, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryBlobStore(), nil
	case BackendPostgres:
		s, err := NewPostgresBlobStore(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
		}
		return s, nil
	case BackendSQLite, BackendMySQL:
		s, err := NewSQLBlobStore(ctx, backend, dsn)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unsupported backend %q, must be memory, sqlite, mysql or postgres", ErrPersistenceUnavailable, backend)
	}
}

// NewSQLBlobStore opens a SQLite file or MySQL database and creates the blob
// table if needed.
func NewSQLBlobStore(ctx context.Context, backend Backend, dsn string) (*SQLBlobStore, error) {
	var driverName, schema string
	switch backend {
	case BackendSQLite:
		driverName = "sqlite"
		if dsn == "" {
			dsn = DefaultSQLitePath
		}
		schema = `
			CREATE TABLE IF NOT EXISTS assessment_blobs (
				blob_key   TEXT PRIMARY KEY,
				blob_value BLOB NOT NULL,
				updated_at INTEGER NOT NULL
			)`
	case BackendMySQL:
		// dsn: user:password@tcp(host:port)/dbname
		driverName = "mysql"
		schema = `
			CREATE TABLE IF NOT EXISTS assessment_blobs (
				blob_key   VARCHAR(255) PRIMARY KEY,
				blob_value MEDIUMBLOB NOT NULL,
				updated_at BIGINT NOT NULL
			)`
	default:
		return nil, fmt.Errorf("backend %q is not a database/sql backend", backend)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", backend, err)
	}
	if backend == BackendSQLite {
		// A single connection avoids "database is locked" errors.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", backend, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create assessment_blobs: %w", err)
	}
	return &SQLBlobStore{db: db, backend: backend}, nil
}

func (s *SQLBlobStore) Close() error {
	return s.db.Close()
}

func (s *SQLBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT blob_value FROM assessment_blobs WHERE blob_key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SQLBlobStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO assessment_blobs (blob_key, blob_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (blob_key) DO UPDATE
		SET blob_value = excluded.blob_value, updated_at = excluded.updated_at`
	if s.backend == BackendMySQL {
		query = `
			INSERT INTO assessment_blobs (blob_key, blob_value, updated_at)
			VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE blob_value = VALUES(blob_value), updated_at = VALUES(updated_at)`
	}
	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().Unix())
	return err
}
