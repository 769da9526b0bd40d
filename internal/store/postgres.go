package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS assessment_blobs (
		blob_key   TEXT PRIMARY KEY,
		blob_value BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

type PostgresBlobStore struct {
	pool *pgxpool.Pool
}

var _ BlobStore = (*PostgresBlobStore)(nil)

func NewPostgresBlobStore(ctx context.Context, databaseURL string) (*PostgresBlobStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create assessment_blobs: %w", err)
	}
	return &PostgresBlobStore{pool: pool}, nil
}

func (s *PostgresBlobStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `
		SELECT blob_value FROM assessment_blobs WHERE blob_key = $1`, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *PostgresBlobStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO assessment_blobs (blob_key, blob_value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (blob_key) DO UPDATE
		SET blob_value = EXCLUDED.blob_value, updated_at = EXCLUDED.updated_at`,
		key, value,
	)
	return err
}
