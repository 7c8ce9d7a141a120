package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps one row per save key in tycoon.saves. The pool is owned by the caller.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := p.db.QueryRow(ctx, `SELECT snapshot FROM tycoon.saves WHERE save_key = $1`, key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load save %s: %w", key, err)
	}
	return blob, nil
}

func (p *Postgres) Save(ctx context.Context, key string, blob []byte) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO tycoon.saves (save_key, snapshot, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (save_key) DO UPDATE
		SET snapshot = EXCLUDED.snapshot,
		    updated_at = EXCLUDED.updated_at
	`, key, blob)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return nil
}
