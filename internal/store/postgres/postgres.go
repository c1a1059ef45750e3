// Package postgres implements store.Store on a pgx connection pool.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amrowe/gtdhub/internal/store"
)

// Store is a Postgres implementation of store.Store
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// New creates a Store backed by the given pool
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// mapErr translates pgx sentinel errors to store errors
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
