// Package postgres implements repository.Store on top of pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"innosistemas/api/internal/db"
	"innosistemas/api/internal/model"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

type Store struct {
	pool *pgxpool.Pool
	db   *db.Store
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: db.NewStore(pool)}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// classify maps driver errors onto the domain sentinels while keeping the
// driver error in the chain.
func classify(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %w", model.ErrConflict, err)
		case codeForeignKeyViolation, codeInvalidText:
			return fmt.Errorf("%w: %w", model.ErrNotFound, err)
		}
	}
	return err
}
