// Package repository implements PostgreSQL persistence for all
// aggregates. Repositories return models.AppError values so the core
// can pass storage failures through unchanged.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vidhub/pkg/models"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting query
// helpers run inside or outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// withTransaction executes fn within a transaction, rolling back on
// error or panic.
func withTransaction(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return models.NewInternal("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// Postgres error codes mapped to the application taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

// isUniqueViolation reports whether err is a unique constraint failure,
// used where a duplicate row has domain meaning (already liked, already
// subscribed, already in playlist).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// mapDBError maps low-level database errors to application errors.
// Callers that need a resource-specific not-found message handle
// pgx.ErrNoRows themselves before falling through here.
func mapDBError(err error, operation string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewNotFound("resource not found", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return models.NewConflict("resource already exists", err)
		case pgForeignKeyViolation:
			return models.NewInvalidInput("invalid reference")
		case pgInvalidTextRepr:
			return models.NewInvalidInput("invalid input format")
		}
	}

	return models.NewInternal("database error during "+operation, err)
}
