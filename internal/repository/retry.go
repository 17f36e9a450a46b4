// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	maxTxAttempts = 3
	txRetryBase   = 10 * time.Millisecond
)

// isRetryableTxError reports Postgres serialization failures and deadlocks.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// withTxRetry runs fn until it succeeds, fails with a non-retryable error or
// maxTxAttempts is reached. onRetry is called before every repeat.
func withTxRetry(ctx context.Context, fn func() error, onRetry func(attempt int)) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = fn()
		if err == nil || !isRetryableTxError(err) || attempt == maxTxAttempts {
			return err
		}
		if onRetry != nil {
			onRetry(attempt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(txRetryBase * time.Duration(attempt)):
		}
	}
	return err
}
