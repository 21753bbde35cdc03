package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paywave/paywave_backend/internal/apperrors"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// serializableTxAttempts bounds retry-on-conflict inside WithSerializableTx.
const serializableTxAttempts = 3

// WithSerializableTx executes fn inside a serializable transaction,
// retrying on serialization failures and deadlocks. fn must be safe to
// re-run from scratch: it is re-invoked with a fresh transaction on each
// attempt. After the attempts are exhausted the caller sees
// apperrors.ErrConflict; begin/commit infrastructure failures surface as
// apperrors.ErrStoreUnavailable.
func (r *BaseRepository) WithSerializableTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < serializableTxAttempts; attempt++ {
		tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return fmt.Errorf("%w: failed to begin serializable transaction: %v", apperrors.ErrStoreUnavailable, err)
		}

		err = fn(tx)
		if err != nil {
			_ = tx.Rollback(ctx)
			if isSerializationFailure(err) {
				lastErr = err
				continue
			}
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			if isSerializationFailure(err) {
				lastErr = err
				continue
			}
			return fmt.Errorf("%w: failed to commit serializable transaction: %v", apperrors.ErrStoreUnavailable, err)
		}
		return nil
	}
	return fmt.Errorf("%w: serializable transaction retries exhausted: %v", apperrors.ErrConflict, lastErr)
}

// isSerializationFailure reports whether err is a retryable transaction
// abort: serialization_failure (40001) or deadlock_detected (40P01).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// isUniqueViolation reports whether err is a unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
