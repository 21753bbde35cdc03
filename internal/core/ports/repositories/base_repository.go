package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// SerializableTxRunner executes a function inside a serializable database
// transaction. The implementation retries fn on serialization conflicts
// a bounded number of times before surfacing apperrors.ErrConflict, so fn
// must be safe to re-run from scratch.
type SerializableTxRunner interface {
	WithSerializableTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
