package repositories

import (
	"context"

	"github.com/paywave/paywave_backend/internal/core/domain"
)

// LedgerAppender defines the append-only write side of the ledger.
type LedgerAppender interface {
	// AppendEntries persists the given ledger entries. Entry IDs are
	// assigned by the caller; re-appending an already persisted entry is
	// a no-op, which makes retries by the reconciler safe.
	AppendEntries(ctx context.Context, entries []domain.LedgerEntry) error
}

// LedgerReader defines read operations over the ledger.
type LedgerReader interface {
	// ListEntriesByAccount retrieves entries for one account, newest
	// first, using token pagination.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// FindEntriesByTransferID retrieves both sides of one transfer.
	FindEntriesByTransferID(ctx context.Context, transferID string) ([]domain.LedgerEntry, error)
}

// LedgerRepositoryFacade combines ledger read and write interfaces.
type LedgerRepositoryFacade interface {
	LedgerAppender
	LedgerReader
}
