package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/paywave/paywave_backend/internal/core/domain"
	portsrepo "github.com/paywave/paywave_backend/internal/core/ports/repositories"
	"github.com/paywave/paywave_backend/internal/models"
	"github.com/paywave/paywave_backend/internal/utils/mapping"
	"github.com/paywave/paywave_backend/internal/utils/pagination"
)

const ledgerColumns = `entry_id, transfer_id, account_id, counterparty_upi, amount, direction, status, note, timestamp`

type PgxLedgerRepository struct {
	BaseRepository
}

// NewPgxLedgerRepository creates a new repository for ledger entries.
func NewPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// AppendEntries persists ledger entries. Entry IDs are client-assigned and
// the insert is ON CONFLICT DO NOTHING, so retrying an append after a
// partial failure cannot duplicate an entry.
func (r *PgxLedgerRepository) AppendEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO ledger_entries (entry_id, transfer_id, account_id, counterparty_upi, amount, direction, status, note, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (entry_id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, entry := range entries {
		m := mapping.ToModelLedgerEntry(entry)
		batch.Queue(query,
			m.EntryID,
			m.TransferID,
			m.AccountID,
			m.CounterpartyUPI,
			m.Amount,
			m.Direction,
			m.Status,
			m.Note,
			m.Timestamp,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		// Append failures are transient from the reconciler's point of
		// view: idempotent entry IDs make the retry safe.
		return fmt.Errorf("%w: failed to append ledger entries: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func scanLedgerEntry(row rowScanner) (*models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.TransferID,
		&m.AccountID,
		&m.CounterpartyUPI,
		&m.Amount,
		&m.Direction,
		&m.Status,
		&m.Note,
		&m.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListEntriesByAccount retrieves entries for an account, newest first,
// using (timestamp, entry_id) token pagination for a stable order.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE account_id = $1`
	orderClause := ` ORDER BY timestamp DESC, entry_id DESC`

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		lastTimestamp, parseErr := time.Parse(time.RFC3339Nano, fields[0])
		if parseErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", parseErr)
		}
		query := baseQuery + ` AND (timestamp, entry_id) < ($2, $3)` + orderClause + ` LIMIT $4;`
		rows, err = r.Pool.Query(ctx, query, accountID, lastTimestamp, fields[1], fetchLimit)
	} else {
		query := baseQuery + orderClause + ` LIMIT $2;`
		rows, err = r.Pool.Query(ctx, query, accountID, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list ledger entries for account "+accountID, err)
	}
	defer rows.Close()

	var ms []models.LedgerEntry
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed iterating ledger entry rows", err)
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeMultiFieldToken(last.Timestamp.Format(time.RFC3339Nano), last.EntryID)
		token = &t
	}
	return mapping.ToDomainLedgerEntrySlice(ms), token, nil
}

// FindEntriesByTransferID retrieves both sides of one transfer.
func (r *PgxLedgerRepository) FindEntriesByTransferID(ctx context.Context, transferID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE transfer_id = $1 ORDER BY direction ASC;`
	rows, err := r.Pool.Query(ctx, query, transferID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find ledger entries for transfer "+transferID, err)
	}
	defer rows.Close()

	var ms []models.LedgerEntry
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry row", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating ledger entry rows", err)
	}
	if len(ms) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return mapping.ToDomainLedgerEntrySlice(ms), nil
}
