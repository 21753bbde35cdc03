package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/paywave/paywave_backend/internal/core/domain"
	portsrepo "github.com/paywave/paywave_backend/internal/core/ports/repositories"
	"github.com/paywave/paywave_backend/internal/models"
	"github.com/paywave/paywave_backend/internal/utils/mapping"
)

// accountColumns is the canonical column list scanned by scanAccount.
const accountColumns = `account_id, email, password_hash, display_name, upi_id, balance,
	card_number, card_cvv, card_expiry, card_holder, card_status,
	kyc_status, banned, role, revision,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// NewPgxAccountRepository creates a new repository for account data.
func NewPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Email,
		&m.PasswordHash,
		&m.DisplayName,
		&m.UPIID,
		&m.Balance,
		&m.CardNumber,
		&m.CardCVV,
		&m.CardExpiry,
		&m.CardHolder,
		&m.CardStatus,
		&m.KYCStatus,
		&m.Banned,
		&m.Role,
		&m.Revision,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxAccountRepository) findAccountBy(ctx context.Context, column string, value string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE %s = $1;`, accountColumns, column)
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by "+column, err)
	}
	acc := mapping.ToDomainAccount(*m)
	return &acc, nil
}

// FindAccountByID retrieves a specific account by its unique identifier.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findAccountBy(ctx, "account_id", accountID)
}

// FindAccountByUPI retrieves the single account owning a payment identifier.
// The upi_id column carries a unique constraint, so at most one row matches.
func (r *PgxAccountRepository) FindAccountByUPI(ctx context.Context, upiID string) (*domain.Account, error) {
	return r.findAccountBy(ctx, "upi_id", upiID)
}

// FindAccountByEmail retrieves an account by its login email.
func (r *PgxAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findAccountBy(ctx, "email", email)
}

// ListAccounts retrieves a paginated list of accounts, oldest first.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM accounts ORDER BY created_at ASC LIMIT $1 OFFSET $2;`, accountColumns)
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts", err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating account rows", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// SaveAccount persists a new account, including its provisioned card.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (
			account_id, email, password_hash, display_name, upi_id, balance,
			card_number, card_cvv, card_expiry, card_holder, card_status,
			kyc_status, banned, role, revision,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Email,
		m.PasswordHash,
		m.DisplayName,
		m.UPIID,
		m.Balance,
		m.CardNumber,
		m.CardCVV,
		m.CardExpiry,
		m.CardHolder,
		m.CardStatus,
		m.KYCStatus,
		m.Banned,
		m.Role,
		m.Revision,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: UPI ID or email already registered", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert account "+m.AccountID, err)
	}
	return nil
}

// updateStatusColumn applies a single status mutation and bumps the row
// revision so change-feed subscribers can deduplicate.
func (r *PgxAccountRepository) updateStatusColumn(ctx context.Context, accountID string, column string, value any, updatedBy string, now time.Time) error {
	query := fmt.Sprintf(`
		UPDATE accounts
		SET %s = $2, revision = revision + 1, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`, column)
	ct, err := r.Pool.Exec(ctx, query, accountID, value, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update "+column+" for account "+accountID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateCardStatus freezes or unfreezes an account's card.
func (r *PgxAccountRepository) UpdateCardStatus(ctx context.Context, accountID string, status domain.CardStatus, updatedBy string, now time.Time) error {
	return r.updateStatusColumn(ctx, accountID, "card_status", string(status), updatedBy, now)
}

// UpdateBanned sets or clears the banned flag.
func (r *PgxAccountRepository) UpdateBanned(ctx context.Context, accountID string, banned bool, updatedBy string, now time.Time) error {
	return r.updateStatusColumn(ctx, accountID, "banned", banned, updatedBy, now)
}

// UpdateKYCStatus records the outcome of identity verification.
func (r *PgxAccountRepository) UpdateKYCStatus(ctx context.Context, accountID string, status domain.KYCStatus, updatedBy string, now time.Time) error {
	return r.updateStatusColumn(ctx, accountID, "kyc_status", string(status), updatedBy, now)
}

// FindAccountsByIDsForUpdate selects accounts and locks the rows for update.
// Must be called within a transaction. Rows are locked in account_id order
// to keep lock acquisition deterministic across concurrent transfers.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`, accountColumns)

	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating locked account rows: %w", err)
	}

	accountsMap := make(map[string]domain.Account, len(accountIDs))
	for _, acc := range mapping.ToDomainAccountSlice(ms) {
		accountsMap[acc.AccountID] = acc
	}

	for _, id := range accountIDs {
		if _, ok := accountsMap[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accountsMap, nil
}

// ApplyBalanceChangesInTx applies signed balance deltas within a
// transaction, bumping each row's revision. The balance CHECK constraint
// is the final guard against negative balances; callers are expected to
// have validated funds against the locked rows already.
func (r *PgxAccountRepository) ApplyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, updatedBy string, now time.Time) (map[string]domain.Account, error) {
	query := fmt.Sprintf(`
		UPDATE accounts
		SET balance = balance + $2, revision = revision + 1, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1
		RETURNING %s;
	`, accountColumns)

	updated := make(map[string]domain.Account, len(balanceChanges))
	for accountID, delta := range balanceChanges {
		if delta.IsZero() {
			continue
		}
		m, err := scanAccount(tx.QueryRow(ctx, query, accountID, delta, now, updatedBy))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
			}
			return nil, fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
		}
		updated[accountID] = mapping.ToDomainAccount(*m)
	}
	return updated, nil
}
