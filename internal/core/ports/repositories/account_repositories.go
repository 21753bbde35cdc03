package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/paywave/paywave_backend/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByUPI retrieves the single account owning a payment identifier.
	FindAccountByUPI(ctx context.Context, upiID string) (*domain.Account, error)

	// FindAccountByEmail retrieves an account by its login email.
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account, including its provisioned card.
	// Returns apperrors.ErrDuplicate when the UPI ID or email is taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateCardStatus freezes or unfreezes an account's card.
	UpdateCardStatus(ctx context.Context, accountID string, status domain.CardStatus, updatedBy string, now time.Time) error

	// UpdateBanned sets or clears the banned flag.
	UpdateBanned(ctx context.Context, accountID string, banned bool, updatedBy string, now time.Time) error

	// UpdateKYCStatus records the outcome of identity verification.
	UpdateKYCStatus(ctx context.Context, accountID string, status domain.KYCStatus, updatedBy string, now time.Time) error
}

// AccountTransactionSupport defines operations used inside the serializable
// transfer transaction.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks their rows for
	// update within the given transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceChangesInTx applies signed balance deltas to the given
	// accounts within the transaction, bumping each row's revision.
	// Returns the updated accounts keyed by ID.
	ApplyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, updatedBy string, now time.Time) (map[string]domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	SerializableTxRunner
}
