package services

import (
	"context"

	"github.com/paywave/paywave_backend/internal/core/domain"
	"github.com/paywave/paywave_backend/internal/dto"
)

// AccountSvcFacade covers account lifecycle and owner self-service.
type AccountSvcFacade interface {
	// Register creates a new account with the sign-up bonus balance and a
	// provisioned virtual card. The UPI ID and email must be unique.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error)

	// GetAccountByID retrieves a specific account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// SetCardFrozen toggles the owner's card freeze. Owner-only.
	SetCardFrozen(ctx context.Context, accountID string, frozen bool) (*domain.Account, error)
}

// AuthSvcFacade authenticates account holders and issues session tokens.
type AuthSvcFacade interface {
	// Login verifies the email/password pair and returns a signed JWT
	// whose subject is the account ID.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

// AdminSvcFacade covers administrative account actions. All methods
// require the acting account to have the ADMIN role.
type AdminSvcFacade interface {
	// ListAccounts retrieves all accounts for the admin console.
	ListAccounts(ctx context.Context, actorID string, limit, offset int) ([]domain.Account, error)

	// InjectFunds credits an account from the treasury, with a ledger entry.
	InjectFunds(ctx context.Context, actorID string, accountID string, req dto.InjectFundsRequest) (*domain.Account, error)

	// SetBanned bans or unbans an account.
	SetBanned(ctx context.Context, actorID string, accountID string, banned bool) error

	// SetCardFrozen freezes or unfreezes any account's card.
	SetCardFrozen(ctx context.Context, actorID string, accountID string, frozen bool) error

	// VerifyKYC marks an account's identity verification as complete.
	VerifyKYC(ctx context.Context, actorID string, accountID string) error
}

// LedgerSvcFacade exposes transaction history reads.
type LedgerSvcFacade interface {
	// ListEntries retrieves an account's ledger entries, newest first.
	ListEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// GetTransfer retrieves both sides of one transfer. Returns
	// apperrors.ErrNotFound when the transfer does not exist or the
	// account took no part in it.
	GetTransfer(ctx context.Context, accountID string, transferID string) (*dto.ListEntriesResponse, error)
}
