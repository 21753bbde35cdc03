package domain

import (
	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CardStatus is the state of an account's virtual card.
type CardStatus string

const (
	CardActive CardStatus = "ACTIVE"
	CardFrozen CardStatus = "FROZEN"
)

// KYCStatus is the compliance state of an account holder.
type KYCStatus string

const (
	KYCPending  KYCStatus = "PENDING"
	KYCVerified KYCStatus = "VERIFIED"
)

// Role distinguishes regular account holders from administrators.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Card is the virtual card provisioned for an account at registration.
type Card struct {
	Number string     `json:"number"`
	CVV    string     `json:"-"`
	Expiry string     `json:"expiry"` // MM/YY
	Holder string     `json:"holder"`
	Status CardStatus `json:"status"`
}

// Account represents a holder's balance and status record.
// Balance is mutated only through the store's serializable transaction
// primitive; it is never negative at any observable time.
type Account struct {
	AccountID    string          `json:"accountID"` // Primary Key (UUID)
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	DisplayName  string          `json:"displayName"`
	UPIID        string          `json:"upiID"` // Unique payment identifier, e.g. alias@paywave
	Balance      decimal.Decimal `json:"balance"`
	Card         Card            `json:"card"`
	KYCStatus    KYCStatus       `json:"kycStatus"`
	Banned       bool            `json:"banned"`
	Role         Role            `json:"role"`
	// Revision increases on every balance-affecting write. Change feed
	// consumers deduplicate snapshots by this field.
	Revision int64 `json:"revision"`
	AuditFields
}

// CanTransfer checks the capability gates in the order the coordinator
// reports them: ban, card freeze, compliance. A nil return does not mean a
// transfer will succeed; the gates are re-validated inside the atomic step.
func (a *Account) CanTransfer() error {
	if a.Banned {
		return apperrors.ErrSenderBanned
	}
	if a.Card.Status == CardFrozen {
		return apperrors.ErrCardFrozen
	}
	if a.KYCStatus != KYCVerified {
		return apperrors.ErrComplianceRequired
	}
	return nil
}

// Snapshot captures the account's feed-visible state at its current revision.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		AccountID:  a.AccountID,
		Balance:    a.Balance,
		CardStatus: a.Card.Status,
		KYCStatus:  a.KYCStatus,
		Banned:     a.Banned,
		Revision:   a.Revision,
		UpdatedAt:  a.LastUpdatedAt,
	}
}
