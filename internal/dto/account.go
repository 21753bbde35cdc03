package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paywave/paywave_backend/internal/core/domain"
)

// CardResponse exposes the card fields safe to return to the owner.
type CardResponse struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	Holder string `json:"holder"`
	Status string `json:"status"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID   string          `json:"accountID"`
	Email       string          `json:"email"`
	DisplayName string          `json:"displayName"`
	UPIID       string          `json:"upiID"`
	Balance     decimal.Decimal `json:"balance"`
	Card        CardResponse    `json:"card"`
	KYCStatus   string          `json:"kycStatus"`
	Banned      bool            `json:"banned"`
	Role        string          `json:"role"`
	Revision    int64           `json:"revision"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// FreezeCardRequest toggles the freeze state of a card.
type FreezeCardRequest struct {
	Frozen *bool `json:"frozen" binding:"required"`
}

// ResolveResponse is the live-verification payload for a receiver lookup.
type ResolveResponse struct {
	UPIID       string `json:"upiID"`
	DisplayName string `json:"displayName"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   acc.AccountID,
		Email:       acc.Email,
		DisplayName: acc.DisplayName,
		UPIID:       acc.UPIID,
		Balance:     acc.Balance,
		Card: CardResponse{
			Number: acc.Card.Number,
			Expiry: acc.Card.Expiry,
			Holder: acc.Card.Holder,
			Status: string(acc.Card.Status),
		},
		KYCStatus: string(acc.KYCStatus),
		Banned:    acc.Banned,
		Role:      string(acc.Role),
		Revision:  acc.Revision,
		CreatedAt: acc.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain Accounts to response DTOs
func ToAccountResponses(accs []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accs))
	for i := range accs {
		out[i] = ToAccountResponse(&accs[i])
	}
	return out
}
