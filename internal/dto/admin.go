package dto

import "github.com/shopspring/decimal"

// InjectFundsRequest credits an account from the treasury.
type InjectFundsRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   string          `json:"note" binding:"max=200"`
}

// SetBannedRequest bans or unbans an account.
type SetBannedRequest struct {
	Banned *bool `json:"banned" binding:"required"`
}

// SetFrozenRequest freezes or unfreezes an account's card.
type SetFrozenRequest struct {
	Frozen *bool `json:"frozen" binding:"required"`
}
