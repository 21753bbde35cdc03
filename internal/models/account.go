package models

import (
	"github.com/shopspring/decimal"
)

// Account represents an account row in the accounts table.
type Account struct {
	AccountID    string          `db:"account_id"`
	Email        string          `db:"email"`
	PasswordHash string          `db:"password_hash"`
	DisplayName  string          `db:"display_name"`
	UPIID        string          `db:"upi_id"`
	Balance      decimal.Decimal `db:"balance"`
	CardNumber   string          `db:"card_number"`
	CardCVV      string          `db:"card_cvv"`
	CardExpiry   string          `db:"card_expiry"`
	CardHolder   string          `db:"card_holder"`
	CardStatus   string          `db:"card_status"`
	KYCStatus    string          `db:"kyc_status"`
	Banned       bool            `db:"banned"`
	Role         string          `db:"role"`
	Revision     int64           `db:"revision"`
	AuditFields
}
