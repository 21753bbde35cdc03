package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry represents a row in the ledger_entries table.
type LedgerEntry struct {
	EntryID         string          `db:"entry_id"`
	TransferID      string          `db:"transfer_id"`
	AccountID       string          `db:"account_id"`
	CounterpartyUPI string          `db:"counterparty_upi"`
	Amount          decimal.Decimal `db:"amount"`
	Direction       string          `db:"direction"`
	Status          string          `db:"status"`
	Note            string          `db:"note"`
	Timestamp       time.Time       `db:"timestamp"`
}
