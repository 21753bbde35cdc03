package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryDirection indicates which side of a transfer a ledger entry records.
type EntryDirection string

const (
	Debit  EntryDirection = "DEBIT"
	Credit EntryDirection = "CREDIT"
)

// EntryStatus is terminal; failed transfers never produce an entry.
type EntryStatus string

const (
	EntryCompleted EntryStatus = "COMPLETED"
)

// LedgerEntry is the immutable record of one side of a completed transfer.
// For every completed transfer exactly one DEBIT entry exists for the
// sender and one CREDIT entry for the receiver, sharing TransferID and
// Timestamp. Entries are never updated or deleted.
type LedgerEntry struct {
	EntryID         string          `json:"entryID"`    // Primary Key (UUID), assigned client-side
	TransferID      string          `json:"transferID"` // Shared by both sides of one transfer
	AccountID       string          `json:"accountID"`  // Owning side
	CounterpartyUPI string          `json:"counterpartyUPI"`
	Amount          decimal.Decimal `json:"amount"` // Always positive
	Direction       EntryDirection  `json:"direction"`
	Status          EntryStatus     `json:"status"`
	Note            string          `json:"note"`
	Timestamp       time.Time       `json:"timestamp"`
}

// MirrorEntries builds the debit/credit pair for a completed transfer.
// Both entries share the transfer id and timestamp.
func MirrorEntries(transferID string, sender, receiver *Account, amount decimal.Decimal, note string, at time.Time) (debit, credit LedgerEntry) {
	debit = LedgerEntry{
		TransferID:      transferID,
		AccountID:       sender.AccountID,
		CounterpartyUPI: receiver.UPIID,
		Amount:          amount,
		Direction:       Debit,
		Status:          EntryCompleted,
		Note:            note,
		Timestamp:       at,
	}
	credit = LedgerEntry{
		TransferID:      transferID,
		AccountID:       receiver.AccountID,
		CounterpartyUPI: sender.UPIID,
		Amount:          amount,
		Direction:       Credit,
		Status:          EntryCompleted,
		Note:            note,
		Timestamp:       at,
	}
	return debit, credit
}
