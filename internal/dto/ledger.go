package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paywave/paywave_backend/internal/core/domain"
)

// ListEntriesParams holds pagination parameters for ledger history.
type ListEntriesParams struct {
	Limit     int
	NextToken *string
}

// LedgerEntryResponse defines the data returned for one ledger entry.
type LedgerEntryResponse struct {
	EntryID         string          `json:"entryID"`
	TransferID      string          `json:"transferID"`
	CounterpartyUPI string          `json:"counterpartyUPI"`
	Amount          decimal.Decimal `json:"amount"`
	Direction       string          `json:"direction"`
	Status          string          `json:"status"`
	Note            string          `json:"note"`
	Timestamp       time.Time       `json:"timestamp"`
}

// ListEntriesResponse is a page of ledger entries plus the next-page token.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponses converts domain LedgerEntries to response DTOs
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LedgerEntryResponse{
			EntryID:         e.EntryID,
			TransferID:      e.TransferID,
			CounterpartyUPI: e.CounterpartyUPI,
			Amount:          e.Amount,
			Direction:       string(e.Direction),
			Status:          string(e.Status),
			Note:            e.Note,
			Timestamp:       e.Timestamp,
		}
	}
	return out
}
