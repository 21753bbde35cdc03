package mapping

import (
	"github.com/paywave/paywave_backend/internal/core/domain"
	"github.com/paywave/paywave_backend/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:         d.EntryID,
		TransferID:      d.TransferID,
		AccountID:       d.AccountID,
		CounterpartyUPI: d.CounterpartyUPI,
		Amount:          d.Amount,
		Direction:       string(d.Direction),
		Status:          string(d.Status),
		Note:            d.Note,
		Timestamp:       d.Timestamp,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:         m.EntryID,
		TransferID:      m.TransferID,
		AccountID:       m.AccountID,
		CounterpartyUPI: m.CounterpartyUPI,
		Amount:          m.Amount,
		Direction:       domain.EntryDirection(m.Direction),
		Status:          domain.EntryStatus(m.Status),
		Note:            m.Note,
		Timestamp:       m.Timestamp,
	}
}

// ToDomainLedgerEntrySlice converts model LedgerEntries to domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
