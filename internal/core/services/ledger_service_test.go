package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/paywave/paywave_backend/internal/core/domain"
	"github.com/paywave/paywave_backend/internal/core/services"
	"github.com/paywave/paywave_backend/internal/dto"
)

func TestListEntries_DefaultsAndToken(t *testing.T) {
	repo := new(MockLedgerRepository)
	entries := []domain.LedgerEntry{
		{EntryID: "e2", Direction: domain.Debit, Amount: decimal.NewFromInt(5), Timestamp: time.Now()},
		{EntryID: "e1", Direction: domain.Credit, Amount: decimal.NewFromInt(3), Timestamp: time.Now().Add(-time.Hour)},
	}
	repo.On("ListEntriesByAccount", context.Background(), "acc-1", 25, (*string)(nil)).Return(entries, "token-next", nil).Once()

	svc := services.NewLedgerService(repo)
	resp, err := svc.ListEntries(context.Background(), "acc-1", dto.ListEntriesParams{})

	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "e2", resp.Entries[0].EntryID)
	require.NotNil(t, resp.NextToken)
	assert.Equal(t, "token-next", *resp.NextToken)
	repo.AssertExpectations(t)
}

func TestListEntries_LimitIsCapped(t *testing.T) {
	repo := new(MockLedgerRepository)
	repo.On("ListEntriesByAccount", context.Background(), "acc-1", 100, (*string)(nil)).Return([]domain.LedgerEntry{}, nil, nil).Once()

	svc := services.NewLedgerService(repo)
	_, err := svc.ListEntries(context.Background(), "acc-1", dto.ListEntriesParams{Limit: 5000})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetTransfer_ReturnsBothSides(t *testing.T) {
	repo := new(MockLedgerRepository)
	entries := []domain.LedgerEntry{
		{EntryID: "e1", TransferID: "tr-1", AccountID: "acc-1", Direction: domain.Credit, Amount: decimal.NewFromInt(10)},
		{EntryID: "e2", TransferID: "tr-1", AccountID: "acc-2", Direction: domain.Debit, Amount: decimal.NewFromInt(10)},
	}
	repo.On("FindEntriesByTransferID", context.Background(), "tr-1").Return(entries, nil).Once()

	svc := services.NewLedgerService(repo)
	resp, err := svc.GetTransfer(context.Background(), "acc-1", "tr-1")

	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "tr-1", resp.Entries[0].TransferID)
	repo.AssertExpectations(t)
}

func TestGetTransfer_NonPartySeesNotFound(t *testing.T) {
	repo := new(MockLedgerRepository)
	entries := []domain.LedgerEntry{
		{EntryID: "e1", TransferID: "tr-1", AccountID: "acc-1", Direction: domain.Credit},
		{EntryID: "e2", TransferID: "tr-1", AccountID: "acc-2", Direction: domain.Debit},
	}
	repo.On("FindEntriesByTransferID", context.Background(), "tr-1").Return(entries, nil).Once()

	svc := services.NewLedgerService(repo)
	_, err := svc.GetTransfer(context.Background(), "acc-3", "tr-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetTransfer_UnknownTransfer(t *testing.T) {
	repo := new(MockLedgerRepository)
	repo.On("FindEntriesByTransferID", context.Background(), "tr-missing").Return(nil, apperrors.ErrNotFound).Once()

	svc := services.NewLedgerService(repo)
	_, err := svc.GetTransfer(context.Background(), "acc-1", "tr-missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
