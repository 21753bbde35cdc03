package services

import (
	"context"
	"fmt"

	"github.com/paywave/paywave_backend/internal/apperrors"
	portsrepo "github.com/paywave/paywave_backend/internal/core/ports/repositories"
	portssvc "github.com/paywave/paywave_backend/internal/core/ports/services"
	"github.com/paywave/paywave_backend/internal/dto"
)

const (
	defaultEntriesPageSize = 25
	maxEntriesPageSize     = 100
)

// ledgerService exposes transaction history reads.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// NewLedgerService creates a ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

// ListEntries retrieves an account's ledger entries, newest first.
func (s *ledgerService) ListEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultEntriesPageSize
	}
	if limit > maxEntriesPageSize {
		limit = maxEntriesPageSize
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// GetTransfer retrieves both sides of one transfer. Entries are only
// disclosed to a party of the transfer; anyone else sees not-found.
func (s *ledgerService) GetTransfer(ctx context.Context, accountID string, transferID string) (*dto.ListEntriesResponse, error) {
	entries, err := s.ledgerRepo.FindEntriesByTransferID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	party := false
	for _, entry := range entries {
		if entry.AccountID == accountID {
			party = true
			break
		}
	}
	if !party {
		return nil, fmt.Errorf("%w: transfer %s", apperrors.ErrNotFound, transferID)
	}

	return &dto.ListEntriesResponse{
		Entries: dto.ToLedgerEntryResponses(entries),
	}, nil
}
