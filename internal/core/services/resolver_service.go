package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/paywave/paywave_backend/internal/core/domain"
	portsrepo "github.com/paywave/paywave_backend/internal/core/ports/repositories"
	portssvc "github.com/paywave/paywave_backend/internal/core/ports/services"
)

// resolverService resolves payment identifiers to accounts ahead of a
// transfer, so the sender can confirm who they are paying.
type resolverService struct {
	accountRepo portsrepo.AccountReader
}

var _ portssvc.ResolverSvcFacade = (*resolverService)(nil)

// NewResolverService creates a receiver resolver.
func NewResolverService(accountRepo portsrepo.AccountReader) portssvc.ResolverSvcFacade {
	return &resolverService{accountRepo: accountRepo}
}

// Resolve looks up the account owning a UPI ID. A missing identifier maps
// to ErrReceiverNotFound; resolution is advisory and a later transfer
// revalidates the receiver inside its own transaction.
func (s *resolverService) Resolve(ctx context.Context, upiID string) (*domain.Account, error) {
	upiID = strings.ToLower(strings.TrimSpace(upiID))
	if upiID == "" {
		return nil, fmt.Errorf("%w: empty UPI ID", apperrors.ErrInvalidReceiver)
	}

	account, err := s.accountRepo.FindAccountByUPI(ctx, upiID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account owns %s", apperrors.ErrReceiverNotFound, upiID)
		}
		return nil, err
	}
	return account, nil
}
