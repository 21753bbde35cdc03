package services

import (
	"context"

	"github.com/paywave/paywave_backend/internal/core/domain"
)

// TransferSvcFacade is the transfer coordinator contract.
type TransferSvcFacade interface {
	// Transfer validates the sender's entitlement, atomically debits the
	// sender and credits the receiver, and appends mirrored ledger
	// entries. Failures are reported as apperrors sentinels from the
	// transfer taxonomy; on any failure neither balance has moved.
	Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
}

// ResolverSvcFacade maps a public payment identifier to an account.
type ResolverSvcFacade interface {
	// Resolve performs a side-effect-free point lookup by UPI ID.
	// Returns apperrors.ErrReceiverNotFound when no account matches.
	Resolve(ctx context.Context, upiID string) (*domain.Account, error)
}
