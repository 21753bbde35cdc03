package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/paywave/paywave_backend/internal/core/changefeed"
	"github.com/paywave/paywave_backend/internal/core/domain"
	portsrepo "github.com/paywave/paywave_backend/internal/core/ports/repositories"
	portssvc "github.com/paywave/paywave_backend/internal/core/ports/services"
	"github.com/paywave/paywave_backend/internal/middleware"
)

// minorUnitPlaces is the finest amount resolution accepted: two
// fractional digits, matching the accounts' minor-unit precision.
const minorUnitPlaces = 2

// transferService coordinates validation, the atomic two-account
// mutation, ledger writes and change-feed notification.
//
// Consistency split: balances are strongly consistent (they move inside
// one serializable transaction or not at all); ledger entries are
// eventually consistent (an append failure after commit is handed to the
// reconciler, never unwound).
type transferService struct {
	accountRepo portsrepo.AccountRepositoryWithTx
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	feed        changefeed.Publisher
	reconciler  LedgerBackfiller
}

// LedgerBackfiller accepts ledger entries whose synchronous append failed.
type LedgerBackfiller interface {
	Enqueue(entries []domain.LedgerEntry)
}

// NewTransferService creates the transfer coordinator.
func NewTransferService(accountRepo portsrepo.AccountRepositoryWithTx, ledgerRepo portsrepo.LedgerRepositoryFacade, feed changefeed.Publisher, reconciler LedgerBackfiller) portssvc.TransferSvcFacade {
	return &transferService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		feed:        feed,
		reconciler:  reconciler,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// validateAmount rejects non-positive or over-precise amounts.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidAmount)
	}
	// Compare against the rounded value rather than the exponent so a
	// representation with trailing zeros ("30.000") is still accepted.
	if !amount.Equal(amount.Round(minorUnitPlaces)) {
		return fmt.Errorf("%w: amount precision exceeds minor units", apperrors.ErrInvalidAmount)
	}
	return nil
}

// Transfer implements portssvc.TransferSvcFacade.
//
// Pre-checks run against the sender's last-known snapshot in the order
// amount, banned, frozen, compliance, receiver resolution. The
// money-moving decision never trusts that snapshot: sender and receiver
// are re-read and re-validated under row locks inside the serializable
// transaction.
func (s *transferService) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.ReceiverUPI == "" {
		return nil, fmt.Errorf("%w: receiver identifier is empty", apperrors.ErrInvalidReceiver)
	}

	sender, err := s.accountRepo.FindAccountByID(ctx, req.SenderAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: sender account %s", apperrors.ErrNotFound, req.SenderAccountID)
		}
		logger.Error("Failed to load sender for transfer", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	if err := sender.CanTransfer(); err != nil {
		return nil, err
	}

	if req.ReceiverUPI == sender.UPIID {
		return nil, fmt.Errorf("%w: cannot transfer to own account", apperrors.ErrInvalidReceiver)
	}

	receiver, err := s.accountRepo.FindAccountByUPI(ctx, req.ReceiverUPI)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrReceiverNotFound, req.ReceiverUPI)
		}
		logger.Error("Failed to resolve receiver for transfer", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	if receiver.AccountID == sender.AccountID {
		return nil, fmt.Errorf("%w: cannot transfer to own account", apperrors.ErrInvalidReceiver)
	}

	transferID := uuid.NewString()
	now := time.Now().UTC()

	var updatedSender, updatedReceiver domain.Account
	err = s.accountRepo.WithSerializableTx(ctx, func(tx pgx.Tx) error {
		locked, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{sender.AccountID, receiver.AccountID})
		if err != nil {
			return err
		}
		lockedSender := locked[sender.AccountID]

		// The pre-check snapshot may be stale; re-run the gates and the
		// funds check against the locked row before moving money.
		if err := lockedSender.CanTransfer(); err != nil {
			return err
		}
		if lockedSender.Balance.LessThan(req.Amount) {
			return fmt.Errorf("%w: balance %s, amount %s", apperrors.ErrInsufficientFunds, lockedSender.Balance, req.Amount)
		}

		changes := map[string]decimal.Decimal{
			sender.AccountID:   req.Amount.Neg(),
			receiver.AccountID: req.Amount,
		}
		updated, err := s.accountRepo.ApplyBalanceChangesInTx(ctx, tx, changes, sender.AccountID, now)
		if err != nil {
			return err
		}
		updatedSender = updated[sender.AccountID]
		updatedReceiver = updated[receiver.AccountID]
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Balances are committed; from here the transfer is financially
	// complete regardless of what happens to the ledger or the feed.
	debit, credit := domain.MirrorEntries(transferID, sender, receiver, req.Amount, req.Note, now)
	debit.EntryID = uuid.NewString()
	credit.EntryID = uuid.NewString()
	entries := []domain.LedgerEntry{debit, credit}

	ledgerPersisted := true
	if err := s.ledgerRepo.AppendEntries(ctx, entries); err != nil {
		ledgerPersisted = false
		logger.Error("Ledger append failed after balance commit, handing to reconciler",
			slog.String("transfer_id", transferID), slog.String("error", err.Error()))
		s.reconciler.Enqueue(entries)
	}

	s.publishSnapshot(ctx, logger, updatedSender)
	s.publishSnapshot(ctx, logger, updatedReceiver)

	logger.Info("Transfer completed",
		slog.String("transfer_id", transferID),
		slog.String("sender_id", sender.AccountID),
		slog.String("receiver_upi", receiver.UPIID),
		slog.String("amount", req.Amount.String()),
	)

	return &domain.TransferResult{
		TransferID:      transferID,
		SenderBalance:   updatedSender.Balance,
		SenderRevision:  updatedSender.Revision,
		ReceiverUPI:     receiver.UPIID,
		Amount:          req.Amount,
		CompletedAt:     now,
		LedgerPersisted: ledgerPersisted,
	}, nil
}

func (s *transferService) publishSnapshot(ctx context.Context, logger *slog.Logger, account domain.Account) {
	if err := s.feed.Publish(ctx, account.Snapshot()); err != nil {
		// Feed delivery is at-least-once over time, not per publish; a
		// lost notification is corrected by the next snapshot.
		logger.Warn("Failed to publish account snapshot",
			slog.String("account_id", account.AccountID), slog.String("error", err.Error()))
	}
}
