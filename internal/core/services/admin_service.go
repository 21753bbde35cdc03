package services

import (
	"context"
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
	"github.com/paywave/paywave_backend/internal/dto"
	"github.com/paywave/paywave_backend/internal/middleware"
)

// treasuryUPI is the counterparty recorded on admin fund injections.
const treasuryUPI = "treasury@paywave"

// adminService performs privileged account actions. Every method checks
// the acting account's role before touching the target.
type adminService struct {
	accountRepo portsrepo.AccountRepositoryWithTx
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	feed        changefeed.Publisher
	reconciler  LedgerBackfiller
}

var _ portssvc.AdminSvcFacade = (*adminService)(nil)

// NewAdminService creates an admin service.
func NewAdminService(accountRepo portsrepo.AccountRepositoryWithTx, ledgerRepo portsrepo.LedgerRepositoryFacade, feed changefeed.Publisher, reconciler LedgerBackfiller) portssvc.AdminSvcFacade {
	return &adminService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		feed:        feed,
		reconciler:  reconciler,
	}
}

// requireAdmin loads the acting account and rejects non-admins.
func (s *adminService) requireAdmin(ctx context.Context, actorID string) error {
	actor, err := s.accountRepo.FindAccountByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: account %s is not an admin", apperrors.ErrForbidden, actorID)
	}
	return nil
}

// ListAccounts retrieves all accounts for the admin console.
func (s *adminService) ListAccounts(ctx context.Context, actorID string, limit, offset int) ([]domain.Account, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccounts(ctx, limit, offset)
}

// InjectFunds credits an account from the treasury inside a serializable
// transaction and records a single CREDIT ledger entry for it.
func (s *adminService) InjectFunds(ctx context.Context, actorID string, accountID string, req dto.InjectFundsRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var updated domain.Account
	err := s.accountRepo.WithSerializableTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{accountID}); err != nil {
			return err
		}
		changes := map[string]decimal.Decimal{accountID: req.Amount}
		result, err := s.accountRepo.ApplyBalanceChangesInTx(ctx, tx, changes, actorID, now)
		if err != nil {
			return err
		}
		updated = result[accountID]
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := domain.LedgerEntry{
		EntryID:         uuid.NewString(),
		TransferID:      uuid.NewString(),
		AccountID:       accountID,
		CounterpartyUPI: treasuryUPI,
		Amount:          req.Amount,
		Direction:       domain.Credit,
		Status:          domain.EntryCompleted,
		Note:            req.Note,
		Timestamp:       now,
	}
	entries := []domain.LedgerEntry{entry}
	if err := s.ledgerRepo.AppendEntries(ctx, entries); err != nil {
		logger.Error("Ledger append failed after fund injection, handing to reconciler",
			slog.String("account_id", accountID), slog.String("error", err.Error()))
		s.reconciler.Enqueue(entries)
	}

	s.publishSnapshot(ctx, logger, updated)
	logger.Info("Funds injected",
		slog.String("admin_id", actorID),
		slog.String("account_id", accountID),
		slog.String("amount", req.Amount.String()),
	)
	return &updated, nil
}

// SetBanned bans or unbans an account.
func (s *adminService) SetBanned(ctx context.Context, actorID string, accountID string, banned bool) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := s.accountRepo.UpdateBanned(ctx, accountID, banned, actorID, time.Now().UTC()); err != nil {
		return err
	}
	return s.publishCurrent(ctx, accountID)
}

// SetCardFrozen freezes or unfreezes any account's card.
func (s *adminService) SetCardFrozen(ctx context.Context, actorID string, accountID string, frozen bool) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	status := domain.CardActive
	if frozen {
		status = domain.CardFrozen
	}
	if err := s.accountRepo.UpdateCardStatus(ctx, accountID, status, actorID, time.Now().UTC()); err != nil {
		return err
	}
	return s.publishCurrent(ctx, accountID)
}

// VerifyKYC marks an account's identity verification as complete.
func (s *adminService) VerifyKYC(ctx context.Context, actorID string, accountID string) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := s.accountRepo.UpdateKYCStatus(ctx, accountID, domain.KYCVerified, actorID, time.Now().UTC()); err != nil {
		return err
	}
	return s.publishCurrent(ctx, accountID)
}

// publishCurrent re-reads the account and publishes its snapshot so feed
// followers see status changes, not just balance moves.
func (s *adminService) publishCurrent(ctx context.Context, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	s.publishSnapshot(ctx, logger, *account)
	return nil
}

func (s *adminService) publishSnapshot(ctx context.Context, logger *slog.Logger, account domain.Account) {
	if err := s.feed.Publish(ctx, account.Snapshot()); err != nil {
		logger.Warn("Failed to publish account snapshot",
			slog.String("account_id", account.AccountID), slog.String("error", err.Error()))
	}
}
