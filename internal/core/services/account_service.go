package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/paywave/paywave_backend/internal/core/changefeed"
	"github.com/paywave/paywave_backend/internal/core/domain"
	portsrepo "github.com/paywave/paywave_backend/internal/core/ports/repositories"
	portssvc "github.com/paywave/paywave_backend/internal/core/ports/services"
	"github.com/paywave/paywave_backend/internal/dto"
	"github.com/paywave/paywave_backend/internal/middleware"
	"github.com/paywave/paywave_backend/internal/utils"
)

// accountService manages account lifecycle: registration with card
// provisioning and sign-up bonus, lookups, and self-service card freeze.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	feed        changefeed.Publisher
	signupBonus decimal.Decimal
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// NewAccountService creates an account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, feed changefeed.Publisher, signupBonus decimal.Decimal) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		feed:        feed,
		signupBonus: signupBonus,
	}
}

// Register creates a new account with a freshly provisioned virtual card
// and the configured sign-up bonus as the opening balance.
func (s *accountService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return nil, fmt.Errorf("%w: failed to hash password", apperrors.ErrInternal)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	displayName := req.DisplayName
	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}

	card, err := provisionCard(displayName)
	if err != nil {
		logger.Error("Failed to provision card", "error", err)
		return nil, fmt.Errorf("%w: failed to provision card", apperrors.ErrInternal)
	}

	now := time.Now().UTC()
	accountID := uuid.NewString()
	account := domain.Account{
		AccountID:    accountID,
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		UPIID:        strings.ToLower(strings.TrimSpace(req.UPIID)),
		Balance:      s.signupBonus,
		Card:         card,
		KYCStatus:    domain.KYCPending,
		Banned:       false,
		Role:         domain.RoleUser,
		Revision:     1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     accountID,
			LastUpdatedAt: now,
			LastUpdatedBy: accountID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	logger.Info("Account registered", "account_id", account.AccountID, "upi_id", account.UPIID)
	return &account, nil
}

// GetAccountByID retrieves an account by its ID.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// SetCardFrozen freezes or unfreezes the account's card and publishes the
// resulting snapshot on the change feed.
func (s *accountService) SetCardFrozen(ctx context.Context, accountID string, frozen bool) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	status := domain.CardActive
	if frozen {
		status = domain.CardFrozen
	}
	if err := s.accountRepo.UpdateCardStatus(ctx, accountID, status, accountID, time.Now().UTC()); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.feed.Publish(ctx, account.Snapshot()); err != nil {
		logger.Warn("Failed to publish card status change", "account_id", accountID, "error", err)
	}
	logger.Info("Card status updated", "account_id", accountID, "card_status", string(status))
	return account, nil
}

// provisionCard generates the virtual card issued at registration.
func provisionCard(holder string) (domain.Card, error) {
	number, err := utils.GenerateCardNumber()
	if err != nil {
		return domain.Card{}, err
	}
	cvv, err := utils.GenerateCardCVV()
	if err != nil {
		return domain.Card{}, err
	}
	return domain.Card{
		Number: number,
		CVV:    cvv,
		Expiry: utils.CardExpiry(time.Now().UTC()),
		Holder: holder,
		Status: domain.CardActive,
	}, nil
}
