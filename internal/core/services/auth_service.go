package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paywave/paywave_backend/internal/apperrors"
	portsrepo "github.com/paywave/paywave_backend/internal/core/ports/repositories"
	portssvc "github.com/paywave/paywave_backend/internal/core/ports/services"
	"github.com/paywave/paywave_backend/internal/dto"
	"github.com/paywave/paywave_backend/internal/middleware"
	"github.com/paywave/paywave_backend/internal/utils"
)

// authService verifies credentials and issues session tokens.
type authService struct {
	accountRepo portsrepo.AccountReader
	jwtSecret   string
	jwtExpiry   time.Duration
	jwtIssuer   string
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// NewAuthService creates an auth service.
func NewAuthService(accountRepo portsrepo.AccountReader, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.AuthSvcFacade {
	return &authService{
		accountRepo: accountRepo,
		jwtSecret:   jwtSecret,
		jwtExpiry:   jwtExpiry,
		jwtIssuer:   jwtIssuer,
	}
}

// Login verifies the email/password pair and returns a signed JWT.
// Unknown emails and wrong passwords both map to ErrForbidden so the
// response does not reveal which one failed.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, account.PasswordHash) {
		logger.Warn("Login failed", "account_id", account.AccountID)
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}

	token, err := utils.GenerateJWT(account.AccountID, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		logger.Error("Failed to sign token", "error", err)
		return nil, fmt.Errorf("%w: failed to sign token", apperrors.ErrInternal)
	}

	logger.Info("Login succeeded", "account_id", account.AccountID)
	return &dto.LoginResponse{
		AccountID: account.AccountID,
		Token:     token,
		ExpiresIn: int64(s.jwtExpiry.Seconds()),
	}, nil
}
