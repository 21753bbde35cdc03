package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/paywave/paywave_backend/internal/core/domain"
	"github.com/paywave/paywave_backend/internal/core/services"
)

func TestResolve_Success(t *testing.T) {
	repo := new(MockAccountRepository)
	account := domain.Account{AccountID: "acc-1", UPIID: "bob@paywave", DisplayName: "Bob"}
	repo.On("FindAccountByUPI", context.Background(), "bob@paywave").Return(&account, nil).Once()

	svc := services.NewResolverService(repo)
	resolved, err := svc.Resolve(context.Background(), "  Bob@PayWave ")

	require.NoError(t, err)
	assert.Equal(t, "bob@paywave", resolved.UPIID)
	assert.Equal(t, "Bob", resolved.DisplayName)
	repo.AssertExpectations(t)
}

func TestResolve_NotFound(t *testing.T) {
	repo := new(MockAccountRepository)
	repo.On("FindAccountByUPI", context.Background(), "ghost@paywave").Return(nil, apperrors.ErrNotFound).Once()

	svc := services.NewResolverService(repo)
	_, err := svc.Resolve(context.Background(), "ghost@paywave")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrReceiverNotFound)
}

func TestResolve_EmptyIdentifier(t *testing.T) {
	repo := new(MockAccountRepository)

	svc := services.NewResolverService(repo)
	_, err := svc.Resolve(context.Background(), "   ")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidReceiver)
	repo.AssertNotCalled(t, "FindAccountByUPI", context.Background(), "")
}
