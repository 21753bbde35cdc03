package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paywave/paywave_backend/internal/apperrors"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, apperrors.IsRetryable(apperrors.ErrStoreUnavailable))
	assert.True(t, apperrors.IsRetryable(apperrors.ErrConflict))
	assert.True(t, apperrors.IsRetryable(fmt.Errorf("%w: db down", apperrors.ErrStoreUnavailable)))

	assert.False(t, apperrors.IsRetryable(apperrors.ErrInsufficientFunds))
	assert.False(t, apperrors.IsRetryable(apperrors.ErrNotFound))
	assert.False(t, apperrors.IsRetryable(errors.New("schema violation")))
	assert.False(t, apperrors.IsRetryable(nil))
}

func TestAppErrorUnwrap(t *testing.T) {
	underlying := errors.New("parse failure")
	appErr := apperrors.NewAppError(400, "invalid nextToken", underlying)

	assert.Equal(t, "invalid nextToken: parse failure", appErr.Error())
	assert.ErrorIs(t, appErr, underlying)

	bare := apperrors.NewAppError(500, "internal", nil)
	assert.Equal(t, "internal", bare.Error())
}
