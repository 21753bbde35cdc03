package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Transfer taxonomy. Every transfer failure maps to exactly one of these
// so callers can render a specific message.
var (
	// ErrInvalidAmount indicates a non-positive or over-precise transfer amount.
	ErrInvalidAmount = errors.New("transfer amount is invalid")

	// ErrInvalidReceiver indicates an empty or self-referential receiver identifier.
	ErrInvalidReceiver = errors.New("receiver identifier is invalid")

	// ErrReceiverNotFound indicates no account matches the receiver UPI ID.
	ErrReceiverNotFound = errors.New("receiver not found")

	// ErrSenderBanned indicates the sender account is banned from transfers.
	ErrSenderBanned = errors.New("sender account is banned")

	// ErrCardFrozen indicates the sender's card is frozen.
	ErrCardFrozen = errors.New("card is frozen")

	// ErrComplianceRequired indicates the sender has not completed KYC verification.
	ErrComplianceRequired = errors.New("identity verification required")

	// ErrInsufficientFunds indicates the sender balance cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrStoreUnavailable indicates a transient infrastructure failure. Retryable.
	ErrStoreUnavailable = errors.New("account store unavailable")

	// ErrConflict indicates the transaction was aborted due to contention. Retryable.
	ErrConflict = errors.New("operation conflicted with a concurrent update")
)

// AppError wraps an underlying error with a status code and message for
// repository internals that need to carry more context than a sentinel.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error represents a transient failure the
// caller may retry with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrConflict)
}
