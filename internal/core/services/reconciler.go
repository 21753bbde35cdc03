package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/paywave/paywave_backend/internal/apperrors"
	"github.com/paywave/paywave_backend/internal/core/domain"
	portsrepo "github.com/paywave/paywave_backend/internal/core/ports/repositories"
)

// pendingAppend is one batch of ledger entries awaiting backfill.
type pendingAppend struct {
	entries  []domain.LedgerEntry
	attempts int
	notAfter time.Time // earliest next attempt
}

// LedgerReconciler backfills ledger entries whose synchronous append
// failed after a balance commit. Entries are never dropped: the ledger is
// eventually consistent with committed balances, and entry IDs make the
// retried appends idempotent. Attempts beyond maxAttempts keep retrying
// at the capped backoff but are logged at error level for operators.
type LedgerReconciler struct {
	ledgerRepo  portsrepo.LedgerAppender
	logger      *slog.Logger
	interval    time.Duration
	maxAttempts int
	breaker     *gobreaker.CircuitBreaker

	mu      sync.Mutex
	pending []pendingAppend
}

// NewLedgerReconciler creates a reconciler flushing every interval.
func NewLedgerReconciler(ledgerRepo portsrepo.LedgerAppender, logger *slog.Logger, interval time.Duration, maxAttempts int) *LedgerReconciler {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "ledger-append",
		Timeout: interval * 2,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &LedgerReconciler{
		ledgerRepo:  ledgerRepo,
		logger:      logger,
		interval:    interval,
		maxAttempts: maxAttempts,
		breaker:     breaker,
	}
}

var _ LedgerBackfiller = (*LedgerReconciler)(nil)

// Enqueue schedules entries for backfill on the next flush.
func (r *LedgerReconciler) Enqueue(entries []domain.LedgerEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, pendingAppend{entries: entries})
}

// PendingCount reports how many batches await backfill.
func (r *LedgerReconciler) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Run flushes pending batches until the context is cancelled.
func (r *LedgerReconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Flush(ctx)
		}
	}
}

// Flush attempts every due pending batch once. Exported so tests and
// shutdown paths can drive the reconciler without the ticker.
func (r *LedgerReconciler) Flush(ctx context.Context) {
	r.mu.Lock()
	due := r.pending
	r.pending = nil
	r.mu.Unlock()

	now := time.Now()
	var remaining []pendingAppend
	for _, batch := range due {
		if now.Before(batch.notAfter) {
			remaining = append(remaining, batch)
			continue
		}

		_, err := r.breaker.Execute(func() (interface{}, error) {
			return nil, r.ledgerRepo.AppendEntries(ctx, batch.entries)
		})
		if err == nil {
			r.logger.Info("Ledger entries backfilled",
				slog.String("transfer_id", batch.entries[0].TransferID),
				slog.Int("attempts", batch.attempts+1))
			continue
		}

		batch.attempts++
		batch.notAfter = now.Add(r.backoff(batch.attempts))
		// Transient store failures and open-breaker skips heal on their
		// own; anything else escalates immediately instead of waiting
		// out the attempt budget.
		retryable := apperrors.IsRetryable(err) ||
			errors.Is(err, gobreaker.ErrOpenState) ||
			errors.Is(err, gobreaker.ErrTooManyRequests)
		if !retryable || batch.attempts >= r.maxAttempts {
			r.logger.Error("Ledger backfill still failing past attempt budget",
				slog.String("transfer_id", batch.entries[0].TransferID),
				slog.Int("attempts", batch.attempts),
				slog.String("error", err.Error()))
		} else {
			r.logger.Warn("Ledger backfill attempt failed",
				slog.String("transfer_id", batch.entries[0].TransferID),
				slog.Int("attempts", batch.attempts),
				slog.String("error", err.Error()))
		}
		remaining = append(remaining, batch)
	}

	if len(remaining) > 0 {
		r.mu.Lock()
		r.pending = append(remaining, r.pending...)
		r.mu.Unlock()
	}
}

// backoff doubles the flush interval per attempt, capped at maxAttempts
// doublings.
func (r *LedgerReconciler) backoff(attempts int) time.Duration {
	n := attempts
	if n > r.maxAttempts {
		n = r.maxAttempts
	}
	d := r.interval
	for i := 1; i < n; i++ {
		d *= 2
	}
	return d
}
