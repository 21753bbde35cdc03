// Package balancecache holds the client-side view of one account's
// balance. The caller adjusts it optimistically when initiating a
// transfer and the change feed reconciles it with the authoritative
// store. All rollback semantics live here so call sites cannot diverge.
package balancecache

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/paywave/paywave_backend/internal/core/changefeed"
	"github.com/paywave/paywave_backend/internal/core/domain"
)

// State is the cache's position in the reconciliation protocol.
type State int

const (
	// Stable means the cache matches the last confirmed server value.
	Stable State = iota

	// OptimisticallyAdjusted means a local delta is applied and the
	// server write is in flight.
	OptimisticallyAdjusted
)

// ErrTransferInFlight is returned when a transfer is initiated while a
// previous optimistic adjustment has not yet resolved.
var ErrTransferInFlight = errors.New("a transfer is already in flight")

// Cache is the local balance view for a single account.
//
// Invariants:
//   - the optimistic delta applies to the value displayed at the instant
//     the transfer starts, captured as previousBalance;
//   - an authoritative snapshot always overrides the optimistic value;
//   - on failure the cache returns to previousBalance unless an
//     authoritative snapshot arrived mid-flight, in which case that
//     snapshot's value stands (it already reflects the failed transfer's
//     absence plus any unrelated concurrent changes).
type Cache struct {
	mu        sync.Mutex
	accountID string
	balance   decimal.Decimal
	revision  int64
	state     State

	previousBalance    decimal.Decimal
	authoritativeSince bool // authoritative snapshot applied since BeginTransfer
}

// NewFromSnapshot creates a cache seeded with an authoritative snapshot.
func NewFromSnapshot(snapshot domain.AccountSnapshot) *Cache {
	return &Cache{
		accountID: snapshot.AccountID,
		balance:   snapshot.Balance,
		revision:  snapshot.Revision,
		state:     Stable,
	}
}

// AccountID returns the account this cache follows.
func (c *Cache) AccountID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accountID
}

// Balance returns the currently displayed balance.
func (c *Cache) Balance() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance
}

// Revision returns the last authoritative revision applied.
func (c *Cache) Revision() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// State returns the cache's current protocol state.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// BeginTransfer applies the optimistic debit to the currently displayed
// value and snapshots that value for a potential rollback. Only one
// transfer may be in flight at a time.
func (c *Cache) BeginTransfer(amount decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Stable {
		return ErrTransferInFlight
	}
	c.previousBalance = c.balance
	c.balance = c.balance.Sub(amount)
	c.authoritativeSince = false
	c.state = OptimisticallyAdjusted
	return nil
}

// Confirm resolves the in-flight transfer as successful. The coordinator
// result carries the authoritative post-commit sender balance, which is
// applied with the same revision gating as a feed snapshot.
func (c *Cache) Confirm(result *domain.TransferResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != OptimisticallyAdjusted {
		return
	}
	if result != nil && result.SenderRevision > c.revision {
		c.balance = result.SenderBalance
		c.revision = result.SenderRevision
	}
	c.state = Stable
}

// Fail resolves the in-flight transfer as failed and rolls the display
// back. The restore target is the explicit previousBalance snapshot, not
// "current minus delta" — unless an authoritative snapshot arrived during
// the flight, which already supersedes both.
func (c *Cache) Fail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != OptimisticallyAdjusted {
		return
	}
	if !c.authoritativeSince {
		c.balance = c.previousBalance
	}
	c.state = Stable
}

// ApplyAuthoritative applies a change-feed snapshot. Snapshots at or
// below the last applied revision are dropped (at-least-once delivery);
// newer ones always win, optimistic adjustment or not. Returns whether
// the snapshot was applied.
func (c *Cache) ApplyAuthoritative(snapshot domain.AccountSnapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if snapshot.AccountID != c.accountID || snapshot.Revision <= c.revision {
		return false
	}
	c.balance = snapshot.Balance
	c.revision = snapshot.Revision
	if c.state == OptimisticallyAdjusted {
		c.authoritativeSince = true
	}
	return true
}

// Follow subscribes to the change feed and applies snapshots until the
// context is cancelled or the subscription closes.
func (c *Cache) Follow(ctx context.Context, feed changefeed.Feed) error {
	sub, err := feed.Subscribe(ctx, c.AccountID())
	if err != nil {
		return err
	}
	defer sub.Close()

	for {
		select {
		case snapshot, ok := <-sub.Snapshots():
			if !ok {
				return nil
			}
			c.ApplyAuthoritative(snapshot)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
