// Package changefeed delivers account snapshots to interested
// subscribers after every balance- or status-affecting write. Delivery is
// at-least-once and per-account ordering follows the row revision, so
// consumers deduplicate by comparing snapshot revisions.
package changefeed

import (
	"context"

	"github.com/paywave/paywave_backend/internal/core/domain"
)

// Publisher pushes an account snapshot to all subscribers of that account.
type Publisher interface {
	Publish(ctx context.Context, snapshot domain.AccountSnapshot) error
}

// Subscription is one subscriber's handle on an account's snapshot stream.
type Subscription interface {
	// Snapshots is closed when the subscription ends.
	Snapshots() <-chan domain.AccountSnapshot

	// Close terminates the subscription and releases its resources.
	Close() error
}

// Feed combines publishing with per-account subscription.
type Feed interface {
	Publisher

	// Subscribe opens a snapshot stream for one account.
	Subscribe(ctx context.Context, accountID string) (Subscription, error)
}
