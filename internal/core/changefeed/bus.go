package changefeed

import (
	"context"
	"sync"

	"github.com/paywave/paywave_backend/internal/core/domain"
)

// subscriberBuffer bounds each subscriber channel. A subscriber that
// stalls past this depth loses intermediate snapshots, which is safe:
// snapshots are full-state and revision-ordered, so the next delivered
// one supersedes anything skipped.
const subscriberBuffer = 16

// Bus is an in-process Feed implementation: a mutex-guarded fan-out of
// account snapshots to subscriber channels. It backs the service when no
// Redis URL is configured and is the Feed used throughout the tests.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[*busSubscription]struct{}
}

// NewBus creates an empty in-process feed.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]map[*busSubscription]struct{}),
	}
}

var _ Feed = (*Bus)(nil)

type busSubscription struct {
	bus       *Bus
	accountID string
	ch        chan domain.AccountSnapshot
	closeOnce sync.Once
}

func (s *busSubscription) Snapshots() <-chan domain.AccountSnapshot {
	return s.ch
}

func (s *busSubscription) Close() error {
	s.closeOnce.Do(func() {
		s.bus.remove(s)
		close(s.ch)
	})
	return nil
}

// Publish fans the snapshot out to every subscriber of the account.
// Slow subscribers are skipped rather than blocking the publisher.
func (b *Bus) Publish(_ context.Context, snapshot domain.AccountSnapshot) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[snapshot.AccountID] {
		select {
		case sub.ch <- snapshot:
		default:
		}
	}
	return nil
}

// Subscribe opens a snapshot stream for one account.
func (b *Bus) Subscribe(_ context.Context, accountID string) (Subscription, error) {
	sub := &busSubscription{
		bus:       b,
		accountID: accountID,
		ch:        make(chan domain.AccountSnapshot, subscriberBuffer),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[accountID] == nil {
		b.subs[accountID] = make(map[*busSubscription]struct{})
	}
	b.subs[accountID][sub] = struct{}{}
	return sub, nil
}

func (b *Bus) remove(sub *busSubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[sub.accountID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.subs, sub.accountID)
		}
	}
}
