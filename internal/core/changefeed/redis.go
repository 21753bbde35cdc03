package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/paywave/paywave_backend/internal/core/domain"
)

// RedisFeed is a Feed implementation over Redis pub/sub. Each account maps
// to the channel "account:{id}" carrying JSON-encoded snapshots. Redis
// pub/sub gives at-least-once-per-connected-subscriber delivery; snapshot
// revisions handle the deduplication side of the contract.
type RedisFeed struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisFeed creates a Feed over the given Redis client.
func NewRedisFeed(client *redis.Client, logger *slog.Logger) *RedisFeed {
	return &RedisFeed{client: client, logger: logger}
}

var _ Feed = (*RedisFeed)(nil)

func channelFor(accountID string) string {
	return "account:" + accountID
}

// Publish sends the snapshot to the account's channel. Publishes from
// concurrent commits are not ordered relative to each other; consumers
// must gate on Revision rather than arrival order.
func (f *RedisFeed) Publish(ctx context.Context, snapshot domain.AccountSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal account snapshot: %w", err)
	}
	if err := f.client.Publish(ctx, channelFor(snapshot.AccountID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish account snapshot: %w", err)
	}
	return nil
}

type redisSubscription struct {
	pubsub    *redis.PubSub
	ch        chan domain.AccountSnapshot
	closeOnce sync.Once
}

func (s *redisSubscription) Snapshots() <-chan domain.AccountSnapshot {
	return s.ch
}

func (s *redisSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.pubsub.Close()
	})
	return err
}

// Subscribe opens a snapshot stream for one account. The stream closes
// when the subscription is closed or the context is cancelled.
func (f *RedisFeed) Subscribe(ctx context.Context, accountID string) (Subscription, error) {
	pubsub := f.client.Subscribe(ctx, channelFor(accountID))

	// Force the subscription handshake so a broken connection surfaces
	// here instead of as a silently empty stream.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to account feed: %w", err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		ch:     make(chan domain.AccountSnapshot, subscriberBuffer),
	}

	go func() {
		defer close(sub.ch)
		for msg := range pubsub.Channel() {
			var snapshot domain.AccountSnapshot
			if err := json.Unmarshal([]byte(msg.Payload), &snapshot); err != nil {
				f.logger.Warn("Dropping malformed account snapshot", slog.String("channel", msg.Channel), slog.String("error", err.Error()))
				continue
			}
			select {
			case sub.ch <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}
