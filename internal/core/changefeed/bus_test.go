package changefeed

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paywave/paywave_backend/internal/core/domain"
)

func busSnapshot(accountID string, revision int64) domain.AccountSnapshot {
	return domain.AccountSnapshot{
		AccountID: accountID,
		Balance:   decimal.NewFromInt(100),
		Revision:  revision,
		UpdatedAt: time.Now(),
	}
}

func TestBusDeliversToAccountSubscribers(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	subA, err := bus.Subscribe(ctx, "acc-a")
	require.NoError(t, err)
	defer subA.Close()
	subB, err := bus.Subscribe(ctx, "acc-b")
	require.NoError(t, err)
	defer subB.Close()

	require.NoError(t, bus.Publish(ctx, busSnapshot("acc-a", 1)))

	select {
	case got := <-subA.Snapshots():
		assert.Equal(t, "acc-a", got.AccountID)
		assert.Equal(t, int64(1), got.Revision)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive snapshot")
	}

	select {
	case got := <-subB.Snapshots():
		t.Fatalf("acc-b subscriber received foreign snapshot: %+v", got)
	default:
	}
}

func TestBusFanOut(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	first, err := bus.Subscribe(ctx, "acc-a")
	require.NoError(t, err)
	defer first.Close()
	second, err := bus.Subscribe(ctx, "acc-a")
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, bus.Publish(ctx, busSnapshot("acc-a", 2)))

	for _, sub := range []Subscription{first, second} {
		select {
		case got := <-sub.Snapshots():
			assert.Equal(t, int64(2), got.Revision)
		case <-time.After(time.Second):
			t.Fatal("fan-out subscriber did not receive snapshot")
		}
	}
}

func TestBusSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	sub, err := bus.Subscribe(ctx, "acc-a")
	require.NoError(t, err)
	defer sub.Close()

	// Overflow the buffer; Publish must never block.
	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, bus.Publish(ctx, busSnapshot("acc-a", int64(i+1))))
	}

	// The buffered snapshots are still readable.
	received := 0
	for {
		select {
		case <-sub.Snapshots():
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, received)
}

func TestBusCloseStopsDelivery(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	sub, err := bus.Subscribe(ctx, "acc-a")
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close(), "double close is safe")

	require.NoError(t, bus.Publish(ctx, busSnapshot("acc-a", 1)))

	_, open := <-sub.Snapshots()
	assert.False(t, open, "channel must be closed after Close")
}
