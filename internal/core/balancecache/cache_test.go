package balancecache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paywave/paywave_backend/internal/core/changefeed"
	"github.com/paywave/paywave_backend/internal/core/domain"
)

func snapshot(accountID string, balance int64, revision int64) domain.AccountSnapshot {
	return domain.AccountSnapshot{
		AccountID:  accountID,
		Balance:    decimal.NewFromInt(balance),
		CardStatus: domain.CardActive,
		KYCStatus:  domain.KYCVerified,
		Revision:   revision,
		UpdatedAt:  time.Now(),
	}
}

func TestBeginConfirm(t *testing.T) {
	c := NewFromSnapshot(snapshot("acc-1", 100, 1))

	require.NoError(t, c.BeginTransfer(decimal.NewFromInt(30)))
	assert.Equal(t, OptimisticallyAdjusted, c.State())
	assert.True(t, c.Balance().Equal(decimal.NewFromInt(70)), "optimistic debit applies immediately")

	c.Confirm(&domain.TransferResult{
		SenderBalance:  decimal.NewFromInt(70),
		SenderRevision: 2,
	})
	assert.Equal(t, Stable, c.State())
	assert.True(t, c.Balance().Equal(decimal.NewFromInt(70)))
	assert.Equal(t, int64(2), c.Revision())
}

func TestBeginFail_RestoresPreviousBalance(t *testing.T) {
	c := NewFromSnapshot(snapshot("acc-1", 100, 1))

	require.NoError(t, c.BeginTransfer(decimal.NewFromInt(30)))
	c.Fail()

	assert.Equal(t, Stable, c.State())
	assert.True(t, c.Balance().Equal(decimal.NewFromInt(100)), "rollback restores the snapshot taken at begin")
}

func TestSecondTransferWhileInFlight(t *testing.T) {
	c := NewFromSnapshot(snapshot("acc-1", 100, 1))

	require.NoError(t, c.BeginTransfer(decimal.NewFromInt(10)))
	err := c.BeginTransfer(decimal.NewFromInt(5))
	assert.ErrorIs(t, err, ErrTransferInFlight)
}

func TestAuthoritativeWinsOverOptimistic(t *testing.T) {
	c := NewFromSnapshot(snapshot("acc-1", 100, 1))

	require.NoError(t, c.BeginTransfer(decimal.NewFromInt(30)))
	// A concurrent incoming credit lands mid-flight.
	applied := c.ApplyAuthoritative(snapshot("acc-1", 150, 2))

	assert.True(t, applied)
	assert.True(t, c.Balance().Equal(decimal.NewFromInt(150)), "authoritative value overrides the optimistic one")
}

func TestFailAfterAuthoritative_KeepsAuthoritativeValue(t *testing.T) {
	// The transfer fails, but an authoritative snapshot arrived during
	// the flight. That snapshot already excludes the failed debit and
	// includes the unrelated credit, so rolling back to previousBalance
	// would lose the credit.
	c := NewFromSnapshot(snapshot("acc-1", 100, 1))

	require.NoError(t, c.BeginTransfer(decimal.NewFromInt(30)))
	c.ApplyAuthoritative(snapshot("acc-1", 150, 2))
	c.Fail()

	assert.Equal(t, Stable, c.State())
	assert.True(t, c.Balance().Equal(decimal.NewFromInt(150)))
}

func TestStaleSnapshotsAreDropped(t *testing.T) {
	c := NewFromSnapshot(snapshot("acc-1", 100, 5))

	assert.False(t, c.ApplyAuthoritative(snapshot("acc-1", 42, 5)), "same revision is a duplicate")
	assert.False(t, c.ApplyAuthoritative(snapshot("acc-1", 42, 3)), "older revision is stale")
	assert.True(t, c.Balance().Equal(decimal.NewFromInt(100)))

	assert.True(t, c.ApplyAuthoritative(snapshot("acc-1", 42, 6)))
	assert.True(t, c.Balance().Equal(decimal.NewFromInt(42)))
}

func TestSnapshotForOtherAccountIsIgnored(t *testing.T) {
	c := NewFromSnapshot(snapshot("acc-1", 100, 1))

	assert.False(t, c.ApplyAuthoritative(snapshot("acc-2", 999, 10)))
	assert.True(t, c.Balance().Equal(decimal.NewFromInt(100)))
}

func TestConfirmWithStaleResultKeepsNewerRevision(t *testing.T) {
	// The feed delivered the post-transfer snapshot before the
	// coordinator response came back; Confirm must not regress it.
	c := NewFromSnapshot(snapshot("acc-1", 100, 1))

	require.NoError(t, c.BeginTransfer(decimal.NewFromInt(30)))
	c.ApplyAuthoritative(snapshot("acc-1", 90, 3))

	c.Confirm(&domain.TransferResult{
		SenderBalance:  decimal.NewFromInt(70),
		SenderRevision: 2,
	})

	assert.Equal(t, Stable, c.State())
	assert.True(t, c.Balance().Equal(decimal.NewFromInt(90)))
	assert.Equal(t, int64(3), c.Revision())
}

func TestFollowAppliesFeedSnapshots(t *testing.T) {
	bus := changefeed.NewBus()
	c := NewFromSnapshot(snapshot("acc-1", 100, 1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Follow(ctx, bus) }()

	// Give the follower a moment to subscribe before publishing.
	require.Eventually(t, func() bool {
		_ = bus.Publish(context.Background(), snapshot("acc-1", 250, 2))
		return c.Revision() == 2
	}, time.Second, 5*time.Millisecond)

	assert.True(t, c.Balance().Equal(decimal.NewFromInt(250)))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Follow did not return after cancel")
	}
}
