package paymentlog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentFailuresNewestFirst(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider(100)

	now := time.Now()
	require.NoError(t, provider.Append(ctx, Entry{TransactionID: "tx-1", Status: StatusFailed, CreatedAt: now.Add(-3 * time.Hour)}))
	require.NoError(t, provider.Append(ctx, Entry{TransactionID: "tx-2", Status: StatusSuccess, CreatedAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, provider.Append(ctx, Entry{TransactionID: "tx-3", Status: StatusFailed, CreatedAt: now.Add(-1 * time.Hour)}))

	failures, err := provider.RecentFailures(ctx, 5)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, "tx-3", failures[0].TransactionID)
	assert.Equal(t, "tx-1", failures[1].TransactionID)
}

func TestRecentFailuresLimit(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider(100)

	for i := 0; i < 10; i++ {
		require.NoError(t, provider.Append(ctx, Entry{
			TransactionID: fmt.Sprintf("tx-%d", i),
			Status:        StatusFailed,
			CreatedAt:     time.Now(),
		}))
	}

	failures, err := provider.RecentFailures(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, failures, 3)
}

func TestCountByStatusSince(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider(100)

	now := time.Now()
	cutoff := now.Add(-30 * 24 * time.Hour)

	require.NoError(t, provider.Append(ctx, Entry{Status: StatusFailed, CreatedAt: now.Add(-40 * 24 * time.Hour)}))
	require.NoError(t, provider.Append(ctx, Entry{Status: StatusFailed, CreatedAt: now.Add(-10 * 24 * time.Hour)}))
	require.NoError(t, provider.Append(ctx, Entry{Status: StatusSuccess, CreatedAt: now}))

	count, err := provider.CountByStatusSince(ctx, StatusFailed, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCapacityDropsOldest(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider(2)

	require.NoError(t, provider.Append(ctx, Entry{TransactionID: "tx-1", Status: StatusFailed, CreatedAt: time.Now()}))
	require.NoError(t, provider.Append(ctx, Entry{TransactionID: "tx-2", Status: StatusFailed, CreatedAt: time.Now()}))
	require.NoError(t, provider.Append(ctx, Entry{TransactionID: "tx-3", Status: StatusFailed, CreatedAt: time.Now()}))

	failures, err := provider.RecentFailures(ctx, 10)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, "tx-3", failures[0].TransactionID)
	assert.Equal(t, "tx-2", failures[1].TransactionID)
}
