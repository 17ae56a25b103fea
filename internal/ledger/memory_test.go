package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	ok, err := m.Consume(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Consume(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Consume(ctx, "jti-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_Release(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	ok, err := m.Consume(ctx, "jti", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, m.Release(ctx, "jti"))

	ok, err = m.Consume(ctx, "jti", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	ok, err := m.Consume(ctx, "jti", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, m.Len())

	now = now.Add(time.Minute)
	assert.Equal(t, 0, m.Len())

	ok, err = m.Consume(ctx, "jti", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_NonPositiveTTL(t *testing.T) {
	ok, err := NewMemory().Consume(context.Background(), "jti", 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_ConcurrentConsume(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := m.Consume(ctx, "shared", time.Minute)
			if err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
