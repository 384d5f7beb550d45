package loader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AcquireRelease(t *testing.T) {
	l := NewLimiter(2, time.Second)
	ctx := context.Background()

	assert.Equal(t, 0, l.Active())
	assert.Equal(t, 2, l.Available())

	require.NoError(t, l.Acquire(ctx))
	require.NoError(t, l.Acquire(ctx))
	assert.Equal(t, 2, l.Active())
	assert.Equal(t, 0, l.Available())
	assert.False(t, l.TryAcquire())

	l.Release()
	assert.Equal(t, 1, l.Active())
	assert.True(t, l.TryAcquire())

	l.Release()
	l.Release()
	assert.Equal(t, 0, l.Active())
}

func TestLimiter_TimesOut(t *testing.T) {
	l := NewLimiter(1, 20*time.Millisecond)
	require.True(t, l.TryAcquire())
	defer l.Release()

	err := l.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrTooManyUploads)
}

func TestLimiter_CallerCancel(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	require.True(t, l.TryAcquire())
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.Acquire(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLimiter_Defaults(t *testing.T) {
	l := NewLimiter(0, 0)
	assert.Equal(t, DefaultMaxConcurrent, l.Available())
	assert.Equal(t, DefaultMaxWait, l.maxWait)
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(3, time.Second)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		current int
		peak    int
	)

	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Error(err)
				return
			}
			defer l.Release()

			mu.Lock()
			current++
			if current > peak {
				peak = current
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			current--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak, 3)
	assert.Equal(t, 0, l.Active())
}

func TestLimiter_WaitForDrain(t *testing.T) {
	l := NewLimiter(2, time.Second)
	require.True(t, l.TryAcquire())

	go func() {
		time.Sleep(10 * time.Millisecond)
		l.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, l.WaitForDrain(ctx))
	assert.Equal(t, 2, l.Available())
}
