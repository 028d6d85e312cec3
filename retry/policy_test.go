package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestPolicy_StopsAtMaxAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 3, Delay: time.Millisecond}

	calls := 0
	var retried []uint
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errBoom
	}, func(attempt uint, err error) {
		retried = append(retried, attempt)
	})

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []uint{1, 2}, retried)
}

func TestPolicy_SucceedsAfterFailures(t *testing.T) {
	p := Policy{MaxAttempts: 5, Delay: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPolicy_StopsWhenElapsedBudgetSpent(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	p := Policy{
		MaxAttempts: 20,
		MaxElapsed:  30 * time.Second,
		Delay:       time.Millisecond,
		Now:         func() time.Time { return clock },
	}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		// every attempt appears to take 20 seconds
		clock = clock.Add(20 * time.Second)
		return errBoom
	}, nil)

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 2, calls)
}

func TestPolicy_ZeroAttemptsMeansOnce(t *testing.T) {
	calls := 0
	err := Policy{}.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errBoom
	}, nil)

	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, calls)
}

func TestPolicy_DoesNotRetryCancellation(t *testing.T) {
	p := Policy{MaxAttempts: 5, Delay: time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	err := p.Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return ctx.Err()
	}, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestPolicy_RetriesAttemptTimeout(t *testing.T) {
	p := Policy{MaxAttempts: 3, Delay: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			// what net/http reports when Client.Timeout fires
			return fmt.Errorf("Get \"http://api\": %w (Client.Timeout exceeded while awaiting headers)", context.DeadlineExceeded)
		}
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPolicy_ContextCancelledDuringDelay(t *testing.T) {
	p := Policy{MaxAttempts: 5, Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func(ctx context.Context) error {
			calls++
			return errBoom
		}, nil)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	assert.Equal(t, 1, calls)
}

func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, uint(20), p.MaxAttempts)
	assert.Equal(t, 30*time.Second, p.MaxElapsed)
	assert.Equal(t, 60*time.Second, p.Delay)
	assert.Equal(t, uint(1), Once().MaxAttempts)
}
