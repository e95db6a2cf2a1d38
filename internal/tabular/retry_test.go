package tabular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails Read with ErrRateLimited a fixed number of times.
type flakyStore struct {
	*Memory
	failures int
	calls    int
	err      error
}

func (f *flakyStore) Read(ctx context.Context, sheet string) ([][]string, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, fmt.Errorf("quota exceeded: %w", f.err)
	}
	return f.Memory.Read(ctx, sheet)
}

func newTestRetrying(next Store) (*Retrying, *[]time.Duration) {
	var delays []time.Duration
	r := NewRetrying(next, DefaultRetryPolicy(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return r, &delays
}

func TestRetrying_BackoffDoublesAndCaps(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, mem.CreateSheet(context.Background(), "s"))

	flaky := &flakyStore{Memory: mem, failures: 3, err: ErrRateLimited}
	r, delays := newTestRetrying(flaky)

	_, err := r.Read(context.Background(), "s")
	require.NoError(t, err)

	assert.Equal(t, 4, flaky.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, *delays)
}

func TestRetrying_GivesUpAfterMaxRetries(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, mem.CreateSheet(context.Background(), "s"))

	flaky := &flakyStore{Memory: mem, failures: 10, err: ErrRateLimited}
	r, delays := newTestRetrying(flaky)
	r.policy.MaxRetries = 4

	_, err := r.Read(context.Background(), "s")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimited))

	assert.Equal(t, 5, flaky.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second}, *delays)
}

func TestRetrying_DoesNotRetryOtherErrors(t *testing.T) {
	flaky := &flakyStore{Memory: NewMemory(), failures: 1, err: errors.New("boom")}
	r, delays := newTestRetrying(flaky)

	_, err := r.Read(context.Background(), "s")
	require.Error(t, err)
	assert.Equal(t, 1, flaky.calls)
	assert.Empty(t, *delays)
}

func TestRetrying_StopsOnContextCancel(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, mem.CreateSheet(context.Background(), "s"))

	flaky := &flakyStore{Memory: mem, failures: 10, err: ErrRateLimited}
	r := NewRetrying(flaky, DefaultRetryPolicy(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Read(ctx, "s")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, flaky.calls)
}
