package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credi-research/econ-cli/internal/model"
)

var testSeries = model.Series{
	{Period: 2020, Value: 10},
	{Period: 2021, Value: 20},
}

func TestGetOrFetch_PopulatesAndHits(t *testing.T) {
	c := New(time.Hour, 0)

	calls := 0
	fetch := func(ctx context.Context) (model.Series, error) {
		calls++
		return testSeries, nil
	}

	got, err := c.GetOrFetch(context.Background(), "AL|GDP|2010-2023", fetch)
	require.NoError(t, err)
	assert.Equal(t, testSeries, got)

	got, err = c.GetOrFetch(context.Background(), "AL|GDP|2010-2023", fetch)
	require.NoError(t, err)
	assert.Equal(t, testSeries, got)
	assert.Equal(t, 1, calls)
}

func TestGetOrFetch_TTLExpiry(t *testing.T) {
	c := New(time.Hour, 0)

	current := time.Now()
	c.now = func() time.Time { return current }

	calls := 0
	fetch := func(ctx context.Context) (model.Series, error) {
		calls++
		return testSeries, nil
	}

	_, err := c.GetOrFetch(context.Background(), "k", fetch)
	require.NoError(t, err)

	// Still inside the TTL.
	current = current.Add(59 * time.Minute)
	_, err = c.GetOrFetch(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// Past the TTL.
	current = current.Add(2 * time.Minute)
	_, err = c.GetOrFetch(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrFetch_ErrorsAreNotCached(t *testing.T) {
	c := New(time.Hour, 0)

	calls := 0
	fetch := func(ctx context.Context) (model.Series, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("upstream down")
		}
		return testSeries, nil
	}

	_, err := c.GetOrFetch(context.Background(), "k", fetch)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	got, err := c.GetOrFetch(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, testSeries, got)
	assert.Equal(t, 2, calls)
}

func TestGetOrFetch_Singleflight(t *testing.T) {
	c := New(time.Hour, 0)

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (model.Series, error) {
		calls.Add(1)
		<-release
		return testSeries, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]model.Series, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := c.GetOrFetch(context.Background(), "shared", fetch)
			assert.NoError(t, err)
			results[i] = s
		}()
	}

	// Give the goroutines time to pile onto the flight group, then release.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, s := range results {
		assert.Equal(t, testSeries, s)
	}
}

func TestInvalidateAndPurge(t *testing.T) {
	c := New(time.Hour, 0)

	fetch := func(ctx context.Context) (model.Series, error) { return testSeries, nil }
	_, err := c.GetOrFetch(context.Background(), "a", fetch)
	require.NoError(t, err)
	_, err = c.GetOrFetch(context.Background(), "b", fetch)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	c.Invalidate("a")
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestMaxEntriesEviction(t *testing.T) {
	c := New(time.Hour, 2)

	current := time.Now()
	c.now = func() time.Time { return current }

	fetch := func(ctx context.Context) (model.Series, error) { return testSeries, nil }

	_, _ = c.GetOrFetch(context.Background(), "first", fetch)
	current = current.Add(time.Minute)
	_, _ = c.GetOrFetch(context.Background(), "second", fetch)
	current = current.Add(time.Minute)
	_, _ = c.GetOrFetch(context.Background(), "third", fetch)

	// "first" was closest to expiry and should have been evicted.
	assert.Equal(t, 2, c.Len())

	calls := 0
	_, _ = c.GetOrFetch(context.Background(), "first", func(ctx context.Context) (model.Series, error) {
		calls++
		return testSeries, nil
	})
	assert.Equal(t, 1, calls)
}
