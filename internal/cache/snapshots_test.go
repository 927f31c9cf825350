package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter(values ...[]string) (func(context.Context) ([]string, error), *int) {
	calls := 0
	return func(context.Context) ([]string, error) {
		v := values[min(calls, len(values)-1)]
		calls++
		return v, nil
	}, &calls
}

func TestLoadCachesUntilBump(t *testing.T) {
	s := New(time.Minute)
	ctx := context.Background()
	fetch, calls := counter([]string{"a"}, []string{"a", "b"})

	got, err := Load(ctx, s, "store", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	got, err = Load(ctx, s, "store", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 1, *calls)

	s.Bump("store")
	got, err = Load(ctx, s, "store", fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, uint64(1), s.Version("store"))
}

func TestBumpOnlyTouchesItsKind(t *testing.T) {
	s := New(time.Minute)
	s.Set("store", 0, []string{"s"})
	s.Set("coupon", 0, []string{"c"})

	s.Bump("store")

	_, ok := s.Get("store")
	assert.False(t, ok)
	v, ok := s.Get("coupon")
	assert.True(t, ok)
	assert.Equal(t, []string{"c"}, v)
	assert.Equal(t, 1, s.Size())
}

func TestSetDropsOvertakenVersion(t *testing.T) {
	s := New(time.Minute)
	v := s.Version("coupon")
	s.Bump("coupon") // a write lands while the old snapshot is loading
	s.Set("coupon", v, []string{"stale"})

	_, ok := s.Get("coupon")
	assert.False(t, ok)
}

func TestEntriesExpire(t *testing.T) {
	s := New(time.Second)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Set("store", 0, []string{"a"})
	_, ok := s.Get("store")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = s.Get("store")
	assert.False(t, ok)
}

func TestZeroTTLDisablesCaching(t *testing.T) {
	s := New(0)
	fetch, calls := counter([]string{"a"})
	for i := 0; i < 3; i++ {
		_, err := Load(context.Background(), s, "store", fetch)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, *calls)
}

func TestLoadPropagatesFetchError(t *testing.T) {
	s := New(time.Minute)
	boom := errors.New("boom")
	_, err := Load(context.Background(), s, "store", func(context.Context) ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, s.Size())
}
