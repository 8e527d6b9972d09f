//go:build unit

package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	values  map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.values[key] = value.([]byte)
	f.lastTTL = ttl
	return redis.NewStatusResult("OK", nil)
}

type countingSource struct {
	settings shared.Settings
	err      error
	calls    int
}

func (s *countingSource) Get(context.Context) (shared.Settings, error) {
	s.calls++
	return s.settings, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCachedSettings_Get(t *testing.T) {
	t.Run("miss reads through and populates", func(t *testing.T) {
		kv := &fakeKV{values: map[string][]byte{}}
		src := &countingSource{settings: shared.Settings{HoldMinutes: 20, TaxRate: 0.1}}
		c := NewCachedSettings(src, kv, time.Minute, discardLogger())

		got, err := c.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 20, got.HoldMinutes)
		assert.Equal(t, time.Minute, kv.lastTTL)

		got, err = c.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0.1, got.TaxRate)
		assert.Equal(t, 1, src.calls, "second read must be served from cache")
	})

	t.Run("redis down falls back to source", func(t *testing.T) {
		kv := &fakeKV{values: map[string][]byte{}, getErr: errors.New("connection refused"), setErr: errors.New("connection refused")}
		src := &countingSource{settings: shared.Settings{HoldMinutes: 15}}
		c := NewCachedSettings(src, kv, time.Minute, discardLogger())

		got, err := c.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 15, got.HoldMinutes)
		assert.Equal(t, 1, src.calls)
	})

	t.Run("source error is returned", func(t *testing.T) {
		kv := &fakeKV{values: map[string][]byte{}}
		src := &countingSource{err: assert.AnError}
		c := NewCachedSettings(src, kv, time.Minute, discardLogger())

		_, err := c.Get(context.Background())
		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, kv.values)
	})

	t.Run("malformed entry is ignored", func(t *testing.T) {
		kv := &fakeKV{values: map[string][]byte{settingsKey: []byte("{")}}
		src := &countingSource{settings: shared.Settings{HoldMinutes: 30}}
		c := NewCachedSettings(src, kv, time.Minute, discardLogger())

		got, err := c.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 30, got.HoldMinutes)
	})
}

func TestTokenBucket_TTL(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		refill   float64
		want     int64
	}{
		{name: "refills in 20s", capacity: 10, refill: 0.5, want: 80},
		{name: "no refill keeps an hour", capacity: 10, refill: 0, want: 3600},
		{name: "capacity floor", capacity: 0, refill: 1, want: 61},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewTokenBucket(nil, tt.capacity, tt.refill)
			assert.Equal(t, tt.want, b.ttlSeconds())
		})
	}
}
