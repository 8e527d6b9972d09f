package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"hotel-reservation-engine/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
)

const settingsKey = "booking:settings"

// KV is the slice of the redis client the settings cache uses.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CachedSettings reads through redis to the settings table. Redis failures degrade to a
// direct read.
type CachedSettings struct {
	source shared.SettingsReader
	kv     KV
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedSettings(source shared.SettingsReader, kv KV, ttl time.Duration, logger *slog.Logger) *CachedSettings {
	return &CachedSettings{
		source: source,
		kv:     kv,
		ttl:    ttl,
		logger: logger.With(slog.String("cache", "settings")),
	}
}

type settingsEntry struct {
	HoldMinutes int     `json:"hold_minutes"`
	TaxRate     float64 `json:"tax_rate"`
}

func (c *CachedSettings) Get(ctx context.Context) (shared.Settings, error) {
	raw, err := c.kv.Get(ctx, settingsKey).Bytes()
	switch {
	case err == nil:
		var e settingsEntry
		if jerr := json.Unmarshal(raw, &e); jerr == nil {
			return shared.Settings{HoldMinutes: e.HoldMinutes, TaxRate: e.TaxRate}, nil
		}
		c.logger.Warn("discarding malformed settings entry")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("settings cache read failed", "error", err.Error())
	}

	s, err := c.source.Get(ctx)
	if err != nil {
		return shared.Settings{}, err
	}

	body, _ := json.Marshal(settingsEntry{HoldMinutes: s.HoldMinutes, TaxRate: s.TaxRate})
	if err := c.kv.Set(ctx, settingsKey, body, c.ttl).Err(); err != nil {
		c.logger.Warn("settings cache write failed", "error", err.Error())
	}
	return s, nil
}
