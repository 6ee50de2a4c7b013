package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"subtrack/internal/usecase"
)

const summaryKey = "summary:dashboard"

// Ensure SummaryCache implements usecase.SummaryCache
var _ usecase.SummaryCache = (*SummaryCache)(nil)

// SummaryCache keeps the computed dashboard summary in redis so repeated
// reads skip the full ledger scan. Ledger mutations invalidate it.
type SummaryCache struct {
	client *Client
	ttl    time.Duration
	log    *zerolog.Logger
}

func NewSummaryCache(client *Client, ttl time.Duration, logger *zerolog.Logger) *SummaryCache {
	cacheLog := logger.With().Str("component", "SummaryCache").Logger()
	return &SummaryCache{client: client, ttl: ttl, log: &cacheLog}
}

func (c *SummaryCache) Get(ctx context.Context) (*usecase.Summary, bool) {
	raw, err := c.client.Get(ctx, summaryKey)
	if err != nil {
		if !IsNil(err) {
			c.log.Warn().Err(err).Msg("summary cache read failed")
		}
		return nil, false
	}
	var s usecase.Summary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		// Stale or foreign payload; drop it and recompute.
		_ = c.client.Del(ctx, summaryKey)
		return nil, false
	}
	return &s, true
}

func (c *SummaryCache) Set(ctx context.Context, s *usecase.Summary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey, string(b), c.ttl)
}

func (c *SummaryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, summaryKey)
}
