package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	"github.com/SscSPs/banquito_backend/internal/middleware"
)

const summaryKeyPrefix = "banquito:summary:"

// summaryCache wraps the report cache shared by the services that change loan
// figures. A nil summaryCache or a nil cache is a no-op.
type summaryCache struct {
	cache portsrepo.Cache
	ttl   time.Duration
}

func newSummaryCache(cache portsrepo.Cache, ttl time.Duration) *summaryCache {
	return &summaryCache{cache: cache, ttl: ttl}
}

func (c *summaryCache) enabled() bool {
	return c != nil && c.cache != nil
}

func summaryKey(currencyCode string, asOf time.Time) string {
	return summaryKeyPrefix + currencyCode + ":" + asOf.Format("2006-01-02")
}

func (c *summaryCache) get(ctx context.Context, key string, dest any) bool {
	if !c.enabled() {
		return false
	}
	found, err := c.cache.Get(ctx, key, dest)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Summary cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return found
}

func (c *summaryCache) set(ctx context.Context, key string, value any) {
	if !c.enabled() {
		return
	}
	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Summary cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (c *summaryCache) invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.cache.DeletePrefix(ctx, summaryKeyPrefix); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Summary cache invalidation failed", slog.String("error", err.Error()))
	}
}
