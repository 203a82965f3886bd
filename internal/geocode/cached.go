package geocode

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dalfonso89/prayer-times-api/internal/cache"
	"github.com/dalfonso89/prayer-times-api/internal/logger"
	"github.com/dalfonso89/prayer-times-api/internal/models"
)

// CachedGeocoder memoizes non-empty results of another Geocoder and
// collapses concurrent identical lookups into one upstream call.
type CachedGeocoder struct {
	next    Geocoder
	store   *cache.Store[[]models.GeoResult]
	timeout time.Duration
	logger  *logger.Logger

	singleFlightGroup singleflight.Group
}

// NewCachedGeocoder wraps next with store. A shared upstream lookup runs
// detached from the caller that started it, bounded by timeout.
func NewCachedGeocoder(next Geocoder, store *cache.Store[[]models.GeoResult], timeout time.Duration, logger *logger.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, store: store, timeout: timeout, logger: logger}
}

// Geocode serves query from the cache when fresh, otherwise asks next
func (g *CachedGeocoder) Geocode(ctx context.Context, query string) ([]models.GeoResult, error) {
	key := NormalizeQuery(query)
	if entry, ok := g.store.Get(key); ok {
		return entry.Value, nil
	}

	ch := g.singleFlightGroup.DoChan(key, func() (interface{}, error) {
		lookupCtx, cancel := detach(ctx, g.timeout)
		defer cancel()

		results, err := g.next.Geocode(lookupCtx, query)
		if err != nil {
			return nil, err
		}
		if len(results) > 0 {
			g.store.Set(key, results)
		}
		return results, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			g.logger.Debugf("Geocode lookup for %q shared with a concurrent caller", key)
		}
		return res.Val.([]models.GeoResult), nil
	}
}

// detach keeps ctx values but not its cancellation.
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.WithoutCancel(ctx))
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

// Len returns the number of cached queries
func (g *CachedGeocoder) Len() int {
	return g.store.Len()
}

// NormalizeQuery lowercases query and collapses whitespace.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
