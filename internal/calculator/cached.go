package calculator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dalfonso89/prayer-times-api/internal/cache"
	"github.com/dalfonso89/prayer-times-api/internal/models"
	"github.com/dalfonso89/prayer-times-api/internal/schedule"
)

// CachedCalculator memoizes computed days. Method and school are part of
// the key so a configuration change never serves stale timings.
type CachedCalculator struct {
	next    Calculator
	method  int
	school  int
	timeout time.Duration
	store   *cache.Store[schedule.Instants]

	singleFlightGroup singleflight.Group
}

// NewCachedCalculator wraps next with store. A shared upstream call is
// bounded by timeout rather than by the caller that started it.
func NewCachedCalculator(next Calculator, method, school int, timeout time.Duration, store *cache.Store[schedule.Instants]) *CachedCalculator {
	return &CachedCalculator{next: next, method: method, school: school, timeout: timeout, store: store}
}

// Compute serves the day from the cache when fresh, otherwise asks next
func (c *CachedCalculator) Compute(ctx context.Context, coords models.Coordinates, date time.Time, zoneID string) (schedule.Instants, error) {
	key := CacheKey(coords, date, zoneID, c.method, c.school)
	if entry, ok := c.store.Get(key); ok {
		return entry.Value, nil
	}

	ch := c.singleFlightGroup.DoChan(key, func() (interface{}, error) {
		var (
			callCtx context.Context
			cancel  context.CancelFunc
		)
		if c.timeout > 0 {
			callCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		} else {
			callCtx, cancel = context.WithCancel(context.WithoutCancel(ctx))
		}
		defer cancel()

		instants, err := c.next.Compute(callCtx, coords, date, zoneID)
		if err != nil {
			return nil, err
		}
		c.store.Set(key, instants)
		return instants, nil
	})

	select {
	case <-ctx.Done():
		return schedule.Instants{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return schedule.Instants{}, res.Err
		}
		return res.Val.(schedule.Instants), nil
	}
}

// Len returns the number of cached days
func (c *CachedCalculator) Len() int {
	return c.store.Len()
}

// CacheKey hashes the inputs that determine a day's timings.
func CacheKey(coords models.Coordinates, date time.Time, zoneID string, method, school int) string {
	raw := fmt.Sprintf("%s|%.6f|%.6f|%s|%d|%d", date.Format("2006-01-02"), coords.Latitude, coords.Longitude, zoneID, method, school)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
