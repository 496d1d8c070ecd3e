// Package rulecache caches active standard-discount sets per storefront
// context so every cart recompute does not hit the database.
//
// The cache is fail-open: when a refresh fails, the previous snapshot keeps
// being served (stale-but-valid) rather than blocking checkout. Fetches are
// re-issued whenever the delivery type changes; superseded responses are
// last-write-wins.
package rulecache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/digiflydk/orderfly-cart/internal/domain/discount"
)

// key scopes a cached discount set.
type key struct {
	brandID      string
	locationID   string
	deliveryType string
}

type entry struct {
	standards []discount.Standard
	fetchedAt time.Time
}

// Cache is a TTL snapshot cache over a discount.StandardRepository.
type Cache struct {
	source discount.StandardRepository
	ttl    time.Duration
	lg     *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[key]entry
}

// New creates a Cache refreshing entries older than ttl from source.
func New(source discount.StandardRepository, ttl time.Duration, lg *zap.Logger) *Cache {
	return &Cache{
		source:  source,
		ttl:     ttl,
		lg:      lg,
		now:     time.Now,
		entries: make(map[key]entry),
	}
}

// ListActive returns the active standard discounts for the storefront
// context, refreshing from the source when the cached snapshot is missing or
// expired. A failed refresh logs and serves the stale snapshot; only a
// failure with no snapshot at all is reported to the caller.
func (c *Cache) ListActive(ctx context.Context, brandID, locationID, deliveryType string) ([]discount.Standard, error) {
	k := key{brandID: brandID, locationID: locationID, deliveryType: deliveryType}

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()

	if ok && c.now().Sub(e.fetchedAt) < c.ttl {
		return e.standards, nil
	}

	fresh, err := c.source.ListActive(ctx, brandID, locationID, deliveryType)
	if err != nil {
		if ok {
			c.lg.Warn("discount refresh failed, serving stale snapshot",
				zap.String("brand_id", brandID),
				zap.String("location_id", locationID),
				zap.String("delivery_type", deliveryType),
				zap.Error(err),
			)
			return e.standards, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.entries[k] = entry{standards: fresh, fetchedAt: c.now()}
	c.mu.Unlock()

	return fresh, nil
}

// Invalidate drops the cached snapshot for one storefront context, forcing
// the next read to refresh.
func (c *Cache) Invalidate(brandID, locationID, deliveryType string) {
	c.mu.Lock()
	delete(c.entries, key{brandID: brandID, locationID: locationID, deliveryType: deliveryType})
	c.mu.Unlock()
}
