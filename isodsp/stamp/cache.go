package stamp

import (
	"sync"

	"github.com/jellydator/ttlcache/v3"
)

// MaxCachedStamps bounds a Cache. Past it the least recently used stamp is
// evicted.
const MaxCachedStamps = 32

// Cache memoizes cube stamps per geometry. Stamps never expire; a stamp is
// built on first use and shared afterwards.
type Cache struct {
	mu    sync.Mutex
	items *ttlcache.Cache[Geometry, *Stamp]
}

func NewCache() *Cache {
	return &Cache{
		items: ttlcache.New[Geometry, *Stamp](
			ttlcache.WithTTL[Geometry, *Stamp](ttlcache.NoTTL),
			ttlcache.WithDisableTouchOnHit[Geometry, *Stamp](),
			ttlcache.WithCapacity[Geometry, *Stamp](MaxCachedStamps),
		),
	}
}

// Get returns the cube stamp for g, building it if needed.
func (c *Cache) Get(g Geometry) (*Stamp, error) {
	if item := c.items.Get(g); item != nil {
		return item.Value(), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if item := c.items.Get(g); item != nil {
		return item.Value(), nil
	}
	st, err := BuildCube(g)
	if err != nil {
		return nil, err
	}
	c.items.Set(g, st, ttlcache.NoTTL)
	return st, nil
}

// Len returns the number of cached stamps.
func (c *Cache) Len() int { return c.items.Len() }
