package outfits

import (
	gocache "github.com/patrickmn/go-cache"
)

// Cache holds complete outfit lists per user. Entries never expire; they
// are dropped only by Invalidate or Clear. Lists are copied on the way in
// and out, so callers can never observe or cause a partial update.
type Cache struct {
	c *gocache.Cache
}

func NewCache() *Cache {
	return &Cache{c: gocache.New(gocache.NoExpiration, 0)}
}

// Get reports a miss with ok == false; a user with no outfits is a hit with
// an empty list.
func (c *Cache) Get(userID string) ([]Record, bool) {
	v, ok := c.c.Get(userID)
	if !ok {
		return nil, false
	}
	return cloneAll(v.([]Record)), true
}

func (c *Cache) Put(userID string, records []Record) {
	c.c.Set(userID, cloneAll(records), gocache.NoExpiration)
}

func (c *Cache) Invalidate(userID string) {
	c.c.Delete(userID)
}

func (c *Cache) Clear() {
	c.c.Flush()
}

func (c *Cache) Len() int {
	return c.c.ItemCount()
}
