package market

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL bounds how stale a cached price can be before readers treat it
// as absent. Prices from a dead feed silently disappear instead of being
// traded against.
const DefaultTTL = 60 * time.Second

const subscriberBuffer = 256

// PriceCache stores the last trade tick per (exchange, symbol) with a fixed
// expiry, and fans every stored tick out to live subscribers. Writers are
// per-exchange goroutines on disjoint keys; readers never block them.
type PriceCache struct {
	store *gocache.Cache
	ttl   time.Duration

	mu     sync.Mutex
	nextID int
	subs   map[int]chan PriceTick
}

// NewPriceCache builds a cache with the given TTL. A non-positive ttl falls
// back to DefaultTTL.
func NewPriceCache(ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PriceCache{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
		subs:  make(map[int]chan PriceTick),
	}
}

// Put stores the tick under its (exchange, symbol) key and publishes it to
// all subscribers.
func (c *PriceCache) Put(tick PriceTick) {
	c.store.Set(Key(tick.Exchange, tick.Symbol), tick, gocache.DefaultExpiration)
	c.publish(tick)
}

// Get returns the cached tick for (exchange, symbol), reporting false when
// it is missing or expired.
func (c *PriceCache) Get(exchange Exchange, symbol string) (PriceTick, bool) {
	v, ok := c.store.Get(Key(exchange, symbol))
	if !ok {
		return PriceTick{}, false
	}
	tick, ok := v.(PriceTick)
	return tick, ok
}

// Subscribe returns a fresh stream of every tick written after the call.
// The cancel func releases the stream; a subscriber that falls behind has
// ticks dropped rather than stalling the writers.
func (c *PriceCache) Subscribe() (<-chan PriceTick, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan PriceTick, subscriberBuffer)
	c.subs[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Subscribers reports the number of live broadcast streams.
func (c *PriceCache) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

func (c *PriceCache) publish(tick PriceTick) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- tick:
		default:
			// slow consumer, drop the tick
		}
	}
}
