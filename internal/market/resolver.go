package market

import "github.com/shopspring/decimal"

// Resolver picks a single execution price for a symbol out of the cached
// per-exchange ticks.
type Resolver struct {
	cache    *PriceCache
	priority []Exchange
}

// NewResolver builds a resolver over the cache. An empty priority list
// falls back to ResolvePriority.
func NewResolver(cache *PriceCache, priority ...Exchange) *Resolver {
	if len(priority) == 0 {
		priority = ResolvePriority
	}
	return &Resolver{cache: cache, priority: priority}
}

// Resolve returns the first fresh cached price for symbol in priority
// order, reporting false when every exchange is expired or absent. The
// caller decides what absence means: valuation counts the asset at zero
// while trade execution refuses to run.
func (r *Resolver) Resolve(symbol string) (decimal.Decimal, bool) {
	if r == nil || r.cache == nil {
		return decimal.Zero, false
	}
	for _, exchange := range r.priority {
		if tick, ok := r.cache.Get(exchange, symbol); ok {
			return tick.Price, true
		}
	}
	return decimal.Zero, false
}
