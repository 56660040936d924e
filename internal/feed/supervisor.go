package feed

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yanun0323/logs"

	"github.com/phoenix060107/Trade-Forge/internal/market"
)

var (
	ErrNoCache        = errors.New("feed: price cache is unavailable")
	ErrAlreadyRunning = errors.New("feed: supervisor already running")
)

// StopGracePeriod bounds how long Stop waits for connector goroutines to
// wind down after cancellation.
const StopGracePeriod = 5 * time.Second

// Supervisor owns the lifecycle of every exchange connector: it starts
// them, tracks per-exchange subscription sets, restarts failed connections
// after a fixed delay, and shuts everything down cooperatively.
type Supervisor struct {
	cache      *market.PriceCache
	connectors []Connector

	mu   sync.Mutex
	subs map[market.Exchange]map[string]struct{}

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewSupervisor builds a supervisor over the default connector set for the
// given cache.
func NewSupervisor(cache *market.PriceCache) *Supervisor {
	return NewSupervisorWith(cache,
		NewBinanceConnector(cache),
		NewBybitConnector(cache),
		NewKrakenConnector(cache),
	)
}

// NewSupervisorWith builds a supervisor over an explicit connector set.
func NewSupervisorWith(cache *market.PriceCache, connectors ...Connector) *Supervisor {
	subs := make(map[market.Exchange]map[string]struct{}, len(connectors))
	for _, c := range connectors {
		subs[c.Exchange()] = make(map[string]struct{})
	}
	return &Supervisor{
		cache:      cache,
		connectors: connectors,
		subs:       subs,
	}
}

// Subscribe adds symbol to the exchange's subscription set. The subscribe
// message is only sent at connect time, so the change applies at the next
// (re)connection of that exchange's stream.
func (s *Supervisor) Subscribe(exchange market.Exchange, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.subs[exchange]
	if !ok {
		return errors.New("feed: unknown exchange: " + exchange.String())
	}
	set[symbol] = struct{}{}
	logs.Infof("feed: subscribed %s on %s", symbol, exchange)
	return nil
}

// Symbols returns the exchange's subscription set in sorted order, or nil
// when nothing is subscribed.
func (s *Supervisor) Symbols(exchange market.Exchange) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.subs[exchange]
	if len(set) == 0 {
		return nil
	}
	symbols := make([]string, 0, len(set))
	for symbol := range set {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Start launches one supervised goroutine per connector. It fails without
// side effects when the cache is unavailable, leaving the platform degraded
// to price-unavailable trade rejections instead of crashing.
func (s *Supervisor) Start(ctx context.Context) error {
	if s.cache == nil {
		return ErrNoCache
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, connector := range s.connectors {
		s.wg.Add(1)
		go func(c Connector) {
			defer s.wg.Done()
			s.supervise(runCtx, c)
		}(connector)
	}

	logs.Infof("feed: started %d exchange connectors", len(s.connectors))
	return nil
}

// Stop cancels all connectors and waits at most StopGracePeriod for them
// to exit.
func (s *Supervisor) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		logs.Info("feed: all connectors stopped")
	case <-time.After(StopGracePeriod):
		logs.Warn("feed: stop grace period elapsed before all connectors exited")
	}
}

// Running reports whether the supervisor has live connector tasks, for
// health checks.
func (s *Supervisor) Running() bool {
	return s.running.Load()
}

// supervise reconnects c forever with a flat delay. Session errors only
// affect cache freshness; they never propagate.
func (s *Supervisor) supervise(ctx context.Context, c Connector) {
	exchange := c.Exchange()
	for {
		if ctx.Err() != nil {
			return
		}

		symbols := s.Symbols(exchange)
		if err := c.RunSession(ctx, symbols); err != nil && ctx.Err() == nil {
			logs.Warnf("feed: %s session ended, err: %+v", exchange, err)
		}
		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(ReconnectDelay):
		}
	}
}
