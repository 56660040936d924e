package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phoenix060107/Trade-Forge/internal/market"
)

type stubConnector struct {
	exchange market.Exchange
	defaults []string

	mu       sync.Mutex
	sessions int
	lastSyms []string
}

func (c *stubConnector) Exchange() market.Exchange { return c.exchange }

func (c *stubConnector) DefaultSymbols() []string { return c.defaults }

func (c *stubConnector) RunSession(ctx context.Context, symbols []string) error {
	c.mu.Lock()
	c.sessions++
	c.lastSyms = symbols
	c.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func (c *stubConnector) snapshot() (int, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions, c.lastSyms
}

func TestSupervisorStartStop(t *testing.T) {
	cache := market.NewPriceCache(market.DefaultTTL)
	stub := &stubConnector{exchange: market.ExchangeBinance, defaults: []string{"BTCUSDT"}}
	s := NewSupervisorWith(cache, stub)

	require.False(t, s.Running())
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Running())

	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)

	deadline := time.Now().Add(time.Second)
	for {
		sessions, _ := stub.snapshot()
		if sessions > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("connector session never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.Stop()
	assert.False(t, s.Running())

	// second stop is a no-op
	s.Stop()
}

func TestSupervisorRefusesWithoutCache(t *testing.T) {
	s := NewSupervisorWith(nil, &stubConnector{exchange: market.ExchangeBinance})
	assert.ErrorIs(t, s.Start(context.Background()), ErrNoCache)
	assert.False(t, s.Running())
}

func TestSupervisorSubscriptionSet(t *testing.T) {
	cache := market.NewPriceCache(market.DefaultTTL)
	s := NewSupervisorWith(cache,
		&stubConnector{exchange: market.ExchangeBinance},
		&stubConnector{exchange: market.ExchangeKraken},
	)

	require.NoError(t, s.Subscribe(market.ExchangeBinance, "ETHUSDT"))
	require.NoError(t, s.Subscribe(market.ExchangeBinance, "BTCUSDT"))
	require.NoError(t, s.Subscribe(market.ExchangeBinance, "BTCUSDT"))
	require.NoError(t, s.Subscribe(market.ExchangeKraken, "XBT/USD"))

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, s.Symbols(market.ExchangeBinance))
	assert.Equal(t, []string{"XBT/USD"}, s.Symbols(market.ExchangeKraken))
	assert.Nil(t, s.Symbols(market.ExchangeBybit), "unknown exchange has no set")

	assert.Error(t, s.Subscribe(market.ExchangeBybit, "BTCUSDT"))
}

func TestSupervisorPassesSubscribedSymbolsToSession(t *testing.T) {
	cache := market.NewPriceCache(market.DefaultTTL)
	stub := &stubConnector{exchange: market.ExchangeBinance, defaults: []string{"BTCUSDT"}}
	s := NewSupervisorWith(cache, stub)

	require.NoError(t, s.Subscribe(market.ExchangeBinance, "SOLUSDT"))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	deadline := time.Now().Add(time.Second)
	for {
		sessions, symbols := stub.snapshot()
		if sessions > 0 {
			assert.Equal(t, []string{"SOLUSDT"}, symbols)
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("connector session never started")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
