package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phoenix060107/Trade-Forge/internal/market"
)

func TestParseBinanceTrade(t *testing.T) {
	payload := []byte(`{"e":"trade","E":1716900000100,"s":"BTCUSDT","t":12345,"p":"65000.10","q":"0.05","T":1716900000000}`)

	tick, ok := parseBinanceTrade(payload)
	require.True(t, ok)
	assert.Equal(t, market.ExchangeBinance, tick.Exchange)
	assert.Equal(t, "BTCUSDT", tick.Symbol)
	assert.Equal(t, "65000.1", tick.Price.String())
	assert.Equal(t, "0.05", tick.Volume.String())
	assert.Equal(t, int64(1716900000000), tick.Timestamp)
}

func TestParseBinanceTradeRejects(t *testing.T) {
	testCases := []struct {
		desc    string
		payload string
	}{
		{"not json", `{{{garbage`},
		{"wrong event type", `{"e":"aggTrade","s":"BTCUSDT","p":"1","q":"1","T":1}`},
		{"subscribe ack", `{"result":null,"id":1}`},
		{"missing symbol", `{"e":"trade","p":"1","q":"1","T":1}`},
		{"non numeric price", `{"e":"trade","s":"BTCUSDT","p":"abc","q":"1","T":1}`},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, ok := parseBinanceTrade([]byte(tc.payload))
			assert.False(t, ok)
		})
	}
}

func TestParseBybitTrades(t *testing.T) {
	payload := []byte(`{"topic":"publicTrade.BTCUSDT","type":"snapshot","ts":1716900000100,"data":[` +
		`{"T":1716900000000,"s":"BTCUSDT","S":"Buy","v":"0.05","p":"65000.10"},` +
		`{"T":1716900000050,"s":"BTCUSDT","S":"Sell","v":"0.01","p":"64999.90"}]}`)

	ticks := parseBybitTrades(payload)
	require.Len(t, ticks, 2)
	assert.Equal(t, market.ExchangeBybit, ticks[0].Exchange)
	assert.Equal(t, "BTCUSDT", ticks[0].Symbol)
	assert.Equal(t, "65000.1", ticks[0].Price.String())
	assert.Equal(t, "64999.9", ticks[1].Price.String())
	assert.Equal(t, int64(1716900000050), ticks[1].Timestamp)
}

func TestParseBybitTradesRejects(t *testing.T) {
	testCases := []struct {
		desc    string
		payload string
	}{
		{"not json", `not even json`},
		{"other topic", `{"topic":"orderbook.50.BTCUSDT","data":[]}`},
		{"op ack", `{"op":"subscribe","success":true}`},
		{"empty data", `{"topic":"publicTrade.BTCUSDT","data":[]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Empty(t, parseBybitTrades([]byte(tc.payload)))
		})
	}
}

func TestParseKrakenTrades(t *testing.T) {
	payload := []byte(`[337,[["65000.10000","0.05000000","1716900000.123456","b","l",""],` +
		`["65001.00000","0.10000000","1716900000.500000","s","m",""]],"trade","XBT/USD"]`)

	ticks := parseKrakenTrades(payload)
	require.Len(t, ticks, 2)
	assert.Equal(t, market.ExchangeKraken, ticks[0].Exchange)
	assert.Equal(t, "XBT/USD", ticks[0].Symbol)
	assert.Equal(t, "65000.1", ticks[0].Price.String())
	assert.Equal(t, int64(1716900000123), ticks[0].Timestamp)
	assert.Equal(t, int64(1716900000500), ticks[1].Timestamp)
}

func TestParseKrakenTradesRejects(t *testing.T) {
	testCases := []struct {
		desc    string
		payload string
	}{
		{"heartbeat event", `{"event":"heartbeat"}`},
		{"subscription status", `{"event":"subscriptionStatus","status":"subscribed"}`},
		{"short frame", `[337,[]]`},
		{"other channel", `[337,{"a":["1","1"]},"spread","XBT/USD"]`},
		{"bad trade rows", `[337,[["abc","0.1","1.0"]],"trade","XBT/USD"]`},
		{"not json", `]]][[`},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Empty(t, parseKrakenTrades([]byte(tc.payload)))
		})
	}
}

// One malformed frame must only cost its own tick: the connector keeps the
// loop alive and later frames still reach the cache.
func TestMalformedMessageDoesNotStopOtherTicks(t *testing.T) {
	cache := market.NewPriceCache(market.DefaultTTL)
	connector := NewBinanceConnector(cache)

	payloads := [][]byte{
		[]byte(`{"e":"trade","s":"BTCUSDT","p":"65000.10","q":"0.05","T":1716900000000}`),
		[]byte(`{{{garbage`),
		[]byte(`{"e":"trade","s":"ETHUSDT","p":"3000.50","q":"1.0","T":1716900000001}`),
	}
	for _, payload := range payloads {
		if tick, ok := parseBinanceTrade(payload); ok {
			connector.cache.Put(tick)
		}
	}

	btc, ok := cache.Get(market.ExchangeBinance, "BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, "65000.1", btc.Price.String())

	eth, ok := cache.Get(market.ExchangeBinance, "ETHUSDT")
	require.True(t, ok)
	assert.Equal(t, "3000.5", eth.Price.String())
}
