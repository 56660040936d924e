package feed

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"

	"github.com/phoenix060107/Trade-Forge/internal/market"
)

const binanceBaseWsURL = "wss://stream.binance.com:9443/ws"

var binanceDefaultSymbols = []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}

// BinanceConnector streams the public trade feed. Binance takes the stream
// list in the connect URL path, so there is no subscribe message and a
// symbol change only applies at the next (re)connect.
type BinanceConnector struct {
	cache *market.PriceCache
	url   string
}

func NewBinanceConnector(cache *market.PriceCache) *BinanceConnector {
	return &BinanceConnector{cache: cache, url: binanceBaseWsURL}
}

func (c *BinanceConnector) Exchange() market.Exchange { return market.ExchangeBinance }

func (c *BinanceConnector) DefaultSymbols() []string { return binanceDefaultSymbols }

func (c *BinanceConnector) RunSession(ctx context.Context, symbols []string) error {
	if len(symbols) == 0 {
		symbols = c.DefaultSymbols()
	}
	streams := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		streams = append(streams, strings.ToLower(symbol)+"@trade")
	}

	return runSession(ctx, sessionConfig{
		url: c.url + "/" + strings.Join(streams, "/"),
		handle: func(payload []byte) {
			tick, ok := parseBinanceTrade(payload)
			if !ok {
				return
			}
			c.cache.Put(tick)
		},
	})
}

// binanceTrade is the flat trade event, e.g.
// {"e":"trade","s":"BTCUSDT","p":"65000.10","q":"0.05","T":1716900000000}
type binanceTrade struct {
	EventType string          `json:"e"`
	EventTime int64           `json:"E"`
	Symbol    string          `json:"s"`
	Price     decimal.Decimal `json:"p"`
	Quantity  decimal.Decimal `json:"q"`
	TradeTime int64           `json:"T"`
}

func parseBinanceTrade(payload []byte) (market.PriceTick, bool) {
	var trade binanceTrade
	if err := json.Unmarshal(payload, &trade); err != nil {
		logs.Warnf("binance: skip malformed message, err: %+v", err)
		return market.PriceTick{}, false
	}
	if trade.EventType != "trade" || trade.Symbol == "" {
		return market.PriceTick{}, false
	}
	return market.PriceTick{
		Exchange:  market.ExchangeBinance,
		Symbol:    trade.Symbol,
		Price:     trade.Price,
		Volume:    trade.Quantity,
		Timestamp: trade.TradeTime,
	}, true
}
