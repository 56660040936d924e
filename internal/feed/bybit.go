package feed

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"

	"github.com/phoenix060107/Trade-Forge/internal/market"
)

const bybitBaseWsURL = "wss://stream.bybit.com/v5/public/spot"

var bybitDefaultSymbols = []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}

// BybitConnector streams the v5 public spot trade topics. Subscriptions are
// sent as one op message after connect; trade events arrive topic-wrapped
// in batches.
type BybitConnector struct {
	cache *market.PriceCache
	url   string
}

func NewBybitConnector(cache *market.PriceCache) *BybitConnector {
	return &BybitConnector{cache: cache, url: bybitBaseWsURL}
}

func (c *BybitConnector) Exchange() market.Exchange { return market.ExchangeBybit }

func (c *BybitConnector) DefaultSymbols() []string { return bybitDefaultSymbols }

type bybitSubscribeRequest struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

func (c *BybitConnector) RunSession(ctx context.Context, symbols []string) error {
	if len(symbols) == 0 {
		symbols = c.DefaultSymbols()
	}
	args := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		args = append(args, "publicTrade."+strings.ToUpper(symbol))
	}

	return runSession(ctx, sessionConfig{
		url: c.url,
		onConnect: func(conn *websocket.Conn) error {
			return conn.WriteJSON(bybitSubscribeRequest{Op: "subscribe", Args: args})
		},
		handle: func(payload []byte) {
			for _, tick := range parseBybitTrades(payload) {
				c.cache.Put(tick)
			}
		},
	})
}

// bybitTradeMessage is the topic-wrapped batch, e.g.
// {"topic":"publicTrade.BTCUSDT","data":[{"s":"BTCUSDT","p":"65000.10","v":"0.05","T":1716900000000}]}
type bybitTradeMessage struct {
	Topic string `json:"topic"`
	Data  []struct {
		Symbol    string          `json:"s"`
		Side      string          `json:"S"`
		Price     decimal.Decimal `json:"p"`
		Volume    decimal.Decimal `json:"v"`
		TradeTime int64           `json:"T"`
	} `json:"data"`
}

func parseBybitTrades(payload []byte) []market.PriceTick {
	var msg bybitTradeMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		logs.Warnf("bybit: skip malformed message, err: %+v", err)
		return nil
	}
	if !strings.HasPrefix(msg.Topic, "publicTrade") {
		return nil
	}

	ticks := make([]market.PriceTick, 0, len(msg.Data))
	for _, trade := range msg.Data {
		if trade.Symbol == "" {
			continue
		}
		ticks = append(ticks, market.PriceTick{
			Exchange:  market.ExchangeBybit,
			Symbol:    trade.Symbol,
			Price:     trade.Price,
			Volume:    trade.Volume,
			Timestamp: trade.TradeTime,
		})
	}
	return ticks
}
