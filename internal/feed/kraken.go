package feed

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"

	"github.com/phoenix060107/Trade-Forge/internal/market"
)

const krakenBaseWsURL = "wss://ws.kraken.com"

var krakenDefaultSymbols = []string{"XBT/USD", "ETH/USD"}

// KrakenConnector streams the v1 public trade channel. Events arrive as
// positional arrays: [channelID, trades, "trade", pair] with each trade as
// [price, volume, time, ...] strings.
type KrakenConnector struct {
	cache *market.PriceCache
	url   string
}

func NewKrakenConnector(cache *market.PriceCache) *KrakenConnector {
	return &KrakenConnector{cache: cache, url: krakenBaseWsURL}
}

func (c *KrakenConnector) Exchange() market.Exchange { return market.ExchangeKraken }

func (c *KrakenConnector) DefaultSymbols() []string { return krakenDefaultSymbols }

type krakenSubscribeRequest struct {
	Event        string   `json:"event"`
	Pair         []string `json:"pair"`
	Subscription struct {
		Name string `json:"name"`
	} `json:"subscription"`
}

func (c *KrakenConnector) RunSession(ctx context.Context, symbols []string) error {
	if len(symbols) == 0 {
		symbols = c.DefaultSymbols()
	}
	req := krakenSubscribeRequest{Event: "subscribe", Pair: symbols}
	req.Subscription.Name = "trade"

	return runSession(ctx, sessionConfig{
		url: c.url,
		onConnect: func(conn *websocket.Conn) error {
			return conn.WriteJSON(req)
		},
		handle: func(payload []byte) {
			for _, tick := range parseKrakenTrades(payload) {
				c.cache.Put(tick)
			}
		},
	})
}

func parseKrakenTrades(payload []byte) []market.PriceTick {
	// Event objects (heartbeat, subscriptionStatus) are not arrays; only
	// the positional trade frame is of interest.
	var frame []json.RawMessage
	if err := json.Unmarshal(payload, &frame); err != nil {
		return nil
	}
	if len(frame) < 4 {
		return nil
	}

	var channel string
	if err := json.Unmarshal(frame[2], &channel); err != nil || channel != "trade" {
		return nil
	}
	var pair string
	if err := json.Unmarshal(frame[3], &pair); err != nil {
		logs.Warnf("kraken: skip malformed pair, err: %+v", err)
		return nil
	}

	var trades [][]json.RawMessage
	if err := json.Unmarshal(frame[1], &trades); err != nil {
		logs.Warnf("kraken: skip malformed trade batch, err: %+v", err)
		return nil
	}

	ticks := make([]market.PriceTick, 0, len(trades))
	for _, trade := range trades {
		if len(trade) < 3 {
			continue
		}
		var priceStr, volumeStr, timeStr string
		if err := json.Unmarshal(trade[0], &priceStr); err != nil {
			continue
		}
		if err := json.Unmarshal(trade[1], &volumeStr); err != nil {
			continue
		}
		if err := json.Unmarshal(trade[2], &timeStr); err != nil {
			continue
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			logs.Warnf("kraken: skip invalid price %q, err: %+v", priceStr, err)
			continue
		}
		volume, err := decimal.NewFromString(volumeStr)
		if err != nil {
			continue
		}
		seconds, err := decimal.NewFromString(timeStr)
		if err != nil {
			continue
		}

		ticks = append(ticks, market.PriceTick{
			Exchange:  market.ExchangeKraken,
			Symbol:    pair,
			Price:     price,
			Volume:    volume,
			Timestamp: seconds.Shift(3).IntPart(),
		})
	}
	return ticks
}
