package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Exchange identifies a price feed venue.
type Exchange string

const (
	ExchangeBinance Exchange = "binance"
	ExchangeBybit   Exchange = "bybit"
	ExchangeKraken  Exchange = "kraken"
)

func (e Exchange) String() string { return string(e) }

func (e Exchange) IsAvailable() bool {
	return e == ExchangeBinance || e == ExchangeBybit || e == ExchangeKraken
}

// ResolvePriority is the fixed order in which cached prices are consulted
// when a single execution price is needed for a symbol.
var ResolvePriority = []Exchange{ExchangeBinance, ExchangeKraken, ExchangeBybit}

// PriceTick is one normalized trade event from an exchange feed. Ticks are
// ephemeral: they live in the price cache until the TTL expires and are
// never persisted.
type PriceTick struct {
	Exchange Exchange        `json:"exchange"`
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	Volume   decimal.Decimal `json:"volume"`
	// Timestamp is the exchange trade time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Key returns the cache key for a tick, e.g. "price:binance:BTCUSDT".
func Key(exchange Exchange, symbol string) string {
	return "price:" + string(exchange) + ":" + strings.ToUpper(symbol)
}
