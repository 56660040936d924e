package model

import (
	"time"

	"github.com/google/uuid"
)

// TradingPair is a tradable symbol split into base and quote assets,
// e.g. BTCUSDT -> BTC/USDT. Rows are created on demand the first time a
// symbol is traded.
type TradingPair struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Symbol     string    `gorm:"size:20;uniqueIndex;not null"`
	BaseAsset  string    `gorm:"size:10;not null"`
	QuoteAsset string    `gorm:"size:10;not null"`
	IsActive   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
}

func (TradingPair) TableName() string { return "trading_pairs" }
