package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Portfolio is the per-user cash position. One row per user, created at
// registration. CashBalance and StartingBalance are integer cents and
// CashBalance never goes below zero.
type Portfolio struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CashBalance     int64     `gorm:"not null;default:0"`
	StartingBalance int64     `gorm:"not null;default:0"`
	TotalTrades     int64     `gorm:"not null;default:0"`
	UpdatedAt       time.Time
}

func (Portfolio) TableName() string { return "portfolios" }

// Holding is one open position within a portfolio. A holding whose quantity
// falls to the dust threshold is deleted, never stored at zero.
type Holding struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_holdings_user_pair"`
	TradingPairID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_holdings_user_pair"`
	Quantity      decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	AvgEntryPrice decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	UpdatedAt     time.Time
}

func (Holding) TableName() string { return "portfolio_holdings" }
