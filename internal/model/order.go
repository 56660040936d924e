package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/phoenix060107/Trade-Forge/internal/model/enum"
)

// Order is an accepted market order. Rows are append-only; once written
// they form the audit trail and are never mutated.
type Order struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	TradingPairID uuid.UUID        `gorm:"type:uuid;not null"`
	OrderType     enum.OrderType   `gorm:"size:20;not null"`
	Side          enum.Side        `gorm:"size:10;not null"`
	Status        enum.OrderStatus `gorm:"size:20;not null"`
	Quantity      decimal.Decimal  `gorm:"type:numeric(20,8);not null"`
	Price         decimal.Decimal  `gorm:"type:numeric(20,8);not null"`
	// TotalCost is the executed notional in integer cents.
	TotalCost int64 `gorm:"not null"`
	CreatedAt time.Time
	FilledAt  *time.Time
}

func (Order) TableName() string { return "orders" }

// Trade is the fill record for an order. Append-only, references the order
// it filled.
type Trade struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	TradingPairID uuid.UUID       `gorm:"type:uuid;not null"`
	Side          enum.Side       `gorm:"size:10;not null"`
	Quantity      decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Price         decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	// TotalValue is the executed notional in integer cents.
	TotalValue int64 `gorm:"not null"`
	ExecutedAt time.Time
}

func (Trade) TableName() string { return "trades" }
