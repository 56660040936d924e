package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/phoenix060107/Trade-Forge/internal/model/enum"
)

// WalletTransaction is one append-only ledger entry. Amount is a signed
// cents delta and BalanceAfter the cash balance once it applied, so the
// ledger can be replayed for reconciliation.
type WalletTransaction struct {
	ID           uuid.UUID            `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Type         enum.TransactionType `gorm:"size:50;not null"`
	Amount       int64                `gorm:"not null"`
	BalanceAfter int64                `gorm:"not null"`
	ReferenceID  *uuid.UUID           `gorm:"type:uuid"`
	Description  string               `gorm:"size:255"`
	CreatedAt    time.Time
}

func (WalletTransaction) TableName() string { return "wallet_transactions" }
