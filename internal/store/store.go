// Package store is the persistence boundary for trading state. The engine
// depends on the Store and Tx interfaces only; the gorm/postgres
// implementation lives beside them.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/phoenix060107/Trade-Forge/internal/model"
)

var ErrPortfolioNotFound = errors.New("store: portfolio not found")

// Store is the transactional trading-state collaborator.
type Store interface {
	// ExecuteTx runs fn inside one transaction. Any error from fn rolls the
	// whole transaction back; no partial state is ever visible outside it.
	ExecuteTx(ctx context.Context, fn func(tx Tx) error) error

	// GetOrCreateTradingPair resolves the pair row for symbol, creating it
	// with the given asset split on first use.
	GetOrCreateTradingPair(ctx context.Context, symbol, base, quote string) (model.TradingPair, error)

	GetPortfolio(ctx context.Context, userID uuid.UUID) (model.Portfolio, error)
	ListHoldings(ctx context.Context, userID uuid.UUID) ([]model.Holding, error)

	// PairSymbols maps trading pair IDs to their symbols. Unknown IDs are
	// simply absent from the result.
	PairSymbols(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// Tx exposes the mutations available inside one trade transaction. Lock
// methods take row-level exclusive locks held until commit; callers must
// lock the portfolio before the holding to keep the lock order fixed.
type Tx interface {
	LockPortfolio(userID uuid.UUID) (model.Portfolio, error)
	// LockHolding returns nil without error when the user holds nothing in
	// the pair.
	LockHolding(userID, pairID uuid.UUID) (*model.Holding, error)

	SavePortfolio(p model.Portfolio) error
	SaveHolding(h model.Holding) error
	DeleteHolding(id uuid.UUID) error

	CreateOrder(o model.Order) error
	CreateTrade(t model.Trade) error
	CreateWalletTransaction(wt model.WalletTransaction) error
}
