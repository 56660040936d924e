// Package portfolio computes point-in-time valuations of a user's cash and
// holdings against the latest cached prices.
package portfolio

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	pkgerrors "github.com/yanun0323/errors"

	"github.com/phoenix060107/Trade-Forge/internal/model"
)

// Store is the read-side persistence the calculator needs.
type Store interface {
	GetPortfolio(ctx context.Context, userID uuid.UUID) (model.Portfolio, error)
	ListHoldings(ctx context.Context, userID uuid.UUID) ([]model.Holding, error)
	PairSymbols(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// PriceSource resolves the current price for a symbol.
type PriceSource interface {
	Resolve(symbol string) (decimal.Decimal, bool)
}

// Position is one valued holding. Money fields are integer cents; a missing
// price leaves Priced false and values the position at zero.
type Position struct {
	Symbol        string          `json:"symbol"`
	Quantity      decimal.Decimal `json:"quantity"`
	AvgEntryPrice decimal.Decimal `json:"avg_entry_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	Priced        bool            `json:"priced"`
	MarketValue   int64           `json:"market_value"`
	CostBasis     int64           `json:"cost_basis"`
	UnrealizedPnL int64           `json:"unrealized_pnl"`
	Allocation    decimal.Decimal `json:"allocation_pct"`
}

// Snapshot is a full portfolio valuation at one instant.
type Snapshot struct {
	UserID          uuid.UUID  `json:"user_id"`
	CashBalance     int64      `json:"cash_balance"`
	HoldingsValue   int64      `json:"holdings_value"`
	TotalValue      int64      `json:"total_value"`
	StartingBalance int64      `json:"starting_balance"`
	TotalPnL        int64      `json:"total_pnl"`
	TotalTrades     int64      `json:"total_trades"`
	Positions       []Position `json:"positions"`
	GeneratedAt     time.Time  `json:"generated_at"`
}

type Calculator struct {
	store  Store
	prices PriceSource
}

func NewCalculator(st Store, prices PriceSource) *Calculator {
	return &Calculator{store: st, prices: prices}
}

// Snapshot values every holding at the freshest cached price. Holdings
// whose price has expired or never arrived contribute zero instead of
// failing the whole snapshot.
func (c *Calculator) Snapshot(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	p, err := c.store.GetPortfolio(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	holdings, err := c.store.ListHoldings(ctx, userID)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(err, "snapshot holdings")
	}

	ids := make([]uuid.UUID, 0, len(holdings))
	for _, h := range holdings {
		ids = append(ids, h.TradingPairID)
	}
	symbols, err := c.store.PairSymbols(ctx, ids)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(err, "snapshot pair symbols")
	}

	snap := Snapshot{
		UserID:          userID,
		CashBalance:     p.CashBalance,
		StartingBalance: p.StartingBalance,
		TotalTrades:     p.TotalTrades,
		Positions:       make([]Position, 0, len(holdings)),
		GeneratedAt:     time.Now().UTC(),
	}

	for _, h := range holdings {
		pos := Position{
			Symbol:        symbols[h.TradingPairID],
			Quantity:      h.Quantity,
			AvgEntryPrice: h.AvgEntryPrice,
			CostBasis:     cents(h.Quantity.Mul(h.AvgEntryPrice)),
		}
		if price, ok := c.prices.Resolve(pos.Symbol); ok {
			pos.Priced = true
			pos.CurrentPrice = price
			pos.MarketValue = cents(h.Quantity.Mul(price))
			pos.UnrealizedPnL = pos.MarketValue - pos.CostBasis
		}
		snap.HoldingsValue += pos.MarketValue
		snap.Positions = append(snap.Positions, pos)
	}

	snap.TotalValue = snap.CashBalance + snap.HoldingsValue
	snap.TotalPnL = snap.TotalValue - snap.StartingBalance

	total := decimal.NewFromInt(snap.TotalValue)
	for i := range snap.Positions {
		if total.IsPositive() && snap.Positions[i].MarketValue > 0 {
			snap.Positions[i].Allocation = decimal.NewFromInt(snap.Positions[i].MarketValue).
				Div(total).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		} else {
			snap.Positions[i].Allocation = decimal.Zero
		}
	}

	sort.Slice(snap.Positions, func(i, j int) bool {
		return snap.Positions[i].Symbol < snap.Positions[j].Symbol
	})
	return snap, nil
}

// cents truncates a dollar amount to whole cents, matching trade settlement.
func cents(dollars decimal.Decimal) int64 {
	return dollars.Shift(2).IntPart()
}
