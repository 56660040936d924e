// Package trade is the execution engine: it validates a market order,
// resolves its price from the live cache, and applies the balance, holding,
// and ledger mutations in one atomic transaction.
package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"

	"github.com/phoenix060107/Trade-Forge/internal/model"
	"github.com/phoenix060107/Trade-Forge/internal/model/enum"
	"github.com/phoenix060107/Trade-Forge/internal/store"
)

// DustThreshold is the quantity below which a holding counts as fully
// closed and is deleted instead of persisted.
var DustThreshold = decimal.New(1, -8)

// PriceSource resolves the execution price for a symbol. Absence is a hard
// failure here, unlike portfolio valuation.
type PriceSource interface {
	Resolve(symbol string) (decimal.Decimal, bool)
}

// Receipt is the structured result of a successful execution.
type Receipt struct {
	TradeID    uuid.UUID       `json:"trade_id"`
	OrderID    uuid.UUID       `json:"order_id"`
	Symbol     string          `json:"symbol"`
	Side       enum.Side       `json:"side"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalValue int64           `json:"total_value_cents"`
	// CashBalance is the portfolio cash in cents after the trade.
	CashBalance int64     `json:"cash_balance_cents"`
	ExecutedAt  time.Time `json:"executed_at"`
}

// Engine executes market orders against the store using cached live prices.
type Engine struct {
	store  store.Store
	prices PriceSource
}

func NewEngine(st store.Store, prices PriceSource) *Engine {
	return &Engine{store: st, prices: prices}
}

// Execute runs one market order for the user, all-or-nothing.
//
// Lock order inside the transaction is fixed: portfolio row first, then the
// holding row. Concurrent trades by the same user serialize on the
// portfolio lock, which also closes the check-then-write race on the cash
// balance.
func (e *Engine) Execute(ctx context.Context, userID uuid.UUID, symbol string, side enum.Side, quantity decimal.Decimal) (Receipt, error) {
	if !side.IsAvailable() {
		return Receipt{}, fmt.Errorf("%w: side must be buy or sell", ErrInvalidInput)
	}
	if !quantity.IsPositive() {
		return Receipt{}, fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidInput)
	}
	if !validSymbol(symbol) {
		return Receipt{}, fmt.Errorf("%w: invalid symbol %q", ErrInvalidInput, symbol)
	}

	base, quote := SplitSymbol(symbol)
	pair, err := e.store.GetOrCreateTradingPair(ctx, normalizeSymbol(symbol), base, quote)
	if err != nil {
		logs.Errorf("trade: resolve trading pair %s, err: %+v", symbol, err)
		return Receipt{}, ErrExecutionFailed
	}

	price, ok := e.prices.Resolve(pair.Symbol)
	if !ok {
		return Receipt{}, fmt.Errorf("%w: no fresh price for %s on any exchange", ErrPriceUnavailable, pair.Symbol)
	}

	// notional in integer cents, fractional cents truncated
	totalCents := quantity.Mul(price).Shift(2).IntPart()

	var receipt Receipt
	err = e.store.ExecuteTx(ctx, func(tx store.Tx) error {
		portfolio, err := tx.LockPortfolio(userID)
		if err != nil {
			return err
		}
		holding, err := tx.LockHolding(userID, pair.ID)
		if err != nil {
			return err
		}

		switch side {
		case enum.SideBuy:
			if portfolio.CashBalance < totalCents {
				return fmt.Errorf("%w: required %s, available %s",
					ErrInsufficientBalance, centsString(totalCents), centsString(portfolio.CashBalance))
			}
			if err := applyBuy(tx, holding, userID, pair.ID, quantity, price); err != nil {
				return err
			}
			portfolio.CashBalance -= totalCents

		case enum.SideSell:
			if holding == nil || holding.Quantity.LessThan(quantity) {
				available := decimal.Zero
				if holding != nil {
					available = holding.Quantity
				}
				return fmt.Errorf("%w: required %s, available %s",
					ErrInsufficientHoldings, quantity, available)
			}
			if err := applySell(tx, *holding, quantity); err != nil {
				return err
			}
			portfolio.CashBalance += totalCents
		}

		portfolio.TotalTrades++
		portfolio.UpdatedAt = time.Now().UTC()
		if err := tx.SavePortfolio(portfolio); err != nil {
			return err
		}

		now := time.Now().UTC()
		order := model.Order{
			ID:            uuid.New(),
			UserID:        userID,
			TradingPairID: pair.ID,
			OrderType:     enum.OrderTypeMarket,
			Side:          side,
			Status:        enum.OrderStatusFilled,
			Quantity:      quantity,
			Price:         price,
			TotalCost:     totalCents,
			CreatedAt:     now,
			FilledAt:      &now,
		}
		if err := tx.CreateOrder(order); err != nil {
			return err
		}

		trade := model.Trade{
			ID:            uuid.New(),
			OrderID:       order.ID,
			UserID:        userID,
			TradingPairID: pair.ID,
			Side:          side,
			Quantity:      quantity,
			Price:         price,
			TotalValue:    totalCents,
			ExecutedAt:    now,
		}
		if err := tx.CreateTrade(trade); err != nil {
			return err
		}

		if err := tx.CreateWalletTransaction(ledgerEntry(userID, side, totalCents, portfolio.CashBalance, trade.ID)); err != nil {
			return err
		}

		receipt = Receipt{
			TradeID:     trade.ID,
			OrderID:     order.ID,
			Symbol:      pair.Symbol,
			Side:        side,
			Quantity:    quantity,
			Price:       price,
			TotalValue:  totalCents,
			CashBalance: portfolio.CashBalance,
			ExecutedAt:  now,
		}
		return nil
	})
	if err != nil {
		if isBusinessError(err) {
			return Receipt{}, err
		}
		logs.Errorf("trade: execute %s %s %s for user %s, err: %+v", side, quantity, symbol, userID, err)
		return Receipt{}, ErrExecutionFailed
	}

	return receipt, nil
}

// applyBuy upserts the holding with a weighted-average cost basis:
// new_avg = (old_qty*old_avg + bought_qty*price) / (old_qty+bought_qty).
func applyBuy(tx store.Tx, holding *model.Holding, userID, pairID uuid.UUID, quantity, price decimal.Decimal) error {
	now := time.Now().UTC()
	if holding == nil {
		return tx.SaveHolding(model.Holding{
			ID:            uuid.New(),
			UserID:        userID,
			TradingPairID: pairID,
			Quantity:      quantity,
			AvgEntryPrice: price,
			UpdatedAt:     now,
		})
	}

	newQuantity := holding.Quantity.Add(quantity)
	oldCost := holding.Quantity.Mul(holding.AvgEntryPrice)
	newCost := quantity.Mul(price)
	holding.Quantity = newQuantity
	holding.AvgEntryPrice = oldCost.Add(newCost).Div(newQuantity)
	holding.UpdatedAt = now
	return tx.SaveHolding(*holding)
}

// applySell reduces the holding, deleting it entirely once the remainder is
// dust. The average entry price is untouched by sells.
func applySell(tx store.Tx, holding model.Holding, quantity decimal.Decimal) error {
	remaining := holding.Quantity.Sub(quantity)
	if remaining.LessThanOrEqual(DustThreshold) {
		return tx.DeleteHolding(holding.ID)
	}
	holding.Quantity = remaining
	holding.UpdatedAt = time.Now().UTC()
	return tx.SaveHolding(holding)
}

func ledgerEntry(userID uuid.UUID, side enum.Side, totalCents, balanceAfter int64, tradeID uuid.UUID) model.WalletTransaction {
	entry := model.WalletTransaction{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         enum.TransactionTradeLoss,
		Amount:       -totalCents,
		BalanceAfter: balanceAfter,
		ReferenceID:  &tradeID,
		Description:  fmt.Sprintf("Trade BUY: %s", tradeID),
		CreatedAt:    time.Now().UTC(),
	}
	if side == enum.SideSell {
		entry.Type = enum.TransactionTradeProfit
		entry.Amount = totalCents
		entry.Description = fmt.Sprintf("Trade SELL: %s", tradeID)
	}
	return entry
}

func isBusinessError(err error) bool {
	for _, kind := range []error{ErrInvalidInput, ErrPriceUnavailable, ErrInsufficientBalance, ErrInsufficientHoldings, store.ErrPortfolioNotFound} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func centsString(cents int64) string {
	d := decimal.New(cents, -2)
	return "$" + d.StringFixed(2)
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
