package portfolio

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phoenix060107/Trade-Forge/internal/model"
	"github.com/phoenix060107/Trade-Forge/internal/store"
)

type stubStore struct {
	portfolio model.Portfolio
	holdings  []model.Holding
	symbols   map[uuid.UUID]string
}

func (s *stubStore) GetPortfolio(_ context.Context, userID uuid.UUID) (model.Portfolio, error) {
	if s.portfolio.UserID != userID {
		return model.Portfolio{}, store.ErrPortfolioNotFound
	}
	return s.portfolio, nil
}

func (s *stubStore) ListHoldings(_ context.Context, _ uuid.UUID) ([]model.Holding, error) {
	return s.holdings, nil
}

func (s *stubStore) PairSymbols(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]string, error) {
	return s.symbols, nil
}

type stubPrices map[string]string

func (s stubPrices) Resolve(symbol string) (decimal.Decimal, bool) {
	p, ok := s[symbol]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.RequireFromString(p), true
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSnapshotValuesHoldingsAtCurrentPrices(t *testing.T) {
	userID := uuid.New()
	btcPair, ethPair := uuid.New(), uuid.New()
	st := &stubStore{
		portfolio: model.Portfolio{
			UserID:          userID,
			CashBalance:     350_000,   // $3,500
			StartingBalance: 1_000_000, // $10,000
			TotalTrades:     2,
		},
		holdings: []model.Holding{
			{TradingPairID: ethPair, Quantity: dec("2"), AvgEntryPrice: dec("3000")},
			{TradingPairID: btcPair, Quantity: dec("0.1"), AvgEntryPrice: dec("65000")},
		},
		symbols: map[uuid.UUID]string{btcPair: "BTCUSDT", ethPair: "ETHUSDT"},
	}
	calc := NewCalculator(st, stubPrices{"BTCUSDT": "66000", "ETHUSDT": "3100"})

	snap, err := calc.Snapshot(context.Background(), userID)
	require.NoError(t, err)

	// 0.1 * 66000 = $6,600; 2 * 3100 = $6,200
	assert.Equal(t, int64(350_000), snap.CashBalance)
	assert.Equal(t, int64(660_000+620_000), snap.HoldingsValue)
	assert.Equal(t, int64(350_000+660_000+620_000), snap.TotalValue)
	assert.Equal(t, snap.TotalValue-1_000_000, snap.TotalPnL)
	assert.Equal(t, int64(2), snap.TotalTrades)

	require.Len(t, snap.Positions, 2)
	assert.Equal(t, "BTCUSDT", snap.Positions[0].Symbol, "positions sorted by symbol")
	assert.Equal(t, "ETHUSDT", snap.Positions[1].Symbol)

	btc := snap.Positions[0]
	assert.True(t, btc.Priced)
	assert.Equal(t, int64(660_000), btc.MarketValue)
	assert.Equal(t, int64(650_000), btc.CostBasis)
	assert.Equal(t, int64(10_000), btc.UnrealizedPnL)
	// 660000 / 1630000 * 100
	assert.True(t, btc.Allocation.Equal(dec("40.49")), "allocation %s", btc.Allocation)
}

func TestSnapshotMissingPriceContributesZero(t *testing.T) {
	userID := uuid.New()
	pairID := uuid.New()
	st := &stubStore{
		portfolio: model.Portfolio{UserID: userID, CashBalance: 100_000, StartingBalance: 100_000},
		holdings: []model.Holding{
			{TradingPairID: pairID, Quantity: dec("5"), AvgEntryPrice: dec("20")},
		},
		symbols: map[uuid.UUID]string{pairID: "SOLUSDT"},
	}
	calc := NewCalculator(st, stubPrices{})

	snap, err := calc.Snapshot(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), snap.HoldingsValue)
	assert.Equal(t, int64(100_000), snap.TotalValue)
	require.Len(t, snap.Positions, 1)
	pos := snap.Positions[0]
	assert.False(t, pos.Priced)
	assert.Equal(t, int64(0), pos.MarketValue)
	assert.Equal(t, int64(0), pos.UnrealizedPnL, "unpriced positions carry no paper loss")
	assert.Equal(t, int64(10_000), pos.CostBasis)
	assert.True(t, pos.Allocation.IsZero())
}

func TestSnapshotEmptyPortfolio(t *testing.T) {
	userID := uuid.New()
	st := &stubStore{
		portfolio: model.Portfolio{UserID: userID, CashBalance: 1_000_000, StartingBalance: 1_000_000},
	}
	calc := NewCalculator(st, stubPrices{})

	snap, err := calc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), snap.TotalValue)
	assert.Equal(t, int64(0), snap.TotalPnL)
	assert.Empty(t, snap.Positions)
}

func TestSnapshotUnknownUser(t *testing.T) {
	calc := NewCalculator(&stubStore{portfolio: model.Portfolio{UserID: uuid.New()}}, stubPrices{})

	_, err := calc.Snapshot(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrPortfolioNotFound)
}
