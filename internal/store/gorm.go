package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	pkgerrors "github.com/yanun0323/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phoenix060107/Trade-Forge/internal/model"
)

// GormStore implements Store over a gorm postgres connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the trading tables.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&model.TradingPair{},
		&model.Portfolio{},
		&model.Holding{},
		&model.Order{},
		&model.Trade{},
		&model.WalletTransaction{},
	)
}

func (s *GormStore) ExecuteTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

func (s *GormStore) GetOrCreateTradingPair(ctx context.Context, symbol, base, quote string) (model.TradingPair, error) {
	var pair model.TradingPair
	err := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Attrs(model.TradingPair{
			ID:         uuid.New(),
			Symbol:     symbol,
			BaseAsset:  base,
			QuoteAsset: quote,
			IsActive:   true,
		}).
		FirstOrCreate(&pair).Error
	if err != nil {
		return model.TradingPair{}, pkgerrors.Wrapf(err, "get or create trading pair %s", symbol)
	}
	return pair, nil
}

func (s *GormStore) GetPortfolio(ctx context.Context, userID uuid.UUID) (model.Portfolio, error) {
	var p model.Portfolio
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Portfolio{}, ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, pkgerrors.Wrap(err, "get portfolio")
	}
	return p, nil
}

func (s *GormStore) ListHoldings(ctx context.Context, userID uuid.UUID) ([]model.Holding, error) {
	var holdings []model.Holding
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&holdings).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list holdings")
	}
	return holdings, nil
}

func (s *GormStore) PairSymbols(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var pairs []model.TradingPair
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&pairs).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "pair symbols")
	}
	for _, pair := range pairs {
		out[pair.ID] = pair.Symbol
	}
	return out, nil
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) LockPortfolio(userID uuid.UUID) (model.Portfolio, error) {
	var p model.Portfolio
	err := t.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Portfolio{}, ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, pkgerrors.Wrap(err, "lock portfolio")
	}
	return p, nil
}

func (t *gormTx) LockHolding(userID, pairID uuid.UUID) (*model.Holding, error) {
	var h model.Holding
	err := t.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND trading_pair_id = ?", userID, pairID).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "lock holding")
	}
	return &h, nil
}

func (t *gormTx) SavePortfolio(p model.Portfolio) error {
	if err := t.db.Save(&p).Error; err != nil {
		return pkgerrors.Wrap(err, "save portfolio")
	}
	return nil
}

func (t *gormTx) SaveHolding(h model.Holding) error {
	if err := t.db.Save(&h).Error; err != nil {
		return pkgerrors.Wrap(err, "save holding")
	}
	return nil
}

func (t *gormTx) DeleteHolding(id uuid.UUID) error {
	if err := t.db.Delete(&model.Holding{}, "id = ?", id).Error; err != nil {
		return pkgerrors.Wrap(err, "delete holding")
	}
	return nil
}

func (t *gormTx) CreateOrder(o model.Order) error {
	if err := t.db.Create(&o).Error; err != nil {
		return pkgerrors.Wrap(err, "create order")
	}
	return nil
}

func (t *gormTx) CreateTrade(tr model.Trade) error {
	if err := t.db.Create(&tr).Error; err != nil {
		return pkgerrors.Wrap(err, "create trade")
	}
	return nil
}

func (t *gormTx) CreateWalletTransaction(wt model.WalletTransaction) error {
	if err := t.db.Create(&wt).Error; err != nil {
		return pkgerrors.Wrap(err, "create wallet transaction")
	}
	return nil
}
