// Package server exposes the trading core over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"

	"github.com/phoenix060107/Trade-Forge/internal/market"
	"github.com/phoenix060107/Trade-Forge/internal/model/enum"
	"github.com/phoenix060107/Trade-Forge/internal/portfolio"
	"github.com/phoenix060107/Trade-Forge/internal/store"
	"github.com/phoenix060107/Trade-Forge/internal/trade"
)

// OrderExecutor runs market orders.
type OrderExecutor interface {
	Execute(ctx context.Context, userID uuid.UUID, symbol string, side enum.Side, quantity decimal.Decimal) (trade.Receipt, error)
}

// SnapshotProvider values portfolios.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (portfolio.Snapshot, error)
}

// FeedStatus reports whether the exchange feeds are up.
type FeedStatus interface {
	Running() bool
}

// Pinger checks database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the trading core into a gin router. Feeds and db may be nil
// when the process runs degraded; the health endpoint reports them as down.
type Server struct {
	engine    *gin.Engine
	executor  OrderExecutor
	snapshots SnapshotProvider
	cache     *market.PriceCache
	feeds     FeedStatus
	db        Pinger
}

func New(executor OrderExecutor, snapshots SnapshotProvider, cache *market.PriceCache, feeds FeedStatus, db Pinger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:    gin.New(),
		executor:  executor,
		snapshots: snapshots,
		cache:     cache,
		feeds:     feeds,
		db:        db,
	}
	s.engine.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.POST("/api/trading/orders", s.placeOrder)
	s.engine.GET("/api/portfolio/:user_id", s.getPortfolio)
	s.engine.GET("/api/market/prices/:symbol", s.getPrices)
	s.engine.GET("/api/market/ws/prices", s.streamPrices)
	s.engine.GET("/health", s.getHealth)
}

// Handler exposes the router for serving and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logs.Infof("http server listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type placeOrderRequest struct {
	UserID   uuid.UUID       `json:"user_id" binding:"required"`
	Symbol   string          `json:"symbol" binding:"required"`
	Side     string          `json:"side" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

func (s *Server) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	side, ok := enum.ParseSide(req.Side)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be buy or sell"})
		return
	}

	receipt, err := s.executor.Execute(c.Request.Context(), req.UserID, req.Symbol, side, req.Quantity)
	if err != nil {
		status, msg := tradeErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func tradeErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, trade.ErrInvalidInput):
		return http.StatusBadRequest, "invalid order input"
	case errors.Is(err, trade.ErrInsufficientBalance):
		return http.StatusBadRequest, "insufficient balance"
	case errors.Is(err, trade.ErrInsufficientHoldings):
		return http.StatusBadRequest, "insufficient holdings"
	case errors.Is(err, trade.ErrPriceUnavailable):
		return http.StatusServiceUnavailable, "no live price for symbol"
	case errors.Is(err, store.ErrPortfolioNotFound):
		return http.StatusNotFound, "portfolio not found"
	default:
		return http.StatusInternalServerError, "order execution failed"
	}
}

func (s *Server) getPortfolio(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a uuid"})
		return
	}

	snap, err := s.snapshots.Snapshot(c.Request.Context(), userID)
	if errors.Is(err, store.ErrPortfolioNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "portfolio not found"})
		return
	}
	if err != nil {
		logs.Errorf("portfolio snapshot: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "snapshot failed"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) getPrices(c *gin.Context) {
	symbol := c.Param("symbol")

	prices := make(map[string]market.PriceTick)
	for _, exchange := range market.ResolvePriority {
		if tick, ok := s.cache.Get(exchange, symbol); ok {
			prices[exchange.String()] = tick
		}
	}
	if len(prices) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no live price for symbol"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "prices": prices})
}

func (s *Server) getHealth(c *gin.Context) {
	feedsUp := s.feeds != nil && s.feeds.Running()

	dbUp := false
	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		dbUp = s.db.Ping(ctx) == nil
	}

	status := "ok"
	if !feedsUp || !dbUp {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"feeds":    feedsUp,
		"database": dbUp,
	})
}
