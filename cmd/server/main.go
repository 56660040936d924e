package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanun0323/logs"

	"github.com/phoenix060107/Trade-Forge/internal/config"
	"github.com/phoenix060107/Trade-Forge/internal/feed"
	"github.com/phoenix060107/Trade-Forge/internal/market"
	"github.com/phoenix060107/Trade-Forge/internal/portfolio"
	"github.com/phoenix060107/Trade-Forge/internal/server"
	"github.com/phoenix060107/Trade-Forge/internal/store"
	"github.com/phoenix060107/Trade-Forge/internal/trade"
	"github.com/phoenix060107/Trade-Forge/pkg/conn"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		logs.Errorf("fatal: %v", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := conn.NewPostgres(cfg.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	st := store.NewGormStore(pg.DB())
	if err := st.AutoMigrate(); err != nil {
		return err
	}

	cache := market.NewPriceCache(cfg.PriceTTL)
	resolver := market.NewResolver(cache)

	supervisor, err := buildSupervisor(cache, cfg.Feeds)
	if err != nil {
		return err
	}
	if supervisor != nil {
		if err := supervisor.Start(ctx); err != nil {
			return err
		}
		defer supervisor.Stop()
	} else {
		logs.Warn("all feeds disabled, running without live prices")
	}

	engine := trade.NewEngine(st, resolver)
	calculator := portfolio.NewCalculator(st, resolver)

	var feeds server.FeedStatus
	if supervisor != nil {
		feeds = supervisor
	}
	srv := server.New(engine, calculator, cache, feeds, pg)
	return srv.Run(ctx, cfg.ServerAddr)
}

// buildSupervisor assembles connectors for the enabled feeds and registers
// the configured symbols. Nil when every feed is disabled.
func buildSupervisor(cache *market.PriceCache, feeds []config.Feed) (*feed.Supervisor, error) {
	var connectors []feed.Connector
	for _, fc := range feeds {
		if !fc.Enabled {
			continue
		}
		switch fc.Exchange {
		case market.ExchangeBinance:
			connectors = append(connectors, feed.NewBinanceConnector(cache))
		case market.ExchangeBybit:
			connectors = append(connectors, feed.NewBybitConnector(cache))
		case market.ExchangeKraken:
			connectors = append(connectors, feed.NewKrakenConnector(cache))
		}
	}
	if len(connectors) == 0 {
		return nil, nil
	}

	supervisor := feed.NewSupervisorWith(cache, connectors...)
	for _, fc := range feeds {
		if !fc.Enabled {
			continue
		}
		for _, symbol := range fc.Symbols {
			if err := supervisor.Subscribe(fc.Exchange, symbol); err != nil {
				return nil, err
			}
		}
	}
	return supervisor, nil
}
