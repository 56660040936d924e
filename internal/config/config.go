// Package config loads the service configuration from a JSON file, filling
// unset fields with defaults that work for local development.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/phoenix060107/Trade-Forge/internal/market"
	"github.com/phoenix060107/Trade-Forge/pkg/conn"
)

const (
	defaultServerAddr  = ":8000"
	defaultPriceTTLSec = 60
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Server   ServerConfig          `json:"server"`
	Database DatabaseConfig        `json:"database"`
	Market   MarketConfig          `json:"market"`
	Feeds    map[string]FeedConfig `json:"feeds"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// DatabaseConfig describes the postgres connection.
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslMode"`
}

// MarketConfig tunes the price cache.
type MarketConfig struct {
	PriceTTLSeconds int `json:"priceTtlSeconds"`
}

// FeedConfig describes one exchange feed entry.
type FeedConfig struct {
	Enabled *bool    `json:"enabled"`
	Symbols []string `json:"symbols"`
}

// Feed is a resolved exchange feed definition.
type Feed struct {
	Exchange market.Exchange
	Enabled  bool
	Symbols  []string
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	ServerAddr string
	Postgres   conn.PostgresOption
	PriceTTL   time.Duration
	Feeds      []Feed
}

// Load reads a JSON config file and resolves it. An empty path resolves the
// pure-default configuration.
func Load(path string) (Loaded, error) {
	var cfg FileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Loaded{}, err
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Loaded{}, err
		}
	}
	return resolve(cfg)
}

func resolve(cfg FileConfig) (Loaded, error) {
	loaded := Loaded{
		ServerAddr: cfg.Server.Addr,
		Postgres: conn.PostgresOption{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Database,
			SSLMode:  cfg.Database.SSLMode,
		},
		PriceTTL: time.Duration(cfg.Market.PriceTTLSeconds) * time.Second,
	}
	if loaded.ServerAddr == "" {
		loaded.ServerAddr = defaultServerAddr
	}
	if cfg.Market.PriceTTLSeconds < 0 {
		return Loaded{}, fmt.Errorf("priceTtlSeconds must be >= 0")
	}
	if loaded.PriceTTL == 0 {
		loaded.PriceTTL = defaultPriceTTLSec * time.Second
	}

	feeds, err := resolveFeeds(cfg.Feeds)
	if err != nil {
		return Loaded{}, err
	}
	loaded.Feeds = feeds
	return loaded, nil
}

func resolveFeeds(cfg map[string]FeedConfig) ([]Feed, error) {
	known := []market.Exchange{market.ExchangeBinance, market.ExchangeBybit, market.ExchangeKraken}

	for name := range cfg {
		if !validExchange(known, name) {
			return nil, fmt.Errorf("unknown exchange: %s", name)
		}
	}

	feeds := make([]Feed, 0, len(known))
	for _, exchange := range known {
		feed := Feed{Exchange: exchange, Enabled: true}
		if fc, ok := cfg[string(exchange)]; ok {
			if fc.Enabled != nil {
				feed.Enabled = *fc.Enabled
			}
			feed.Symbols = fc.Symbols
		}
		feeds = append(feeds, feed)
	}
	return feeds, nil
}

func validExchange(known []market.Exchange, name string) bool {
	for _, exchange := range known {
		if string(exchange) == name {
			return true
		}
	}
	return false
}
