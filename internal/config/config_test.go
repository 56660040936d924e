package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phoenix060107/Trade-Forge/internal/market"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ServerAddr != ":8000" {
		t.Fatalf("server addr = %q", loaded.ServerAddr)
	}
	if loaded.PriceTTL != 60*time.Second {
		t.Fatalf("price ttl = %v", loaded.PriceTTL)
	}
	if len(loaded.Feeds) != 3 {
		t.Fatalf("feeds = %d, want 3", len(loaded.Feeds))
	}
	for _, feed := range loaded.Feeds {
		if !feed.Enabled {
			t.Fatalf("feed %s disabled by default", feed.Exchange)
		}
		if feed.Symbols != nil {
			t.Fatalf("feed %s has symbols by default", feed.Exchange)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `{
		"server": {"addr": ":9000"},
		"database": {"host": "db", "port": 5433, "user": "forge", "database": "forge"},
		"market": {"priceTtlSeconds": 30},
		"feeds": {
			"kraken": {"enabled": false},
			"binance": {"symbols": ["BTCUSDT", "ETHUSDT"]}
		}
	}`)

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ServerAddr != ":9000" {
		t.Fatalf("server addr = %q", loaded.ServerAddr)
	}
	if loaded.Postgres.Host != "db" || loaded.Postgres.Port != 5433 {
		t.Fatalf("postgres option = %+v", loaded.Postgres)
	}
	if loaded.PriceTTL != 30*time.Second {
		t.Fatalf("price ttl = %v", loaded.PriceTTL)
	}

	byExchange := map[market.Exchange]Feed{}
	for _, feed := range loaded.Feeds {
		byExchange[feed.Exchange] = feed
	}
	if byExchange[market.ExchangeKraken].Enabled {
		t.Fatal("kraken should be disabled")
	}
	if !byExchange[market.ExchangeBybit].Enabled {
		t.Fatal("bybit should stay enabled")
	}
	got := byExchange[market.ExchangeBinance].Symbols
	if len(got) != 2 || got[0] != "BTCUSDT" || got[1] != "ETHUSDT" {
		t.Fatalf("binance symbols = %v", got)
	}
}

func TestLoadRejectsUnknownExchange(t *testing.T) {
	path := writeConfig(t, `{"feeds": {"coinbase": {}}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown exchange")
	}
}

func TestLoadRejectsNegativeTTL(t *testing.T) {
	path := writeConfig(t, `{"market": {"priceTtlSeconds": -1}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for negative ttl")
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := writeConfig(t, `{"server":`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed json")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
