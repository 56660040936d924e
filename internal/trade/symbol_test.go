package trade

import "testing"

func TestSplitSymbol(t *testing.T) {
	testCases := []struct {
		symbol string
		base   string
		quote  string
	}{
		{"BTCUSDT", "BTC", "USDT"},
		{"ETHUSDT", "ETH", "USDT"},
		{"SOLUSDC", "SOL", "USDC"},
		{"XBT/USD", "XBT", "USD"},
		{"ETH/USD", "ETH", "USD"},
		{"BTCEUR", "BTC", "EUR"},
		{"DOGEUSD", "DOGE", "USD"},
		// no recognized quote suffix falls back to USD
		{"BTC", "BTC", "USD"},
	}
	for _, tc := range testCases {
		base, quote := SplitSymbol(tc.symbol)
		if base != tc.base || quote != tc.quote {
			t.Fatalf("SplitSymbol(%q) = %q/%q, want %q/%q", tc.symbol, base, quote, tc.base, tc.quote)
		}
	}
}

func TestValidSymbol(t *testing.T) {
	valid := []string{"BTCUSDT", "XBT/USD", "ETH/USD", "SOL1USDT"}
	for _, s := range valid {
		if !validSymbol(s) {
			t.Errorf("validSymbol(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "BT", "BTC USDT", "BTC-USD", "/BTCUSD", "BTCUSD/", "XBT//USD", "BTC!"}
	for _, s := range invalid {
		if validSymbol(s) {
			t.Errorf("validSymbol(%q) = true, want false", s)
		}
	}
}
