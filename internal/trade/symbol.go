package trade

import "strings"

// quoteSuffixes are the recognized quote assets, longest first so USDT wins
// over USD when both match.
var quoteSuffixes = []string{"USDT", "USDC", "EUR", "USD"}

// SplitSymbol derives the base/quote asset split from a symbol string.
// Slash-delimited pairs split directly ("XBT/USD"); concatenated symbols
// split by quote-suffix stripping ("BTCUSDT" -> BTC/USDT). Unrecognized
// suffixes fall back to quoting in USD.
func SplitSymbol(symbol string) (base, quote string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if i := strings.IndexByte(symbol, '/'); i > 0 && i < len(symbol)-1 {
		return symbol[:i], symbol[i+1:]
	}

	for _, suffix := range quoteSuffixes {
		if len(symbol) > len(suffix) && strings.HasSuffix(symbol, suffix) {
			return strings.TrimSuffix(symbol, suffix), suffix
		}
	}
	return symbol, "USD"
}

// validSymbol is the fast syntactic check before any I/O: at least three
// characters, letters/digits with at most one inner slash.
func validSymbol(symbol string) bool {
	symbol = strings.TrimSpace(symbol)
	if len(symbol) < 3 {
		return false
	}
	slashes := 0
	for i, r := range symbol {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '/':
			slashes++
			if slashes > 1 || i == 0 || i == len(symbol)-1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
