package trade

import "errors"

// Typed error kinds returned by Execute. Callers match with errors.Is
// instead of catching; the wrapped message carries the user-facing detail
// (amounts, symbols) but never internal state.
var (
	// ErrInvalidInput rejects malformed requests before any I/O happens.
	ErrInvalidInput = errors.New("invalid trade input")

	// ErrPriceUnavailable marks a trade refused because no exchange has a
	// fresh price. The trade is never attempted.
	ErrPriceUnavailable = errors.New("market price unavailable")

	// ErrInsufficientBalance rejects a buy that exceeds the cash balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientHoldings rejects a sell of more than is held.
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrExecutionFailed covers transaction failures. The transaction is
	// fully rolled back and the cause logged; callers only see this
	// generic kind.
	ErrExecutionFailed = errors.New("trade execution failed")
)
