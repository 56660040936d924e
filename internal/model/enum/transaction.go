package enum

// TransactionType classifies a wallet ledger entry.
type TransactionType string

const (
	TransactionInitialDeposit TransactionType = "initial_deposit"
	TransactionTradeProfit    TransactionType = "trade_profit"
	TransactionTradeLoss      TransactionType = "trade_loss"
	TransactionAdjustment     TransactionType = "admin_adjustment"
	TransactionReset          TransactionType = "reset"
)

func (t TransactionType) String() string { return string(t) }
