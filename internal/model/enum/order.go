package enum

// OrderType is the requested execution style. Only market orders are
// supported; the others exist to keep the column domain stable.
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

func (t OrderType) String() string { return string(t) }

func (t OrderType) IsAvailable() bool {
	return t == OrderTypeMarket || t == OrderTypeLimit
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRejected  OrderStatus = "rejected"
)

func (s OrderStatus) String() string { return string(s) }
