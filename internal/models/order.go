package models

import "github.com/shopspring/decimal"

// OrderConfirmation is what the trading gateway reports for a filled
// (or accepted) market order.
type OrderConfirmation struct {
	OrderID        int64
	Symbol         string
	Direction      TradeDirection
	Status         string
	ExecutedQty    decimal.Decimal
	QuoteQtyFilled decimal.Decimal
	DryRun         bool
}
