package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tick is one 24h ticker observation from the market feed.
// LastPrice and Volume are informational only.
type Tick struct {
	Symbol        string
	PercentChange decimal.Decimal
	LastPrice     decimal.Decimal
	Volume        decimal.Decimal
	EventTime     time.Time
}
