package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidThresholds is shared by config validation and the evaluator.
var ErrInvalidThresholds = errors.New("up threshold must be > 0 and down threshold must be < 0")

// TradeDirection is the side of a market order produced by a signal.
type TradeDirection string

const (
	DirectionNone TradeDirection = ""
	DirectionBuy  TradeDirection = "BUY"
	DirectionSell TradeDirection = "SELL"
)

func (d TradeDirection) String() string {
	if d == DirectionNone {
		return "NONE"
	}
	return string(d)
}

// TradeSignal is created per tick and consumed once by the runner.
type TradeSignal struct {
	Symbol        string
	Direction     TradeDirection
	PercentChange decimal.Decimal
	At            time.Time
}
