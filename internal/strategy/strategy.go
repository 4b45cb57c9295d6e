package strategy

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"ticker_bot/internal/models"
)

var (
	DefaultUp   = decimal.NewFromFloat(5.0)
	DefaultDown = decimal.NewFromFloat(-5.0)
)

// Evaluator turns a 24h percent change into a direction.
// A large rise is a take-profit sell, a large drop is a buy-the-dip.
type Evaluator struct {
	up   decimal.Decimal
	down decimal.Decimal
}

func NewEvaluator(up, down decimal.Decimal) (*Evaluator, error) {
	if !up.IsPositive() || !down.IsNegative() {
		return nil, errors.Wrapf(models.ErrInvalidThresholds, "up=%s down=%s", up, down)
	}
	return &Evaluator{up: up, down: down}, nil
}

// Evaluate compares strictly: a change equal to a threshold is not a signal.
func (e *Evaluator) Evaluate(symbol string, percentChange decimal.Decimal) (models.TradeDirection, bool) {
	switch {
	case percentChange.GreaterThan(e.up):
		return models.DirectionSell, true
	case percentChange.LessThan(e.down):
		return models.DirectionBuy, true
	default:
		return models.DirectionNone, false
	}
}

// Signal evaluates a tick and wraps a crossing into a TradeSignal stamped at.
func (e *Evaluator) Signal(t models.Tick, at time.Time) (models.TradeSignal, bool) {
	sym := models.NormSymbol(t.Symbol)
	dir, ok := e.Evaluate(sym, t.PercentChange)
	if !ok {
		return models.TradeSignal{}, false
	}
	return models.TradeSignal{
		Symbol:        sym,
		Direction:     dir,
		PercentChange: t.PercentChange,
		At:            at,
	}, true
}

func (e *Evaluator) Up() decimal.Decimal   { return e.up }
func (e *Evaluator) Down() decimal.Decimal { return e.down }
