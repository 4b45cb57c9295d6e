package service

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"ticker_bot/internal/models"
)

const tickerEvent = "24hrTicker"

var errNotTicker = errors.New("not a ticker frame")

// parseTicker decodes one 24h ticker frame, either wrapped in a combined
// stream envelope ({"stream":..,"data":{..}}) or bare.
//
// Ticker payloads carry keys that differ only in case (p/P, c/C, o/O, e/E),
// so fields are looked up by exact key instead of unmarshalled into a struct.
func parseTicker(msg []byte) (models.Tick, error) {
	root, err := sonic.Get(msg)
	if err != nil {
		return models.Tick{}, errors.Wrap(err, "decode frame")
	}
	data := root.Get("data")
	if !data.Exists() {
		data = &root
	}

	event, _ := data.Get("e").String()
	if event != tickerEvent {
		return models.Tick{}, errNotTicker
	}

	symbol, err := data.Get("s").String()
	if err != nil || symbol == "" {
		return models.Tick{}, errors.New("ticker frame without symbol")
	}

	pct, err := decimalField(data, "P")
	if err != nil {
		return models.Tick{}, err
	}
	last, err := decimalField(data, "c")
	if err != nil {
		return models.Tick{}, err
	}
	vol, err := decimalField(data, "v")
	if err != nil {
		return models.Tick{}, err
	}

	t := models.Tick{
		Symbol:        models.NormSymbol(symbol),
		PercentChange: pct,
		LastPrice:     last,
		Volume:        vol,
	}
	if ms, err := data.Get("E").Int64(); err == nil && ms > 0 {
		t.EventTime = time.UnixMilli(ms).UTC()
	}
	return t, nil
}

func decimalField(n *ast.Node, key string) (decimal.Decimal, error) {
	s, err := n.Get(key).String()
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "ticker field %q", key)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "ticker field %q", key)
	}
	return d, nil
}
