package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SymbolPairConfig describes one tradeable spot pair.
type SymbolPairConfig struct {
	BaseAsset      string
	QuoteAsset     string
	MinQuoteAmount decimal.Decimal
}

// Symbol returns the exchange symbol, e.g. BTC + USDT -> "BTCUSDT".
func (p SymbolPairConfig) Symbol() string {
	return NormSymbol(p.BaseAsset + p.QuoteAsset)
}

// NormSymbol is the canonical (case-insensitive) form of a trading symbol.
func NormSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
