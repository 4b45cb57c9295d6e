package runner

import (
	"time"

	"ticker_bot/internal/helper"
)

// SymbolStatus is the per-symbol pipeline state exposed on the status endpoint.
type SymbolStatus struct {
	Symbol            string `json:"symbol"`
	SuppressedUntil   string `json:"suppressedUntil,omitempty"`
	LastTrade         string `json:"lastTrade,omitempty"`
	CooldownRemaining string `json:"cooldownRemaining,omitempty"`
}

// Status reports every registered symbol in configuration order.
func (c *Coordinator) Status() []SymbolStatus {
	now := c.now().UTC()
	out := make([]SymbolStatus, 0, c.registry.Len())

	for _, sym := range c.registry.Symbols() {
		st := SymbolStatus{Symbol: sym}
		if until, ok := c.suppressor.SuppressedUntil(sym); ok && until.After(now) {
			st.SuppressedUntil = helper.UTCStamp(until)
		}
		if last, ok := c.throttler.LastTradeTime(sym); ok {
			st.LastTrade = helper.UTCStamp(last)
			if rem := c.throttler.RemainingCooldown(sym, now); rem > 0 {
				st.CooldownRemaining = helper.FormatCooldown(rem.Round(time.Second))
			}
		}
		out = append(out, st)
	}
	return out
}
