package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ticker_bot/internal/runner"
)

// StatusReport renders the /status reply.
func StatusReport(st []runner.SymbolStatus) string {
	if len(st) == 0 {
		return "no symbols configured"
	}

	var b strings.Builder
	b.WriteString("📊 Symbols:\n")
	for _, s := range st {
		fmt.Fprintf(&b, "- %s", s.Symbol)
		if s.SuppressedUntil != "" {
			fmt.Fprintf(&b, " | ignored until %s", s.SuppressedUntil)
		}
		if s.LastTrade != "" {
			fmt.Fprintf(&b, " | last trade %s", s.LastTrade)
		}
		if s.CooldownRemaining != "" {
			fmt.Fprintf(&b, " | cooldown %s", s.CooldownRemaining)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// BalanceReport renders the /balances reply, assets sorted by name.
func BalanceReport(balances map[string]decimal.Decimal) string {
	if len(balances) == 0 {
		return "📭 No balances"
	}

	assets := make([]string, 0, len(balances))
	for a := range balances {
		assets = append(assets, a)
	}
	sort.Strings(assets)

	var b strings.Builder
	b.WriteString("💰 Balances:")
	for _, a := range assets {
		fmt.Fprintf(&b, "\n- %s: %s", a, balances[a].String())
	}
	return b.String()
}
