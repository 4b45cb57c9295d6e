package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusReportsSuppressionAndCooldown(t *testing.T) {
	f := newFixture(t, 6*time.Hour, 6*time.Hour, nil)
	require.Equal(t, OutcomeDispatched, f.c.HandleTick(context.Background(), tick("BTCUSDT", "6.0")))

	f.clock.Set(t0.Add(2*time.Hour + 30*time.Minute))
	st := f.c.Status()

	require.Len(t, st, 2)
	assert.Equal(t, SymbolStatus{
		Symbol:            "BTCUSDT",
		SuppressedUntil:   "2024-05-01 18:00:00 UTC",
		LastTrade:         "2024-05-01 12:00:00 UTC",
		CooldownRemaining: "3h 30m",
	}, st[0])
	assert.Equal(t, SymbolStatus{Symbol: "ETHEUR"}, st[1])
}

func TestStatusAfterWindowsElapse(t *testing.T) {
	f := newFixture(t, 6*time.Hour, 6*time.Hour, nil)
	require.Equal(t, OutcomeDispatched, f.c.HandleTick(context.Background(), tick("ETHEUR", "-8")))

	f.clock.Set(t0.Add(7 * time.Hour))
	st := f.c.Status()

	require.Len(t, st, 2)
	assert.Equal(t, SymbolStatus{Symbol: "ETHEUR", LastTrade: "2024-05-01 12:00:00 UTC"}, st[1])
}
