package strategy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticker_bot/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEvaluate(t *testing.T) {
	e, err := NewEvaluator(DefaultUp, DefaultDown)
	require.NoError(t, err)

	cases := []struct {
		change string
		want   models.TradeDirection
		ok     bool
	}{
		{"6.0", models.DirectionSell, true},
		{"5.0001", models.DirectionSell, true},
		{"120", models.DirectionSell, true},
		{"5", models.DirectionNone, false},
		{"5.00", models.DirectionNone, false},
		{"4.99", models.DirectionNone, false},
		{"0", models.DirectionNone, false},
		{"-4.99", models.DirectionNone, false},
		{"-5", models.DirectionNone, false},
		{"-5.000", models.DirectionNone, false},
		{"-5.0001", models.DirectionBuy, true},
		{"-6.0", models.DirectionBuy, true},
		{"-99.9", models.DirectionBuy, true},
	}

	for _, tc := range cases {
		t.Run(tc.change, func(t *testing.T) {
			got, ok := e.Evaluate("BTCUSDT", d(tc.change))
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateCustomThresholds(t *testing.T) {
	e, err := NewEvaluator(d("10"), d("-2.5"))
	require.NoError(t, err)

	_, ok := e.Evaluate("ETHUSDT", d("9.9"))
	assert.False(t, ok)

	dir, ok := e.Evaluate("ETHUSDT", d("-2.6"))
	assert.True(t, ok)
	assert.Equal(t, models.DirectionBuy, dir)
}

func TestNewEvaluatorRejectsBadThresholds(t *testing.T) {
	for _, tc := range []struct{ up, down string }{
		{"0", "-5"},
		{"-1", "-5"},
		{"5", "0"},
		{"5", "1"},
	} {
		_, err := NewEvaluator(d(tc.up), d(tc.down))
		assert.ErrorIs(t, err, models.ErrInvalidThresholds, "up=%s down=%s", tc.up, tc.down)
	}
}

func TestSignalWrapsCrossing(t *testing.T) {
	e, err := NewEvaluator(DefaultUp, DefaultDown)
	require.NoError(t, err)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	sig, ok := e.Signal(models.Tick{Symbol: "btcusdt", PercentChange: d("5.01")}, at)
	require.True(t, ok)
	assert.Equal(t, models.TradeSignal{
		Symbol:        "BTCUSDT",
		Direction:     models.DirectionSell,
		PercentChange: d("5.01"),
		At:            at,
	}, sig)

	_, ok = e.Signal(models.Tick{Symbol: "BTCUSDT", PercentChange: d("5")}, at)
	assert.False(t, ok)
}
