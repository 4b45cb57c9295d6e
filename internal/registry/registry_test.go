package registry

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticker_bot/internal/models"
)

func pair(base, quote, min string) models.SymbolPairConfig {
	return models.SymbolPairConfig{
		BaseAsset:      base,
		QuoteAsset:     quote,
		MinQuoteAmount: decimal.RequireFromString(min),
	}
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	r, err := New([]models.SymbolPairConfig{
		pair("BTC", "USDT", "10"),
		pair("ETH", "EUR", "15"),
	}, DuplicateOverwrite)
	require.NoError(t, err)

	upper, ok := r.Resolve("BTCUSDT")
	require.True(t, ok)
	lower, ok := r.Resolve("btcusdt")
	require.True(t, ok)
	mixed, ok := r.Resolve(" BtcUsdt ")
	require.True(t, ok)

	assert.Equal(t, upper, lower)
	assert.Equal(t, upper, mixed)
	assert.Equal(t, "USDT", upper.QuoteAsset)
	assert.True(t, upper.MinQuoteAmount.Equal(decimal.NewFromInt(10)))
}

func TestResolveUnknownSymbol(t *testing.T) {
	r, err := New([]models.SymbolPairConfig{pair("BTC", "USDT", "10")}, DuplicateOverwrite)
	require.NoError(t, err)

	_, ok := r.Resolve("XYZUSDT")
	assert.False(t, ok)
	_, ok = r.Resolve("")
	assert.False(t, ok)
}

func TestDuplicateOverwriteLaterWins(t *testing.T) {
	r, err := New([]models.SymbolPairConfig{
		pair("BTC", "USDT", "10"),
		pair("ETH", "USDT", "5"),
		pair("btc", "usdt", "25"),
	}, DuplicateOverwrite)
	require.NoError(t, err)

	p, ok := r.Resolve("BTCUSDT")
	require.True(t, ok)
	assert.True(t, p.MinQuoteAmount.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, r.Symbols())
}

func TestDuplicateRejectFails(t *testing.T) {
	_, err := New([]models.SymbolPairConfig{
		pair("BTC", "USDT", "10"),
		pair("BTC", "USDT", "25"),
	}, DuplicateReject)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateSymbol)
}

// Different splits can concatenate to the same symbol.
func TestDuplicateAcrossDifferentSplits(t *testing.T) {
	pairs := []models.SymbolPairConfig{
		pair("AB", "CUSDT", "1"),
		pair("ABC", "USDT", "2"),
	}

	r, err := New(pairs, DuplicateOverwrite)
	require.NoError(t, err)
	p, ok := r.Resolve("ABCUSDT")
	require.True(t, ok)
	assert.Equal(t, "ABC", p.BaseAsset)

	_, err = New(pairs, DuplicateReject)
	assert.ErrorIs(t, err, ErrDuplicateSymbol)
}

func TestNewRejectsInvalidPairs(t *testing.T) {
	_, err := New([]models.SymbolPairConfig{pair("", "USDT", "10")}, DuplicateOverwrite)
	assert.Error(t, err)

	_, err = New([]models.SymbolPairConfig{pair("BTC", "USDT", "0")}, DuplicateOverwrite)
	assert.Error(t, err)
}
