package service

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ticker_bot/internal/models"
)

// AvailableBalance returns the free amount of asset. found is false when the
// account does not list the asset at all.
func (c *Client) AvailableBalance(ctx context.Context, asset string) (free decimal.Decimal, found bool, err error) {
	acc, err := c.api.NewGetAccountService().Do(ctx)
	if err != nil {
		return decimal.Zero, false, errors.Wrap(err, "get account info")
	}

	for _, b := range acc.Balances {
		if !strings.EqualFold(b.Asset, asset) {
			continue
		}
		free = parseDecimal(b.Free)
		c.log.Debug("balance",
			zap.String("asset", b.Asset),
			zap.String("available", b.Free),
			zap.String("locked", b.Locked),
		)
		return free, true, nil
	}

	c.log.Warn("asset not found in account", zap.String("asset", asset))
	return decimal.Zero, false, nil
}

// AllBalances returns available+locked for every asset with a non-zero total.
func (c *Client) AllBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	acc, err := c.api.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get account info")
	}

	out := make(map[string]decimal.Decimal)
	for _, b := range acc.Balances {
		total := parseDecimal(b.Free).Add(parseDecimal(b.Locked))
		if total.IsPositive() {
			out[strings.ToUpper(b.Asset)] = total
		}
	}
	return out, nil
}

// LogBalances writes one line per non-empty asset. Without credentials it
// does nothing.
func (c *Client) LogBalances(ctx context.Context) error {
	if !c.creds {
		return nil
	}
	all, err := c.AllBalances(ctx)
	if err != nil {
		return err
	}

	assets := make([]string, 0, len(all))
	for a := range all {
		assets = append(assets, a)
	}
	sort.Strings(assets)
	for _, a := range assets {
		c.log.Info("account balance", zap.String("asset", a), zap.String("total", all[a].String()))
	}
	if len(assets) == 0 {
		c.log.Info("account has no balances")
	}
	return nil
}

// HasSufficientBalance checks the quote asset for a buy (must cover
// quoteAmount) and the base asset for a sell (must be non-zero). A dry-run
// client without credentials always reports enough.
func (c *Client) HasSufficientBalance(
	ctx context.Context,
	pair models.SymbolPairConfig,
	direction models.TradeDirection,
	quoteAmount decimal.Decimal,
) (bool, error) {
	// dry-run orders never reach the exchange
	if c.DryRun() && !c.creds {
		c.log.Debug("balance check skipped in dry-run without credentials",
			zap.String("symbol", pair.Symbol()), zap.Stringer("side", direction))
		return true, nil
	}

	asset, required := pair.QuoteAsset, quoteAmount
	if direction == models.DirectionSell {
		asset, required = pair.BaseAsset, decimal.Zero
	}

	free, _, err := c.AvailableBalance(ctx, asset)
	if err != nil {
		return false, errors.Wrapf(err, "balance for %s", asset)
	}

	var ok bool
	if direction == models.DirectionSell {
		ok = free.GreaterThan(required)
	} else {
		ok = free.GreaterThanOrEqual(required)
	}

	fields := []zap.Field{
		zap.String("symbol", pair.Symbol()),
		zap.Stringer("side", direction),
		zap.String("asset", asset),
		zap.String("balance", free.String()),
		zap.String("required", required.String()),
	}
	if ok {
		c.log.Info("sufficient balance", fields...)
	} else {
		c.log.Warn("insufficient balance", fields...)
	}
	return ok, nil
}
