package service

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ticker_bot/internal/models"
)

// PlaceMarketOrder spends quoteAmount of the quote asset (buy) or sells base
// worth quoteAmount (sell) at market.
func (c *Client) PlaceMarketOrder(
	ctx context.Context,
	symbol string,
	direction models.TradeDirection,
	quoteAmount decimal.Decimal,
) (conf models.OrderConfirmation, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "binance.PlaceMarketOrder")
	defer func() {
		if err != nil {
			ext.Error.Set(span, true)
			span.LogKV("error", err.Error())
		}
		span.Finish()
	}()
	span.SetTag("symbol", symbol)
	span.SetTag("side", direction.String())
	span.SetTag("quote_amount", quoteAmount.String())
	span.SetTag("dry_run", c.dryRun)

	side, err := sideOf(direction)
	if err != nil {
		return models.OrderConfirmation{}, err
	}
	if !quoteAmount.IsPositive() {
		return models.OrderConfirmation{}, errors.Errorf("quote amount must be > 0, got %s", quoteAmount)
	}

	if c.dryRun {
		c.log.Info("dry-run market order",
			zap.String("symbol", symbol),
			zap.Stringer("side", direction),
			zap.String("quote_amount", quoteAmount.String()),
		)
		return models.OrderConfirmation{
			Symbol:    symbol,
			Direction: direction,
			Status:    "DRY_RUN",
			DryRun:    true,
		}, nil
	}
	if !c.creds {
		return models.OrderConfirmation{}, ErrNoCredentials
	}

	res, err := c.api.NewCreateOrderService().
		Symbol(symbol).
		Side(side).
		Type(binance.OrderTypeMarket).
		QuoteOrderQty(quoteAmount.String()).
		Do(ctx)
	if err != nil {
		return models.OrderConfirmation{}, errors.Wrapf(err, "place market %s %s", direction, symbol)
	}

	conf = models.OrderConfirmation{
		OrderID:        res.OrderID,
		Symbol:         res.Symbol,
		Direction:      direction,
		Status:         string(res.Status),
		ExecutedQty:    parseDecimal(res.ExecutedQuantity),
		QuoteQtyFilled: parseDecimal(res.CummulativeQuoteQuantity),
	}
	span.SetTag("order_id", conf.OrderID)

	c.log.Info("market order executed",
		zap.String("symbol", conf.Symbol),
		zap.Stringer("side", direction),
		zap.Int64("order_id", conf.OrderID),
		zap.String("status", conf.Status),
		zap.String("executed_qty", conf.ExecutedQty.String()),
		zap.String("cummulative_quote_qty", conf.QuoteQtyFilled.String()),
	)
	return conf, nil
}

func sideOf(d models.TradeDirection) (binance.SideType, error) {
	switch d {
	case models.DirectionBuy:
		return binance.SideTypeBuy, nil
	case models.DirectionSell:
		return binance.SideTypeSell, nil
	default:
		return "", errors.Errorf("unsupported direction %q", d)
	}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
