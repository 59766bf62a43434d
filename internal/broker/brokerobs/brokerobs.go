package brokerobs

import (
	"context"
	"fmt"

	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/logger"
	"cashtag-trader/internal/metrics"
	"cashtag-trader/internal/trace"
	"cashtag-trader/internal/types"
)

// observableBroker wraps a Broker with observability (logging & tracing)
type observableBroker struct {
	broker interfaces.Broker
}

// Compile-time interface check
var _ interfaces.Broker = (*observableBroker)(nil)

// Wrap wraps a broker with observability middleware
func Wrap(broker interfaces.Broker) interfaces.Broker {
	return &observableBroker{broker: broker}
}

// LTP returns the last traded price with observability
func (ob *observableBroker) LTP(ctx context.Context, symbol string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "broker.LTP")
	defer span.End()

	price, err := ob.broker.LTP(ctx, symbol)
	if err != nil {
		logger.WarnSkip(ctx, 1, "Failed to fetch LTP", "symbol", symbol, "error", err)
		return 0, err
	}

	logger.DebugSkip(ctx, 1, "LTP fetched successfully", "symbol", symbol, "price", price)
	return price, nil
}

func (ob *observableBroker) TradableSymbols(ctx context.Context) (types.SymbolSet, error) {
	ctx, span := trace.StartSpan(ctx, "broker.TradableSymbols")
	defer span.End()

	set, err := ob.broker.TradableSymbols(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to list tradable symbols", err)
		return nil, fmt.Errorf("list tradable symbols: %w", err)
	}

	logger.InfoSkip(ctx, 1, "Tradable symbols loaded", "count", len(set))
	return set, nil
}

// PlaceOrder places an order with observability
func (ob *observableBroker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	ctx, span := trace.StartSpan(ctx, "broker.PlaceOrder")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Placing order",
		"symbol", req.Symbol,
		"side", req.Side,
		"qty", req.Qty.String(),
		"tag", req.Tag,
	)

	resp, err := ob.broker.PlaceOrder(ctx, req)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues(req.Symbol, string(req.Side), "failed").Inc()
		logger.ErrorWithErrSkip(ctx, 1, "Failed to place order", err,
			"symbol", req.Symbol,
			"side", req.Side,
			"qty", req.Qty.String(),
		)
		return types.OrderResp{}, err
	}

	metrics.OrdersTotal.WithLabelValues(req.Symbol, string(req.Side), "placed").Inc()
	logger.Trade(ctx, req.Symbol, string(req.Side), req.Qty.String(), resp.OrderID, resp.Status, "tag", req.Tag)
	return resp, nil
}

func (ob *observableBroker) Clock(ctx context.Context) (types.Clock, error) {
	ctx, span := trace.StartSpan(ctx, "broker.Clock")
	defer span.End()

	c, err := ob.broker.Clock(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch market clock", err)
		return types.Clock{}, err
	}
	logger.DebugSkip(ctx, 1, "Market clock", "is_open", c.IsOpen, "next_open", c.NextOpen)
	return c, nil
}
