// Package alpaca adapts the Alpaca trading and market data APIs to interfaces.Broker.
package alpaca

import (
	"context"
	"errors"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"

	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/symbols"
	"cashtag-trader/internal/types"
)

// tradingAPI is the subset of *alpaca.Client the broker uses.
type tradingAPI interface {
	GetAssets(req alpaca.GetAssetsRequest) ([]alpaca.Asset, error)
	PlaceOrder(req alpaca.PlaceOrderRequest) (*alpaca.Order, error)
	GetClock() (*alpaca.Clock, error)
}

// quoteAPI is the subset of *marketdata.Client the broker uses.
type quoteAPI interface {
	GetLatestTrade(symbol string, req marketdata.GetLatestTradeRequest) (*marketdata.Trade, error)
}

type Params struct {
	BaseURL   string
	DataURL   string
	APIKey    string
	APISecret string
}

type Broker struct {
	trading tradingAPI
	quotes  quoteAPI
}

var _ interfaces.Broker = (*Broker)(nil)

func New(p Params) *Broker {
	return &Broker{
		trading: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    p.APIKey,
			APISecret: p.APISecret,
			BaseURL:   p.BaseURL,
		}),
		quotes: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    p.APIKey,
			APISecret: p.APISecret,
			BaseURL:   p.DataURL,
		}),
	}
}

// TradableSymbols lists active assets the account may trade.
func (b *Broker) TradableSymbols(ctx context.Context) (types.SymbolSet, error) {
	assets, err := b.trading.GetAssets(alpaca.GetAssetsRequest{Status: "active"})
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	set := types.SymbolSet{}
	for _, a := range assets {
		if a.Tradable {
			set[symbols.Normalize(a.Symbol)] = struct{}{}
		}
	}
	return set, nil
}

// PlaceOrder submits a market order. Only the side, quantity and time in force
// of req are honoured; there is no client order ID, so a retried cycle can
// place the same order twice.
func (b *Broker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	side := alpaca.Buy
	if req.Side == types.Sell {
		side = alpaca.Sell
	}
	qty := req.Qty
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	tif := alpaca.Day
	if req.TimeInForce != "" {
		tif = alpaca.TimeInForce(req.TimeInForce)
	}

	order, err := b.trading.PlaceOrder(alpaca.PlaceOrderRequest{
		Symbol:      req.Symbol,
		Qty:         &qty,
		Side:        side,
		Type:        alpaca.Market,
		TimeInForce: tif,
	})
	if err != nil {
		var apiErr *alpaca.APIError
		if errors.As(err, &apiErr) {
			return types.OrderResp{}, fmt.Errorf("order for %s rejected (status %d, code %d): %w",
				req.Symbol, apiErr.StatusCode, apiErr.Code, err)
		}
		return types.OrderResp{}, fmt.Errorf("failed to place order for %s: %w", req.Symbol, err)
	}

	return types.OrderResp{
		OrderID: order.ID,
		Status:  order.Status,
	}, nil
}

func (b *Broker) Clock(ctx context.Context) (types.Clock, error) {
	c, err := b.trading.GetClock()
	if err != nil {
		return types.Clock{}, fmt.Errorf("failed to get clock: %w", err)
	}
	return types.Clock{Timestamp: c.Timestamp, IsOpen: c.IsOpen, NextOpen: c.NextOpen}, nil
}

func (b *Broker) LTP(ctx context.Context, symbol string) (float64, error) {
	trade, err := b.quotes.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		return 0, fmt.Errorf("failed to get latest trade for %s: %w", symbol, err)
	}
	return trade.Price, nil
}
