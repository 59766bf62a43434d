package alpaca

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"

	"cashtag-trader/internal/types"
)

type fakeTrading struct {
	assets   []alpaca.Asset
	placed   []alpaca.PlaceOrderRequest
	placeErr error
	clock    alpaca.Clock
}

func (f *fakeTrading) GetAssets(req alpaca.GetAssetsRequest) ([]alpaca.Asset, error) {
	return f.assets, nil
}

func (f *fakeTrading) PlaceOrder(req alpaca.PlaceOrderRequest) (*alpaca.Order, error) {
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	f.placed = append(f.placed, req)
	return &alpaca.Order{ID: "ord-1", Symbol: req.Symbol, Status: "accepted"}, nil
}

func (f *fakeTrading) GetClock() (*alpaca.Clock, error) {
	return &f.clock, nil
}

type fakeQuotes struct{}

func (fakeQuotes) GetLatestTrade(symbol string, req marketdata.GetLatestTradeRequest) (*marketdata.Trade, error) {
	return &marketdata.Trade{Price: 101.5}, nil
}

func TestTradableSymbols(t *testing.T) {
	ft := &fakeTrading{assets: []alpaca.Asset{
		{Symbol: "AMZN", Tradable: true},
		{Symbol: "tsla", Tradable: true},
		{Symbol: "DEAD", Tradable: false},
	}}
	b := &Broker{trading: ft, quotes: fakeQuotes{}}

	set, err := b.TradableSymbols(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 2 || !set.Has("AMZN") || !set.Has("TSLA") || set.Has("DEAD") {
		t.Errorf("set = %v", set.Sorted())
	}
}

func TestPlaceMarketBuy(t *testing.T) {
	ft := &fakeTrading{}
	b := &Broker{trading: ft, quotes: fakeQuotes{}}

	resp, err := b.PlaceOrder(context.Background(), types.OrderReq{
		Symbol: "AMZN", Side: types.Buy, Qty: decimal.NewFromInt(1), TimeInForce: "day",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.OrderID != "ord-1" || resp.Status != "accepted" {
		t.Errorf("resp = %+v", resp)
	}

	if len(ft.placed) != 1 {
		t.Fatalf("placed %d orders, want 1", len(ft.placed))
	}
	req := ft.placed[0]
	if req.Symbol != "AMZN" || req.Side != alpaca.Buy || req.Type != alpaca.Market || req.TimeInForce != alpaca.Day {
		t.Errorf("request = %+v", req)
	}
	if req.Qty == nil || !req.Qty.Equal(decimal.NewFromInt(1)) {
		t.Errorf("qty = %v, want 1", req.Qty)
	}
	if req.ClientOrderID != "" {
		t.Errorf("ClientOrderID = %q, want none", req.ClientOrderID)
	}
}

func TestPlaceOrderRejected(t *testing.T) {
	ft := &fakeTrading{placeErr: &alpaca.APIError{StatusCode: 403, Code: 40310000, Message: "insufficient buying power"}}
	b := &Broker{trading: ft, quotes: fakeQuotes{}}

	_, err := b.PlaceOrder(context.Background(), types.OrderReq{Symbol: "AMZN", Side: types.Buy})
	if err == nil {
		t.Fatal("expected rejection error")
	}
	if !strings.Contains(err.Error(), "status 403") {
		t.Errorf("error = %v", err)
	}
	var apiErr *alpaca.APIError
	if !errors.As(err, &apiErr) {
		t.Error("rejection does not wrap *alpaca.APIError")
	}
}

func TestClockAndLTP(t *testing.T) {
	next := time.Date(2020, 8, 3, 13, 30, 0, 0, time.UTC)
	b := &Broker{trading: &fakeTrading{clock: alpaca.Clock{IsOpen: false, NextOpen: next}}, quotes: fakeQuotes{}}
	ctx := context.Background()

	c, err := b.Clock(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c.IsOpen || !c.NextOpen.Equal(next) {
		t.Errorf("clock = %+v", c)
	}

	price, err := b.LTP(ctx, "AMZN")
	if err != nil || price != 101.5 {
		t.Errorf("LTP() = (%v, %v), want 101.5", price, err)
	}
}
