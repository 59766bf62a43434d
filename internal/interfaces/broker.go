package interfaces

import (
	"context"

	"cashtag-trader/internal/types"
)

type Broker interface {
	// LTP returns the last traded price for a symbol
	LTP(ctx context.Context, symbol string) (float64, error)
	TradableSymbols(ctx context.Context) (types.SymbolSet, error)
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error)
	Clock(ctx context.Context) (types.Clock, error)
}
