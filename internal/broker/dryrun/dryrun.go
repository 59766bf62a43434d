// Package dryrun simulates order placement while reading everything else
// from the real brokerage.
package dryrun

import (
	"context"

	"github.com/google/uuid"

	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/logger"
	"cashtag-trader/internal/types"
)

type Broker struct {
	interfaces.Broker
}

var _ interfaces.Broker = (*Broker)(nil)

func Wrap(b interfaces.Broker) *Broker {
	return &Broker{Broker: b}
}

func (b *Broker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	logger.Warn(ctx, "DRY_RUN: order not sent", "symbol", req.Symbol, "side", req.Side, "qty", req.Qty.String())
	return types.OrderResp{
		OrderID: "SIM-" + uuid.NewString(),
		Status:  "SIMULATED",
		Message: "dry-run",
	}, nil
}
