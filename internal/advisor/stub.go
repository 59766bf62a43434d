package advisor

import (
	"context"

	"cashtag-trader/internal/types"
)

// StubDecider stands in for sentiment analysis, which is not implemented:
// every post is a BUY, even "whoever gave me $jakk should die".
type StubDecider struct{}

func NewStubDecider() *StubDecider {
	return &StubDecider{}
}

func (d *StubDecider) Decide(ctx context.Context, post types.Post) (types.Action, error) {
	return types.Buy, nil
}
