package interfaces

import (
	"context"

	"cashtag-trader/internal/types"
)

// Decider chooses a trade direction for a post.
type Decider interface {
	Decide(ctx context.Context, post types.Post) (types.Action, error)
}
