package advisorobs

import (
	"context"

	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/logger"
	"cashtag-trader/internal/trace"
	"cashtag-trader/internal/types"
)

// observableDecider wraps a Decider with observability (logging & tracing)
type observableDecider struct {
	decider interfaces.Decider
}

// Compile-time interface check
var _ interfaces.Decider = (*observableDecider)(nil)

// Wrap wraps a decider with observability middleware
func Wrap(decider interfaces.Decider) interfaces.Decider {
	return &observableDecider{decider: decider}
}

func (od *observableDecider) Decide(ctx context.Context, post types.Post) (types.Action, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.Decide")
	defer span.End()

	action, err := od.decider.Decide(ctx, post)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to decide trade action", err, "post_id", post.ID)
		return action, err
	}

	logger.DebugSkip(ctx, 1, "Trade action decided", "post_id", post.ID, "action", action)
	return action, nil
}
