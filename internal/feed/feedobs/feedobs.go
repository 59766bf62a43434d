package feedobs

import (
	"context"

	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/logger"
	"cashtag-trader/internal/trace"
	"cashtag-trader/internal/types"
)

// observableFeed wraps a Feed with observability (logging & tracing)
type observableFeed struct {
	feed interfaces.Feed
}

// Compile-time interface check
var _ interfaces.Feed = (*observableFeed)(nil)

// Wrap wraps a feed with observability middleware
func Wrap(feed interfaces.Feed) interfaces.Feed {
	return &observableFeed{feed: feed}
}

func (of *observableFeed) Timeline(ctx context.Context, account string, count int, sinceID int64) ([]types.Post, error) {
	ctx, span := trace.StartSpan(ctx, "feed.Timeline")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching timeline", "account", account, "count", count, "since_id", sinceID)

	posts, err := of.feed.Timeline(ctx, account, count, sinceID)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch timeline", err, "account", account, "since_id", sinceID)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Timeline fetched", "account", account, "posts", len(posts))
	return posts, nil
}
