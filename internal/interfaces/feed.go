package interfaces

import (
	"context"

	"cashtag-trader/internal/types"
)

// Feed returns posts of account newer than sinceID (0 means no cursor).
type Feed interface {
	Timeline(ctx context.Context, account string, count int, sinceID int64) ([]types.Post, error)
}
