// Package feed turns a non-streaming timeline API into a blocking "next batch
// of new posts" call, persisting a checkpoint so restarts resume where they left off.
package feed

import (
	"context"
	"fmt"
	"time"

	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/logger"
	"cashtag-trader/internal/metrics"
	"cashtag-trader/internal/types"
)

// Config holds poller configuration.
type Config struct {
	Account  string        // Account whose posts are watched
	PageSize int           // Posts requested per call (default: 50)
	Interval time.Duration // Sleep between empty polls (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Account:  "stoolpresidente",
		PageSize: 50,
		Interval: 30 * time.Second,
	}
}

// Poller fetches new posts since the last checkpoint.
type Poller struct {
	cfg        Config
	feed       interfaces.Feed
	checkpoint interfaces.Checkpoint

	sinceID int64 // 0 until the first post is seen
	sleep   func(ctx context.Context, d time.Duration) error
}

// New creates a Poller and reads the checkpoint once.
func New(cfg Config, feed interfaces.Feed, cp interfaces.Checkpoint) (*Poller, error) {
	id, ok, err := cp.Load()
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	p := &Poller{
		cfg:        cfg,
		feed:       feed,
		checkpoint: cp,
		sleep:      sleepCtx,
	}
	if ok {
		p.sinceID = id
	}
	return p, nil
}

// Cursor returns the last checkpointed post ID; ok is false on a cold start.
func (p *Poller) Cursor() (int64, bool) {
	return p.sinceID, p.sinceID > 0
}

// FetchNewPosts blocks until the feed returns at least one post newer than the
// cursor, sleeping cfg.Interval between empty polls. The checkpoint is saved to
// the highest returned ID before the posts are handed back; a failed save
// returns an error and leaves the cursor where it was.
func (p *Poller) FetchNewPosts(ctx context.Context) ([]types.Post, error) {
	logger.Info(ctx, "Waiting for new posts", "account", p.cfg.Account, "since_id", p.sinceID)

	for {
		posts, err := p.feed.Timeline(ctx, p.cfg.Account, p.cfg.PageSize, p.sinceID)
		if err != nil {
			return nil, err
		}

		posts = p.newerThanCursor(posts)
		if len(posts) > 0 {
			types.SortNewestFirst(posts)
			newest := posts[0].ID
			if err := p.checkpoint.Save(newest); err != nil {
				return nil, fmt.Errorf("save checkpoint %d: %w", newest, err)
			}
			p.sinceID = newest
			metrics.CheckpointAdvances.Inc()
			if ts := posts[0].CreatedAt; !ts.IsZero() {
				metrics.NewestPostTime.Set(float64(ts.Unix()))
			}
			metrics.PostsFetched.Add(float64(len(posts)))
			return posts, nil
		}

		logger.Debug(ctx, "No new posts", "sleep", p.cfg.Interval)
		if err := p.sleep(ctx, p.cfg.Interval); err != nil {
			return nil, err
		}
	}
}

// newerThanCursor drops anything at or below the cursor, so a feed that
// ignores since_id cannot move the checkpoint backwards.
func (p *Poller) newerThanCursor(posts []types.Post) []types.Post {
	if p.sinceID == 0 {
		return posts
	}
	out := posts[:0]
	for _, post := range posts {
		if post.ID > p.sinceID {
			out = append(out, post)
		}
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
