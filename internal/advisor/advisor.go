package advisor

import (
	"context"
	"fmt"

	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/logger"
	"cashtag-trader/internal/metrics"
	"cashtag-trader/internal/symbols"
	"cashtag-trader/internal/types"
)

// Advisor turns posts into trade advice for the tradable symbols they mention.
type Advisor struct {
	decider interfaces.Decider
}

func New(d interfaces.Decider) *Advisor {
	if d == nil {
		d = NewStubDecider()
	}
	return &Advisor{decider: d}
}

// Advise emits one advice per (post, distinct tradable symbol). Symbols outside
// tradable are logged and skipped.
func (a *Advisor) Advise(ctx context.Context, posts []types.Post, tradable types.SymbolSet) ([]types.TradeAdvice, error) {
	var out []types.TradeAdvice

	for _, post := range posts {
		mentioned := symbols.Extract(post.Text)
		if len(mentioned) == 0 {
			continue
		}

		action, err := a.decider.Decide(ctx, post)
		if err != nil {
			return out, fmt.Errorf("decide post %d: %w", post.ID, err)
		}

		for _, sym := range mentioned.Sorted() {
			if !tradable.Has(sym) {
				logger.Info(ctx, "Symbol is not tradable", "symbol", sym, "post_id", post.ID)
				metrics.SymbolsSkipped.Inc()
				continue
			}
			logger.Decision(ctx, sym, string(action), post.ID)
			metrics.AdvicesTotal.WithLabelValues(string(action)).Inc()
			out = append(out, types.TradeAdvice{Action: action, Symbol: sym, Post: post})
		}
	}
	return out, nil
}
