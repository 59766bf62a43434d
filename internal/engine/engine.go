package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cashtag-trader/internal/advisor"
	"cashtag-trader/internal/feed"
	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/logger"
	"cashtag-trader/internal/store"
	"cashtag-trader/internal/tradelog"
	"cashtag-trader/internal/types"
)

// Engine runs one poll, advise and submit cycle per Step.
type Engine struct {
	cfg      *store.Config
	poller   *feed.Poller
	advisor  *advisor.Advisor
	brk      interfaces.Broker
	tradable types.SymbolSet

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

var _ interfaces.Engine = (*Engine)(nil)

func New(cfg *store.Config, p *feed.Poller, adv *advisor.Advisor, brk interfaces.Broker, tradable types.SymbolSet) *Engine {
	return &Engine{
		cfg:      cfg,
		poller:   p,
		advisor:  adv,
		brk:      brk,
		tradable: tradable,
		sleep:    sleepCtx,
		now:      time.Now,
	}
}

// Step blocks until new posts arrive, then places one order per BUY advice.
// The first failed order ends the step; the posts it came from are already
// checkpointed and will not be advised again.
func (e *Engine) Step(ctx context.Context) (*types.StepResult, error) {
	start := time.Now()
	res := &types.StepResult{CycleID: uuid.NewString()}

	if e.cfg.WaitForMarketOpen {
		if err := e.waitForMarketOpen(ctx); err != nil {
			return res, err
		}
	}

	posts, err := e.poller.FetchNewPosts(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch new posts: %w", err)
	}
	res.Posts = len(posts)
	res.Cursor, _ = e.poller.Cursor()
	logger.Debug(ctx, "New posts", "count", len(posts), "cursor", res.Cursor)
	if logger.IsDebugEnabled() {
		for _, post := range posts {
			logger.Debug(ctx, "Post", "post_id", post.ID, "text", post.Text)
		}
	}

	advices, err := e.advisor.Advise(ctx, posts, e.tradable)
	res.Advices = advices
	if err != nil {
		return res, err
	}

	for _, adv := range advices {
		_ = tradelog.AppendAdvice(tradelog.AdviceEntry{
			CycleID:  res.CycleID,
			Symbol:   adv.Symbol,
			Action:   string(adv.Action),
			PostID:   adv.Post.ID,
			PostText: adv.Post.Text,
		})

		switch adv.Action {
		case types.Buy:
			resp, err := e.buy(ctx, res.CycleID, adv)
			if err != nil {
				res.Duration = time.Since(start)
				return res, err
			}
			res.Orders = append(res.Orders, resp)
		case types.Sell:
			logger.Info(ctx, "Would sell based on post, selling not implemented", "symbol", adv.Symbol, "post", adv.Post.Text)
		default:
			logger.Warn(ctx, "Unknown advice action", "action", adv.Action, "symbol", adv.Symbol)
		}
	}

	res.Duration = time.Since(start)
	return res, nil
}

func (e *Engine) buy(ctx context.Context, cycleID string, adv types.TradeAdvice) (types.OrderResp, error) {
	logger.Info(ctx, fmt.Sprintf("Buying %s based on %s", adv.Symbol, adv.Post.Text))

	qty := decimal.NewFromInt(e.cfg.Order.Qty)
	entry := tradelog.Entry{
		CycleID: cycleID,
		Symbol:  adv.Symbol,
		Side:    string(types.Buy),
		Qty:     qty.String(),
		PostID:  adv.Post.ID,
	}
	// Price is informational only; a quote failure never blocks the order.
	if price, err := e.brk.LTP(ctx, adv.Symbol); err == nil {
		entry.Price = price
	}

	op := logger.StartOperation(ctx, "engine.buy", "symbol", adv.Symbol, "post_id", adv.Post.ID)
	resp, err := e.brk.PlaceOrder(op.Context(), types.OrderReq{
		Symbol:      adv.Symbol,
		Side:        types.Buy,
		Qty:         qty,
		TimeInForce: e.cfg.Order.TimeInForce,
		Tag:         fmt.Sprintf("post:%d", adv.Post.ID),
	})
	if err != nil {
		op.EndWithError(err)
		entry.Error = err.Error()
		_ = tradelog.Append(entry)
		return types.OrderResp{}, fmt.Errorf("buy %s: %w", adv.Symbol, err)
	}

	op.End("order_id", resp.OrderID, "status", resp.Status)
	entry.OrderID = resp.OrderID
	entry.Status = resp.Status
	_ = tradelog.Append(entry)
	return resp, nil
}

// waitForMarketOpen sleeps until the next session when the brokerage clock
// reports the market closed.
func (e *Engine) waitForMarketOpen(ctx context.Context) error {
	clock, err := e.brk.Clock(ctx)
	if err != nil {
		return fmt.Errorf("market clock: %w", err)
	}
	if clock.IsOpen {
		return nil
	}

	wait := clock.NextOpen.Sub(e.now())
	if wait <= 0 {
		return nil
	}
	logger.Info(ctx, "Market is closed, waiting for open", "next_open", clock.NextOpen, "wait", wait.Round(time.Second))
	return e.sleep(ctx, wait)
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
