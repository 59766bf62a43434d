package engineobs

import (
	"context"
	"time"

	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/logger"
	"cashtag-trader/internal/trace"
	"cashtag-trader/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Step(ctx context.Context) (*types.StepResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Step")
	defer span.End()

	start := time.Now()

	logger.DebugSkip(ctx, 1, "Starting cycle")

	result, err := oe.engine.Step(ctx)
	if err != nil {
		if ctx.Err() == nil {
			span.RecordError(err)
		}
		return result, err
	}

	logger.InfoSkip(ctx, 1, "Cycle completed",
		"cycle_id", result.CycleID,
		"posts", result.Posts,
		"cursor", result.Cursor,
		"advices", len(result.Advices),
		"orders", len(result.Orders),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
