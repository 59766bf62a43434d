package engine

import (
	"context"
	"fmt"

	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/logger"
	"cashtag-trader/internal/metrics"
	"cashtag-trader/internal/types"
)

// Run steps eng until ctx is cancelled, sleeping policy.Interval after every
// cycle. A failed cycle is logged and retried. Run returns nil on
// cancellation and an error only when the policy gives up.
func Run(ctx context.Context, eng interfaces.Engine, policy RetryPolicy, onResult func(*types.StepResult)) error {
	failures := 0
	for {
		res, err := eng.Step(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil
		case err != nil:
			class := Classify(err)
			failures++
			metrics.CycleErrors.WithLabelValues(string(class)).Inc()
			logger.ErrorWithErr(ctx, "Cycle failed, retrying after sleep", err,
				"class", class,
				"consecutive_failures", failures,
				"sleep", policy.Interval,
			)
			if policy.MaxConsecutiveFailures > 0 && failures >= policy.MaxConsecutiveFailures {
				return fmt.Errorf("giving up after %d consecutive failed cycles: %w", failures, err)
			}
		default:
			failures = 0
			if onResult != nil {
				onResult(res)
			}
		}

		if err := sleepCtx(ctx, policy.Interval); err != nil {
			return nil
		}
	}
}
