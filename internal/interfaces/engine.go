package interfaces

import (
	"context"

	"cashtag-trader/internal/types"
)

type Engine interface {
	Step(ctx context.Context) (*types.StepResult, error)
}
