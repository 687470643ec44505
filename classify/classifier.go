package classify

import (
	"context"

	"github.com/estateflow/orchestrator/types"
)

/**
 * Classifier turns a raw user query into a structured intent with
 * slots. The orchestration core treats it as a black box: whatever it
 * returns is validated and then planned deterministically, and an
 * unrecognized intent degrades to the planner's generic fallback
 * instead of failing.
 */
type Classifier interface {
	Classify(ctx context.Context, query string) (*types.IntentClassification, error)
}
