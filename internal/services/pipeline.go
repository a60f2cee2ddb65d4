package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Step is one stage of a pipeline. Later steps read what earlier steps left
// in the shared state.
type Step[S any] struct {
	Name string
	Run  func(ctx context.Context, state *S) error
}

// RunSteps executes steps strictly in order and stops at the first failure.
// The returned error names the failing step and wraps its cause.
func RunSteps[S any](ctx context.Context, pipeline string, state *S, steps ...Step[S]) error {
	runID := uuid.New()
	log.Printf("🔄 Starting %s pipeline %s (%d steps)", pipeline, runID, len(steps))

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			err = classifyUpstreamError(ctx, PromptKind(step.Name), err)
			log.Printf("⚠️  [%s] aborted before %s: %v", runID, step.Name, err)
			return fmt.Errorf("%s: %w", step.Name, err)
		}

		log.Printf("🤖 [%s] step %d/%d: %s", runID, i+1, len(steps), step.Name)
		if err := step.Run(ctx, state); err != nil {
			log.Printf("❌ [%s] %s failed: %v", runID, step.Name, err)
			return fmt.Errorf("%s: %w", step.Name, err)
		}
	}

	log.Printf("✅ %s pipeline %s completed", pipeline, runID)
	return nil
}
