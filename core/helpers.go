package orchestration

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

var errToolPanicked = errors.New("tool panicked")

// runTool executes run and turns a panic into errToolPanicked carrying the
// recovered value. Other errors are returned wrapped with the tool name.
func runTool(ctx context.Context, name string, run func(context.Context) error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.ErrorContext(ctx, "tool panicked", "tool.name", name, "panic", recovered, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %s: %v", errToolPanicked, name, recovered)
		}
	}()

	if err = run(ctx); err != nil {
		return fmt.Errorf("tool %s: %w", name, err)
	}
	return nil
}
