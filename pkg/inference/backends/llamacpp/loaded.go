package llamacpp

import (
	"context"
	"sync"

	"github.com/localmodel/gateway/pkg/inference/core"
)

// loadedModel adapts a nativeStepper to core.LoadedModel. The underlying
// llama.cpp context uses raw pointers internally and is not safe for
// concurrent decode calls, so every Generate call takes the same mutex for
// its full duration.
type loadedModel struct {
	mu      sync.Mutex
	stepper *nativeStepper
	closed  bool
}

// Generate implements core.LoadedModel.
func (m *loadedModel) Generate(ctx context.Context, prompt string, opts core.GenOptions, onToken core.OnToken) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", &core.GenerationError{Stage: core.GenerationErrorLockPoisoned, Err: errClosed}
	}
	return core.RunGeneration(ctx, m.stepper, prompt, opts, onToken)
}

// Close implements core.LoadedModel. It is idempotent: the context is
// released before the model it borrows from, matching the model's
// documented lifetime dependency.
func (m *loadedModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.stepper.close()
}
