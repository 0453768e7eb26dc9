//go:build !llama

package llamacpp

import (
	"context"
	"fmt"

	"github.com/localmodel/gateway/pkg/inference/core"
)

// nativeLoadParams mirrors the llama-tagged build's parameter set so
// driver.go compiles identically in both configurations.
type nativeLoadParams struct {
	ModelPath  string
	LoraPath   string
	CtxLen     int
	NThreads   int
	NGPULayers int
	MoE        core.MoeConfig
}

// nativeStepper is the fallback implementation used when the module is
// built without the llama tag (no cgo toolchain or llama.cpp headers
// available). It implements core.Stepper by emitting a single informative
// message instead of failing the load outright.
type nativeStepper struct {
	message string
	emitted bool
}

func initNativeBackend() error { return nil }

func newNativeStepper(p nativeLoadParams) (*nativeStepper, error) {
	return &nativeStepper{
		message: fmt.Sprintf("llama.cpp support not enabled. Build with the 'llama' tag for full functionality. Input model: %s", p.ModelPath),
	}, nil
}

func (s *nativeStepper) Prepare(ctx context.Context, prompt string, opts core.GenOptions) error {
	s.emitted = false
	return nil
}

func (s *nativeStepper) Sample() (core.Token, error) {
	return 0, nil
}

func (s *nativeStepper) IsEndOfGeneration(tok core.Token) bool {
	return s.emitted
}

func (s *nativeStepper) Detokenize(tok core.Token) (string, error) {
	s.emitted = true
	return s.message, nil
}

func (s *nativeStepper) Advance(ctx context.Context, tok core.Token) error {
	return nil
}

func (s *nativeStepper) close() error { return nil }
