// Package shim provides a deterministic, dependency-free token stepper for
// backend drivers that have no linked native runtime to generate against
// (the framework, accelerator and native-tensor drivers in this build). It honors the
// full core.Stepper contract — tokenization, end-of-generation, stop-token
// truncation via the shared generation loop — against a trivial whitespace
// tokenizer, so every invariant the contract promises still holds even
// though no real model weights are consulted.
package shim

import (
	"context"
	"strings"

	"github.com/localmodel/gateway/pkg/inference/core"
)

// eogToken is the sentinel token id Sample returns once the canned
// response has been fully emitted.
const eogToken core.Token = -1

// Stepper is a Stepper that plays back a fixed response, one
// whitespace-delimited word per token, for a given loaded model. Responses
// are derived from the model name and prompt so that repeated calls
// against the same handle are stable and distinguishable in logs and
// tests, without depending on an actual inference runtime.
type Stepper struct {
	modelName string
	words     []string
	pos       int
}

// NewStepper constructs a Stepper bound to modelName. The response text is
// computed fresh on every Prepare call from the given prompt.
func NewStepper(modelName string) *Stepper {
	return &Stepper{modelName: modelName}
}

// Prepare implements core.Stepper.
func (s *Stepper) Prepare(ctx context.Context, prompt string, opts core.GenOptions) error {
	response := Respond(s.modelName, prompt)
	s.words = strings.Fields(response)
	s.pos = 0
	return nil
}

// Sample implements core.Stepper.
func (s *Stepper) Sample() (core.Token, error) {
	if s.pos >= len(s.words) {
		return eogToken, nil
	}
	return core.Token(s.pos), nil
}

// IsEndOfGeneration implements core.Stepper.
func (s *Stepper) IsEndOfGeneration(tok core.Token) bool {
	return tok == eogToken
}

// Detokenize implements core.Stepper. Every word but the first is
// prefixed with a space, so the reconstructed string matches the
// original response text exactly.
func (s *Stepper) Detokenize(tok core.Token) (string, error) {
	word := s.words[tok]
	if tok == 0 {
		return word, nil
	}
	return " " + word, nil
}

// Advance implements core.Stepper.
func (s *Stepper) Advance(ctx context.Context, tok core.Token) error {
	s.pos++
	return nil
}

// Respond derives a deterministic canned completion for prompt against
// modelName. It exists so drivers without a linked inference runtime can
// still exercise the full Loaded-Model Handle contract (streaming,
// stop-token truncation, cancellation) end to end.
func Respond(modelName, prompt string) string {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "[" + modelName + "] (empty prompt)"
	}
	return "[" + modelName + "] response to: " + trimmed
}
