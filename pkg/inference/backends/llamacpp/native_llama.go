//go:build llama

package llamacpp

/*
#include "binding.h"
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/localmodel/gateway/pkg/inference/core"
)

// nativeLoadParams carries everything a nativeStepper needs to construct
// the underlying llama.cpp model and context.
type nativeLoadParams struct {
	ModelPath  string
	LoraPath   string
	CtxLen     int
	NThreads   int
	NGPULayers int
	MoE        core.MoeConfig
}

// nativeStepper binds one loaded llama.cpp model and decoding context and
// implements core.Stepper over it. A nativeStepper is built once per Load
// call and reused across every Generate call against that handle; the
// per-generation sampler chain is rebuilt in Prepare.
type nativeStepper struct {
	model   C.oe_model_t
	ctx     C.oe_context_t
	sampler C.oe_sampler_t

	tokens    []C.oe_token_t
	nextPos   int32
	lastToken C.oe_token_t
}

func initNativeBackend() error {
	C.oe_backend_init()
	return nil
}

func newNativeStepper(p nativeLoadParams) (*nativeStepper, error) {
	cPath := C.CString(p.ModelPath)
	defer C.free(unsafe.Pointer(cPath))

	var moeMode C.int
	var nCPUMoe C.int
	switch {
	case p.MoE.NCPUMoe != nil:
		moeMode = C.OE_MOE_N_LAYERS
		nCPUMoe = C.int(*p.MoE.NCPUMoe)
	case p.MoE.CPUMoeAll:
		moeMode = C.OE_MOE_ALL
	default:
		moeMode = C.OE_MOE_NONE
	}

	model := C.oe_model_load(cPath, C.int32_t(p.NGPULayers), moeMode, nCPUMoe)
	if model == nil {
		return nil, fmt.Errorf("failed to load model %s", p.ModelPath)
	}

	ctx := C.oe_context_new(model, C.uint32_t(p.CtxLen), C.int32_t(p.NThreads), C.int32_t(p.NThreads))
	if ctx == nil {
		C.oe_model_free(model)
		return nil, fmt.Errorf("failed to create decoding context")
	}

	if p.LoraPath != "" {
		cLora := C.CString(p.LoraPath)
		defer C.free(unsafe.Pointer(cLora))
		if C.oe_lora_attach(model, ctx, cLora) != 0 {
			C.oe_context_free(ctx)
			C.oe_model_free(model)
			return nil, fmt.Errorf("failed to attach LoRA adapter %s", p.LoraPath)
		}
	}

	return &nativeStepper{model: model, ctx: ctx}, nil
}

// Prepare implements core.Stepper. Each call rebuilds the sampler chain
// for the new prompt/options, so any sampler left over from a prior
// Generate call against this handle is freed first.
func (s *nativeStepper) Prepare(ctx context.Context, prompt string, opts core.GenOptions) error {
	if s.sampler != nil {
		C.oe_sampler_free(s.sampler)
		s.sampler = nil
	}

	cPrompt := C.CString(prompt)
	defer C.free(unsafe.Pointer(cPrompt))

	var n C.int32_t
	buf := make([]C.oe_token_t, C.oe_max_tokenize_len(s.model, C.int32_t(len(prompt))))
	n = C.oe_tokenize(s.model, cPrompt, C.bool(true), &buf[0], C.int32_t(len(buf)))
	if n < 0 {
		return fmt.Errorf("tokenization failed")
	}
	s.tokens = buf[:n]

	if C.oe_decode_prompt(s.ctx, &s.tokens[0], C.int32_t(len(s.tokens))) != 0 {
		return fmt.Errorf("initial decode failed")
	}
	s.nextPos = int32(len(s.tokens))

	s.sampler = C.oe_sampler_chain_new(
		C.float(opts.Temperature),
		C.float(opts.TopP),
		C.int32_t(opts.TopK),
		C.float(opts.RepeatPenalty),
		&s.tokens[0],
		C.int32_t(len(s.tokens)),
	)
	return nil
}

// Sample implements core.Stepper, always drawing from the explicit last
// decoded position rather than a runtime-defined "-1" sentinel.
func (s *nativeStepper) Sample() (core.Token, error) {
	tok := C.oe_sample(s.sampler, s.ctx, C.int32_t(s.nextPos-1))
	s.lastToken = tok
	return core.Token(tok), nil
}

// IsEndOfGeneration implements core.Stepper.
func (s *nativeStepper) IsEndOfGeneration(tok core.Token) bool {
	return bool(C.oe_is_eog(s.model, C.oe_token_t(tok)))
}

// Detokenize implements core.Stepper, rendering plain text so that control
// tokens are never re-expanded into their special forms.
func (s *nativeStepper) Detokenize(tok core.Token) (string, error) {
	var buf [64]C.char
	n := C.oe_token_to_piece(s.model, C.oe_token_t(tok), &buf[0], C.int32_t(len(buf)))
	if n < 0 {
		return "", fmt.Errorf("detokenize failed for token %d", tok)
	}
	return C.GoStringN(&buf[0], n), nil
}

// Advance implements core.Stepper.
func (s *nativeStepper) Advance(ctx context.Context, tok core.Token) error {
	cTok := C.oe_token_t(tok)
	if C.oe_decode_one(s.ctx, cTok, C.int32_t(s.nextPos)) != 0 {
		return fmt.Errorf("decode step failed")
	}
	s.nextPos++
	return nil
}

func (s *nativeStepper) close() error {
	if s.sampler != nil {
		C.oe_sampler_free(s.sampler)
	}
	if s.ctx != nil {
		C.oe_context_free(s.ctx)
	}
	if s.model != nil {
		C.oe_model_free(s.model)
	}
	return nil
}
