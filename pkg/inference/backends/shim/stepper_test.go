package shim

import (
	"context"
	"testing"

	"github.com/localmodel/gateway/pkg/inference/core"
)

func TestStepper_RoundTripsThroughRunGeneration(t *testing.T) {
	s := NewStepper("test-model")
	out, err := core.RunGeneration(context.Background(), s, "hello there", core.GenOptions{MaxTokens: 100}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Respond("test-model", "hello there")
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestStepper_RespectsMaxTokens(t *testing.T) {
	s := NewStepper("m")
	out, err := core.RunGeneration(context.Background(), s, "one two three four five", core.GenOptions{MaxTokens: 2}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	full := Respond("m", "one two three four five")
	if out == full {
		t.Fatal("expected output truncated by MaxTokens, got full response")
	}
}
