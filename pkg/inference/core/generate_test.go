package core

import (
	"context"
	"errors"
	"testing"
)

// scriptedStepper replays a fixed sequence of detokenized pieces, one per
// Sample/Detokenize pair, ending generation when the script is exhausted.
type scriptedStepper struct {
	pieces []string
	pos    int
}

func (s *scriptedStepper) Prepare(ctx context.Context, prompt string, opts GenOptions) error {
	return nil
}

func (s *scriptedStepper) Sample() (Token, error) {
	if s.pos >= len(s.pieces) {
		return Token(len(s.pieces)), nil
	}
	return Token(s.pos), nil
}

func (s *scriptedStepper) IsEndOfGeneration(tok Token) bool {
	return int(tok) >= len(s.pieces)
}

func (s *scriptedStepper) Detokenize(tok Token) (string, error) {
	piece := s.pieces[tok]
	return piece, nil
}

func (s *scriptedStepper) Advance(ctx context.Context, tok Token) error {
	s.pos++
	return nil
}

func TestRunGeneration_StopsAtMaxTokens(t *testing.T) {
	stepper := &scriptedStepper{pieces: []string{"a", " b", " c", " d", " e"}}
	var calls int
	out, err := RunGeneration(context.Background(), stepper, "Hi", GenOptions{MaxTokens: 4}, func(delta string) {
		calls++
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "a b c d" {
		t.Fatalf("got %q, want %q", out, "a b c d")
	}
	if calls != 4 {
		t.Fatalf("callback called %d times, want 4", calls)
	}
}

func TestRunGeneration_TruncatesAtStopToken(t *testing.T) {
	stepper := &scriptedStepper{pieces: []string{"foo", " ", "STOP", " bar"}}
	var calls int
	out, err := RunGeneration(context.Background(), stepper, "", GenOptions{MaxTokens: 10, StopTokens: []string{"STOP"}}, func(delta string) {
		calls++
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "foo " {
		t.Fatalf("got %q, want %q", out, "foo ")
	}
	if calls != 2 {
		t.Fatalf("callback called %d times, want 2 (not for the stop-matching token)", calls)
	}
}

func TestRunGeneration_StopTokenMidPiece(t *testing.T) {
	stepper := &scriptedStepper{pieces: []string{"hello</s>world"}}
	out, err := RunGeneration(context.Background(), stepper, "", GenOptions{MaxTokens: 10, StopTokens: []string{"</s>"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello" {
		t.Fatalf("got %q, want %q", out, "hello")
	}
}

func TestRunGeneration_EndOfGenerationStopsCleanly(t *testing.T) {
	stepper := &scriptedStepper{pieces: []string{"a", "b"}}
	out, err := RunGeneration(context.Background(), stepper, "", GenOptions{MaxTokens: 100}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ab" {
		t.Fatalf("got %q, want %q", out, "ab")
	}
}

func TestRunGeneration_CancellationStopsBetweenSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stepper := &scriptedStepper{pieces: []string{"a", "b", "c"}}
	out, err := RunGeneration(ctx, stepper, "", GenOptions{MaxTokens: 10}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got err %v, want context.Canceled", err)
	}
	if out != "" {
		t.Fatalf("got %q, want empty output on cancellation", out)
	}
}

func TestRunGeneration_CallbackPanicBecomesGenerationError(t *testing.T) {
	stepper := &scriptedStepper{pieces: []string{"a", "b"}}
	_, err := RunGeneration(context.Background(), stepper, "", GenOptions{MaxTokens: 10}, func(delta string) {
		panic("boom")
	})
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("got %v, want *GenerationError", err)
	}
	if genErr.Stage != GenerationErrorCallback {
		t.Fatalf("got stage %v, want GenerationErrorCallback", genErr.Stage)
	}
}

func TestTruncateAtStop_EarliestMatchWins(t *testing.T) {
	out, stopped := truncateAtStop("hello world STOP1 and STOP2", []string{"STOP2", "STOP1"})
	if !stopped {
		t.Fatal("expected a stop match")
	}
	if out != "hello world " {
		t.Fatalf("got %q, want %q", out, "hello world ")
	}
}

func TestTruncateAtStop_NoMatch(t *testing.T) {
	out, stopped := truncateAtStop("hello world", []string{"STOP"})
	if stopped {
		t.Fatal("expected no stop match")
	}
	if out != "hello world" {
		t.Fatalf("got %q, want unchanged input", out)
	}
}
