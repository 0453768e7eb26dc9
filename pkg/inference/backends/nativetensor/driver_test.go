package nativetensor

import (
	"context"
	"testing"

	"github.com/localmodel/gateway/pkg/inference/core"
	"github.com/localmodel/gateway/pkg/logging"
	"github.com/sirupsen/logrus"
)

func testLogger() logging.Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return logging.NewLogrusAdapter(l)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestDriver_LoadAndGenerate(t *testing.T) {
	path := writeTestSafetensors(t, `{"weight": {"dtype": "F32", "shape": [2, 2], "data_offsets": [0, 16]}}`)

	d := NewDriver(testLogger())
	if d.Choice() != core.BackendNativeTensor {
		t.Fatalf("got %s, want native-tensor", d.Choice())
	}

	model, err := d.Load(context.Background(), core.ModelSpec{Name: "m", BasePath: path, CtxLen: 2048})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer model.Close()

	out, err := model.Generate(context.Background(), "hi", core.GenOptions{MaxTokens: 20}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == "" {
		t.Fatal("expected non-empty output")
	}
}

func TestDriver_Load_RejectsMalformedFile(t *testing.T) {
	d := NewDriver(testLogger())
	_, err := d.Load(context.Background(), core.ModelSpec{Name: "m", BasePath: "/nonexistent.safetensors", CtxLen: 2048})
	if err == nil {
		t.Fatal("expected an error for a missing safetensors file")
	}
}
