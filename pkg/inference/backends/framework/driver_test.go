package framework

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

func TestParseRemoteIdentifier(t *testing.T) {
	cases := []struct {
		path      string
		wantOrg   string
		wantModel string
		wantOK    bool
	}{
		{"meta-llama/Llama-3-8B", "meta-llama", "Llama-3-8B", true},
		{"/abs/local/checkpoint", "", "", false},
		{"too/many/segments", "", "", false},
		{"", "", "", false},
	}
	for _, c := range cases {
		org, model, ok := ParseRemoteIdentifier(c.path)
		if ok != c.wantOK || org != c.wantOrg || model != c.wantModel {
			t.Errorf("ParseRemoteIdentifier(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.path, org, model, ok, c.wantOrg, c.wantModel, c.wantOK)
		}
	}
}

func TestDriver_LoadAndGenerate(t *testing.T) {
	d := NewDriver(testLogger())
	if d.Choice() != core.BackendFramework {
		t.Fatalf("got %s, want framework", d.Choice())
	}

	model, err := d.Load(context.Background(), core.ModelSpec{Name: "demo", BasePath: "meta-llama/Llama-3-8B", CtxLen: 4096})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer model.Close()

	out, err := model.Generate(context.Background(), "hello", core.GenOptions{MaxTokens: 50}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == "" {
		t.Fatal("expected non-empty generation output")
	}
}
