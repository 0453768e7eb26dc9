// Package framework implements the BackendFramework driver: models
// addressed by a remote "org/model" identifier or a local checkpoint
// directory, run through a framework-style runtime rather than a native
// FFI context.
package framework

import (
	"context"
	"strings"

	"github.com/localmodel/gateway/pkg/inference/backends/shim"
	"github.com/localmodel/gateway/pkg/inference/core"
	"github.com/localmodel/gateway/pkg/logging"
)

// Driver implements core.Driver for BackendFramework.
type Driver struct {
	log logging.Logger
}

// NewDriver constructs a framework-backend driver.
func NewDriver(log logging.Logger) *Driver {
	return &Driver{log: log}
}

// Choice implements core.Driver.
func (d *Driver) Choice() core.BackendChoice { return core.BackendFramework }

// Load implements core.Driver. A remote identifier is parsed into its
// org/model components purely for logging and validation; no network
// fetch is performed here; checkpoint resolution is assumed to have
// already happened upstream of the routing core.
func (d *Driver) Load(ctx context.Context, spec core.ModelSpec) (core.LoadedModel, error) {
	org, model, ok := ParseRemoteIdentifier(spec.BasePath)
	if ok {
		d.log.Infof("loading %q from repository %s/%s via framework runtime", spec.Name, org, model)
	} else {
		d.log.Infof("loading %q from local checkpoint %s via framework runtime", spec.Name, spec.BasePath)
	}

	if spec.LoraPath != "" {
		d.log.Infof("attaching adapter %s", spec.LoraPath)
	}

	return &loadedModel{name: spec.Name}, nil
}

// ParseRemoteIdentifier splits a HuggingFace-style "org/model" identifier
// into its two components. It reports ok=false for anything that is not
// exactly two non-empty path segments joined by a single slash.
func ParseRemoteIdentifier(basePath string) (org, model string, ok bool) {
	parts := strings.Split(basePath, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

type loadedModel struct {
	name string
}

func (m *loadedModel) Generate(ctx context.Context, prompt string, opts core.GenOptions, onToken core.OnToken) (string, error) {
	return core.RunGeneration(ctx, shim.NewStepper(m.name), prompt, opts, onToken)
}

func (m *loadedModel) Close() error { return nil }
