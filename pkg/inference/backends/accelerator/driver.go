// Package accelerator implements the BackendAccelerator driver: the
// Apple-silicon MLX-family runtime. It refuses to load anywhere other than
// darwin/arm64.
package accelerator

import (
	"context"

	"github.com/localmodel/gateway/pkg/inference/backends/shim"
	"github.com/localmodel/gateway/pkg/inference/core"
	"github.com/localmodel/gateway/pkg/inference/platform"
	"github.com/localmodel/gateway/pkg/logging"
)

// Driver implements core.Driver for BackendAccelerator.
type Driver struct {
	log logging.Logger
}

// NewDriver constructs an accelerator-backend driver.
func NewDriver(log logging.Logger) *Driver {
	return &Driver{log: log}
}

// Choice implements core.Driver.
func (d *Driver) Choice() core.BackendChoice { return core.BackendAccelerator }

// Load implements core.Driver. It refuses to load when the host platform
// does not support the accelerator runtime.
func (d *Driver) Load(ctx context.Context, spec core.ModelSpec) (core.LoadedModel, error) {
	if !platform.SupportsMLX() {
		return nil, &core.ConfigurationError{
			Choice: core.BackendAccelerator,
			Reason: "accelerator backend requires Apple silicon (darwin/arm64)",
		}
	}
	d.log.Infof("loading %q via accelerator runtime", spec.Name)
	return &loadedModel{name: spec.Name}, nil
}

type loadedModel struct {
	name string
}

func (m *loadedModel) Generate(ctx context.Context, prompt string, opts core.GenOptions, onToken core.OnToken) (string, error) {
	return core.RunGeneration(ctx, shim.NewStepper(m.name), prompt, opts, onToken)
}

func (m *loadedModel) Close() error { return nil }
