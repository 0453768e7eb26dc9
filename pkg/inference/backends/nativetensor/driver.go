package nativetensor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/docker/go-units"

	"github.com/localmodel/gateway/pkg/inference/backends/shim"
	"github.com/localmodel/gateway/pkg/inference/core"
	"github.com/localmodel/gateway/pkg/logging"
)

// Driver implements core.Driver for BackendNativeTensor.
type Driver struct {
	log logging.Logger
}

// NewDriver constructs a native-tensor-backend driver.
func NewDriver(log logging.Logger) *Driver {
	return &Driver{log: log}
}

// Choice implements core.Driver.
func (d *Driver) Choice() core.BackendChoice { return core.BackendNativeTensor }

// Load implements core.Driver. It parses the safetensors header to
// validate the file and to log a size/parameter summary; no tensor data
// is mapped into memory since the generation shim does not compute
// against real weights.
func (d *Driver) Load(ctx context.Context, spec core.ModelSpec) (core.LoadedModel, error) {
	if spec.LoraPath != "" && !strings.EqualFold(trimExt(spec.LoraPath), "safetensors") {
		return nil, &core.LoadError{
			Kind: core.LoadErrorFormat,
			Path: spec.LoraPath,
			Err:  fmt.Errorf("native-tensor backend only accepts safetensors LoRA adapters"),
		}
	}

	h, err := parseHeader(spec.BasePath)
	if err != nil {
		return nil, &core.LoadError{Kind: core.LoadErrorFormat, Path: spec.BasePath, Err: err}
	}

	var sizeNote string
	if info, statErr := os.Stat(spec.BasePath); statErr == nil {
		sizeNote = units.HumanSize(float64(info.Size()))
	} else {
		sizeNote = "unknown size"
	}
	d.log.Infof("loaded safetensors header for %q: %d parameters, %d tensors, %s on disk", spec.Name, h.parameterCount(), len(h.Tensors), sizeNote)

	return &loadedModel{name: spec.Name}, nil
}

func trimExt(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return ""
	}
	return path[idx+1:]
}

type loadedModel struct {
	name string
}

func (m *loadedModel) Generate(ctx context.Context, prompt string, opts core.GenOptions, onToken core.OnToken) (string, error) {
	return core.RunGeneration(ctx, shim.NewStepper(m.name), prompt, opts, onToken)
}

func (m *loadedModel) Close() error { return nil }
