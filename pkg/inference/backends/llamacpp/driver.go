package llamacpp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/localmodel/gateway/pkg/inference/core"
	"github.com/localmodel/gateway/pkg/logging"
)

// backend is the process-wide llama.cpp backend singleton. The underlying
// runtime aborts the process if initialized twice, so every Driver in the
// process shares this one.
var backend core.Once[struct{}]

// Driver implements core.Driver for BackendQuantized: GGUF models executed
// through an in-process llama.cpp context.
type Driver struct {
	log        logging.Logger
	gpuBackend core.GpuBackend
	moe        core.MoeConfig
}

// NewDriver constructs a quantized-backend driver. If gpuBackend is nil the
// driver auto-detects the best available accelerator at construction time,
// matching the one-shot detection the original engine performs.
func NewDriver(log logging.Logger, gpuBackend *core.GpuBackend, moe core.MoeConfig) *Driver {
	gb := DetectGPUBackend()
	if gpuBackend != nil {
		gb = *gpuBackend
	}
	log.Infof("quantized backend configured with %s acceleration", gb)
	return &Driver{log: log, gpuBackend: gb, moe: moe}
}

// Choice implements core.Driver.
func (d *Driver) Choice() core.BackendChoice { return core.BackendQuantized }

// Load implements core.Driver. It initializes the shared native backend on
// first use, maps memory-allocation failures into an enriched LoadError,
// and rejects SafeTensors LoRA adapters outright since the native runtime
// only understands GGUF-format adapters.
func (d *Driver) Load(ctx context.Context, spec core.ModelSpec) (core.LoadedModel, error) {
	if spec.LoraPath != "" && strings.EqualFold(filepath.Ext(spec.LoraPath), ".safetensors") {
		return nil, &core.LoadError{
			Kind: core.LoadErrorFormat,
			Path: spec.LoraPath,
			Err:  fmt.Errorf("SafeTensors LoRA adapters are not supported, convert to GGUF first"),
		}
	}

	if _, err := backend.GetOrInit(func() (struct{}, error) {
		d.log.Infof("initializing llama.cpp backend (first model load)")
		return struct{}{}, initNativeBackend()
	}); err != nil {
		return nil, &core.BackendInitError{Backend: "llamacpp", Err: err}
	}

	nThreads := spec.NThreads
	if nThreads <= 0 {
		nThreads = optimalThreadCount()
	}

	nGPULayers := d.gpuBackend.GpuLayers()
	d.log.Infof("loading model %q with %d GPU layers (%s backend)", spec.Name, nGPULayers, d.gpuBackend)

	stepper, err := newNativeStepper(nativeLoadParams{
		ModelPath:  spec.BasePath,
		LoraPath:   spec.LoraPath,
		CtxLen:     spec.CtxLen,
		NThreads:   nThreads,
		NGPULayers: nGPULayers,
		MoE:        d.moe,
	})
	if err != nil {
		return nil, enrichLoadError(spec.BasePath, err)
	}

	return &loadedModel{stepper: stepper}, nil
}

// enrichLoadError detects the native runtime's memory-allocation failure
// signature and attaches a file-size-derived remediation hint; every other
// failure propagates with its original message.
func enrichLoadError(path string, err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "failed to allocate") && !strings.Contains(msg, "CPU_REPACK buffer") {
		return &core.LoadError{Kind: core.LoadErrorOther, Path: path, Err: err}
	}

	var sizeGB float64
	if info, statErr := os.Stat(path); statErr == nil {
		sizeGB = float64(info.Size()) / 1_024_000_000.0
	}
	ramEstimate := int(sizeGB * 1.5)

	hint := fmt.Sprintf(
		"Model file size: %.1fGB\n"+
			"Possible solutions:\n"+
			"- Use a smaller model (7B instead of 14B parameters)\n"+
			"- Add more system RAM (model needs ~%dGB)\n"+
			"- Enable model quantization (Q4_K_M, Q5_K_M)\n"+
			"- Reduce GPU offload or use CPU MoE offloading for mixture-of-experts models",
		sizeGB,
		ramEstimate,
	)
	return &core.LoadError{Kind: core.LoadErrorAllocation, Path: path, Err: err, Hint: hint}
}
