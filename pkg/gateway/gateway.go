// Package gateway assembles the routing core's drivers into a running
// service: a Router wired with every compiled-in backend, plus the
// ModelSpec defaults the HTTP surface (package httpapi) applies to
// requests.
package gateway

import (
	"github.com/localmodel/gateway/pkg/config"
	"github.com/localmodel/gateway/pkg/inference/backends/accelerator"
	"github.com/localmodel/gateway/pkg/inference/backends/framework"
	"github.com/localmodel/gateway/pkg/inference/backends/llamacpp"
	"github.com/localmodel/gateway/pkg/inference/backends/nativetensor"
	"github.com/localmodel/gateway/pkg/inference/core"
	"github.com/localmodel/gateway/pkg/logging"
)

// NewRouter builds a core.Router with every backend driver this build of
// the gateway carries, configured from cfg.
func NewRouter(log logging.Logger, cfg config.GatewayConfig) *core.Router {
	var gpuOverride *core.GpuBackend
	if gb, ok := core.ParseGpuBackend(cfg.DefaultGPUBackend); ok {
		gpuOverride = &gb
	}

	drivers := map[core.BackendChoice]core.Driver{
		core.BackendQuantized:    llamacpp.NewDriver(log.WithField("backend", "quantized"), gpuOverride, cfg.DefaultMoE.ToCore()),
		core.BackendFramework:    framework.NewDriver(log.WithField("backend", "framework")),
		core.BackendAccelerator:  accelerator.NewDriver(log.WithField("backend", "accelerator")),
		core.BackendNativeTensor: nativetensor.NewDriver(log.WithField("backend", "native-tensor")),
	}
	return core.NewRouter(log, drivers)
}

// SpecFromRequest builds a ModelSpec for a chat completion request,
// applying the configured defaults for any field the request did not set.
func SpecFromRequest(cfg config.GatewayConfig, name, basePath string, ctxLen int) core.ModelSpec {
	if ctxLen <= 0 {
		ctxLen = cfg.DefaultCtxLen
	}
	return core.ModelSpec{Name: name, BasePath: basePath, CtxLen: ctxLen}
}
