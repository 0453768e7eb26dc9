// Package llamacpp implements the quantized-weights backend driver: a
// cgo-bound llama.cpp runtime for GGUF models. Without the 'llama' build
// tag, loads succeed but generation emits a single informative message
// instead of running the model.
package llamacpp

import (
	"os/exec"

	"github.com/localmodel/gateway/pkg/inference/core"
)

// DetectGPUBackend probes the host for the best available accelerator
// runtime, preferring CUDA, then Vulkan, then OpenCL, falling back to CPU.
// Detection shells out to each runtime's own inspection tool rather than
// touching driver libraries directly, since that is the only check that
// works uniformly across container and bare-metal hosts.
func DetectGPUBackend() core.GpuBackend {
	if isCUDAAvailable() {
		return core.GpuCuda
	}
	if isVulkanAvailable() {
		return core.GpuVulkan
	}
	if isOpenCLAvailable() {
		return core.GpuOpenCL
	}
	return core.GpuCpu
}

func isCUDAAvailable() bool {
	return exec.Command("nvidia-smi").Run() == nil
}

func isVulkanAvailable() bool {
	if exec.Command("vulkaninfo", "--summary").Run() == nil {
		return true
	}
	return false
}

func isOpenCLAvailable() bool {
	return exec.Command("clinfo").Run() == nil
}
