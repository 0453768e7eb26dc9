// Package config loads and validates the gateway's process-wide
// configuration: listen address, model directory, and the defaults applied
// to a ModelSpec when a request does not override them.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/localmodel/gateway/pkg/inference/core"
)

// GatewayConfig is the gateway's process configuration. It is read-only
// once loaded; the routing core never mutates it.
type GatewayConfig struct {
	// ListenAddr is the address the HTTP surface binds to.
	ListenAddr string `yaml:"listen_addr" validate:"required"`
	// ModelDir is the directory scanned for local model files.
	ModelDir string `yaml:"model_dir" validate:"required"`
	// DefaultCtxLen is applied to a ModelSpec when the request omits one.
	DefaultCtxLen int `yaml:"default_ctx_len" validate:"required,gt=0"`
	// DefaultGPUBackend is a "auto|cpu|cuda|vulkan|opencl" string, parsed
	// with core.ParseGpuBackend.
	DefaultGPUBackend string `yaml:"default_gpu_backend" validate:"omitempty,oneof=auto cpu cuda vulkan opencl"`
	// DefaultMoE is the mixture-of-experts CPU offloading policy given to
	// the quantized driver when the router is built; requests cannot
	// override it.
	DefaultMoE MoEConfig `yaml:"default_moe"`
	// LogLevel is one of logrus's level names ("debug", "info", "warn", ...).
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	// LogFormat selects between "text" and "json" log output.
	LogFormat string `yaml:"log_format" validate:"omitempty,oneof=text json"`
}

// MoEConfig is the YAML-facing form of core.MoeConfig.
type MoEConfig struct {
	CPUMoeAll bool `yaml:"cpu_moe_all"`
	NCPUMoe   *int `yaml:"n_cpu_moe" validate:"omitempty,gte=0"`
}

// ToCore converts the YAML-facing MoEConfig to the core package's type.
func (m MoEConfig) ToCore() core.MoeConfig {
	return core.MoeConfig{CPUMoeAll: m.CPUMoeAll, NCPUMoe: m.NCPUMoe}
}

// Defaults returns a GatewayConfig with sensible out-of-the-box values,
// suitable as a base before applying a YAML file and environment
// overrides.
func Defaults() GatewayConfig {
	return GatewayConfig{
		ListenAddr:        ":8080",
		ModelDir:          "/var/lib/gateway/models",
		DefaultCtxLen:     4096,
		DefaultGPUBackend: "auto",
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

var validate = validator.New()

// Load reads a YAML configuration file at path, applies it over Defaults,
// then overlays environment variable overrides (see applyEnvOverrides),
// and validates the result.
func Load(path string) (GatewayConfig, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return GatewayConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return GatewayConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validate.Struct(cfg); err != nil {
		return GatewayConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides lets a small set of high-churn settings be overridden
// without editing the YAML file, the way a container deployment typically
// needs to override the listen address or log level.
func applyEnvOverrides(cfg *GatewayConfig) {
	if v := os.Getenv("GATEWAY_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("GATEWAY_MODEL_DIR"); v != "" {
		cfg.ModelDir = v
	}
	if v := os.Getenv("GATEWAY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
