package core

import (
	"path"
	"runtime"
	"strings"
)

// appleSiliconModelNames are the model-name substrings that prefer the
// accelerator backend on Apple silicon (rule 5 of the precedence ladder).
var appleSiliconModelNames = []string{"llama", "mistral", "phi", "qwen"}

// quantizedNameHints are the model-name substrings that indicate a
// quantized GGUF-family model when the path itself is inconclusive
// (rule 7).
var quantizedNameHints = []string{"llama", "phi", "qwen", "gemma", "mistral"}

// Select is a pure, total function from a ModelSpec to a BackendChoice. It
// applies a strictly ordered precedence ladder; earlier rules win ties.
// Select never consults compiled-in availability — that is the Router's
// job via fall-through (see Router.Load) — so the same spec always yields
// the same choice regardless of build configuration.
func Select(spec ModelSpec) BackendChoice {
	basePath := spec.BasePath
	ext := extensionOf(basePath)

	// Rule 1: safetensors always wins, even over a path that also looks
	// like a remote identifier.
	if ext == "safetensors" {
		return BackendNativeTensor
	}

	// Rule 2: gguf extension.
	if ext == "gguf" {
		return BackendQuantized
	}

	// Rule 3: MLX native formats.
	if ext == "npz" || ext == "mlx" {
		return BackendAccelerator
	}

	// Rule 4: "org/model" remote-identifier shape — contains '/', no
	// '\', no '.'.
	if looksLikeRemoteIdentifier(basePath) {
		return BackendFramework
	}

	// Rule 5: Apple-silicon name heuristic.
	if isAppleSilicon() && containsAny(strings.ToLower(spec.Name), appleSiliconModelNames) {
		return BackendAccelerator
	}

	// Rule 6: Ollama blob layout (GGUF files stored without an
	// extension).
	if strings.Contains(basePath, "ollama") && strings.Contains(basePath, "blobs") && strings.Contains(basePath, "sha256-") {
		return BackendQuantized
	}

	// Rule 7: other signals of a GGUF-family model.
	if strings.Contains(basePath, ".gguf") || containsAny(strings.ToLower(spec.Name), quantizedNameHints) {
		return BackendQuantized
	}

	// Rule 8: default.
	return BackendFramework
}

// extensionOf returns the lowercase file extension (without the leading
// dot) of path, treating both '/' and '\' as separators so Windows-style
// paths are handled the same as POSIX ones.
func extensionOf(p string) string {
	// path.Ext only understands '/'; normalize backslashes first so
	// "C:\path\to\model.gguf" behaves the same as a POSIX path.
	normalized := strings.ReplaceAll(p, `\`, "/")
	ext := path.Ext(normalized)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// looksLikeRemoteIdentifier reports whether basePath has the shape of a
// HuggingFace-style "org/model" identifier: it contains a forward slash,
// no backslash, and no dot anywhere.
func looksLikeRemoteIdentifier(basePath string) bool {
	return strings.Contains(basePath, "/") &&
		!strings.Contains(basePath, `\`) &&
		!strings.Contains(basePath, ".")
}

// isAppleSilicon reports whether the host is macOS on arm64.
func isAppleSilicon() bool {
	return runtime.GOOS == "darwin" && runtime.GOARCH == "arm64"
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
