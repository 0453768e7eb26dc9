// Package registry discovers models available to the gateway: local
// files under a model directory, plus remote identifiers supplied
// directly by configuration or request.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/localmodel/gateway/pkg/inference/core"
)

// recognizedExtensions are the file extensions ScanDir treats as
// standalone model weight files.
var recognizedExtensions = map[string]bool{
	"gguf":        true,
	"safetensors": true,
	"npz":         true,
	"mlx":         true,
}

// Entry is a discovered model together with where it came from and when
// it was found. The routing core never sees an Entry directly — only the
// ModelSpec it carries.
type Entry struct {
	Spec         core.ModelSpec
	DiscoveredAt time.Time
	Source       string
}

// ScanDir walks dir (non-recursively) for files with a recognized model
// extension and returns one Entry per file. Sharded safetensors files are
// not deduplicated: each shard yields its own Entry.
func ScanDir(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan model directory %s: %w", dir, err)
	}

	now := scanTime()
	var entries []Entry
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name()), "."))
		if !recognizedExtensions[ext] {
			continue
		}
		name := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		entries = append(entries, Entry{
			Spec: core.ModelSpec{
				Name:     name,
				BasePath: filepath.Join(dir, f.Name()),
			},
			DiscoveredAt: now,
			Source:       "directory-scan",
		})
	}
	return entries, nil
}

// FromRemoteIdentifier builds an Entry for a HuggingFace-style "org/model"
// identifier supplied directly by configuration, bypassing directory scan.
func FromRemoteIdentifier(name, identifier string) Entry {
	return Entry{
		Spec:         core.ModelSpec{Name: name, BasePath: identifier},
		DiscoveredAt: scanTime(),
		Source:       "remote-identifier",
	}
}

// scanTime is split out so tests can observe a stable discovery timestamp
// without depending on wall-clock time.
var scanTime = time.Now
