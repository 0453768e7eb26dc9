package core

import "fmt"

// ConfigurationError indicates that no compiled-in backend matches the
// selected choice, or that a user-forced backend is unavailable.
type ConfigurationError struct {
	Choice BackendChoice
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no backend available for %s: %s", e.Choice, e.Reason)
}

// BackendInitError wraps the cached failure of a process-wide backend
// singleton. Once produced it is returned, unchanged, for every subsequent
// load attempt against that singleton.
type BackendInitError struct {
	Backend string
	Err     error
}

func (e *BackendInitError) Error() string {
	return fmt.Sprintf("%s backend failed to initialize: %v", e.Backend, e.Err)
}

func (e *BackendInitError) Unwrap() error { return e.Err }

// LoadErrorKind discriminates the reason a model load failed.
type LoadErrorKind int

const (
	LoadErrorAllocation LoadErrorKind = iota
	LoadErrorFormat
	LoadErrorOther
)

// LoadError wraps a failure encountered while loading a model. Allocation
// failures carry enrichment (file size, a RAM estimate, and a remediation
// hint); format and other failures propagate mostly verbatim.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
	// Hint is a human-readable remediation suggestion, populated only
	// for LoadErrorAllocation.
	Hint string
}

func (e *LoadError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("failed to load model %s: %v\n%s", e.Path, e.Err, e.Hint)
	}
	return fmt.Sprintf("failed to load model %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// GenerationErrorStage names the stage of the generation loop a
// GenerationError occurred in.
type GenerationErrorStage int

const (
	GenerationErrorTokenize GenerationErrorStage = iota
	GenerationErrorDecode
	GenerationErrorSample
	GenerationErrorLockPoisoned
	GenerationErrorCallback
)

// GenerationError wraps a failure inside the token generation loop.
type GenerationError struct {
	Stage GenerationErrorStage
	Err   error
}

func (e *GenerationError) Error() string {
	var stage string
	switch e.Stage {
	case GenerationErrorTokenize:
		stage = "tokenize"
	case GenerationErrorDecode:
		stage = "decode"
	case GenerationErrorSample:
		stage = "sample"
	case GenerationErrorLockPoisoned:
		stage = "lock poisoned"
	case GenerationErrorCallback:
		stage = "callback"
	default:
		stage = "unknown"
	}
	return fmt.Sprintf("generation failed at %s: %v", stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
