package core

import (
	"context"
	"fmt"

	"github.com/localmodel/gateway/pkg/logging"
)

// fallbackOrder is the sequence Router walks when the selected backend is
// not compiled in. Router.fallback skips the originally selected choice
// while walking it (the caller already tried that).
var fallbackOrder = []BackendChoice{
	BackendFramework,
	BackendQuantized,
	BackendNativeTensor,
	BackendAccelerator,
}

// Router owns the set of initialized backend drivers and dispatches Load
// calls through Select, falling back to the nearest compiled-in
// alternative when the selected backend is absent. It is the Engine
// Adapter of the routing layer: callers never talk to a Driver directly.
type Router struct {
	log     logging.Logger
	drivers map[BackendChoice]Driver
}

// NewRouter constructs a Router over the given set of compiled-in drivers.
// A nil or missing entry for a BackendChoice means that backend was not
// compiled in.
func NewRouter(log logging.Logger, drivers map[BackendChoice]Driver) *Router {
	return &Router{log: log, drivers: drivers}
}

// Load selects a backend for spec and loads it. If the selected backend is
// not compiled in, Load falls through to the next viable compiled-in
// backend in fallbackOrder; if none is available it returns a
// ConfigurationError.
func (r *Router) Load(ctx context.Context, spec ModelSpec) (LoadedModel, error) {
	choice := Select(spec)
	driver, ok := r.drivers[choice]
	if !ok || driver == nil {
		r.log.Warnf("backend %s selected for %q is not compiled in, falling back", choice, spec.Name)
		var fallbackErr error
		driver, fallbackErr = r.fallback(choice)
		if fallbackErr != nil {
			return nil, fallbackErr
		}
	}

	r.log.Infof("loading model %q via %s backend", spec.Name, driver.Choice())
	model, err := driver.Load(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("load %q via %s: %w", spec.Name, driver.Choice(), err)
	}
	return model, nil
}

// LoadWithChoice bypasses the selector entirely, loading spec against a
// user-forced backend choice. It still falls through to the nearest
// compiled-in alternative, matching the documented behavior for an
// explicitly requested but uncompiled backend.
func (r *Router) LoadWithChoice(ctx context.Context, spec ModelSpec, choice BackendChoice) (LoadedModel, error) {
	driver, ok := r.drivers[choice]
	if !ok || driver == nil {
		r.log.Warnf("requested backend %s is not compiled in, falling back", choice)
		var err error
		driver, err = r.fallback(choice)
		if err != nil {
			return nil, err
		}
	}
	return driver.Load(ctx, spec)
}

func (r *Router) fallback(from BackendChoice) (Driver, error) {
	for _, candidate := range fallbackOrder {
		if candidate == from {
			continue
		}
		if driver, ok := r.drivers[candidate]; ok && driver != nil {
			return driver, nil
		}
	}
	return nil, &ConfigurationError{Choice: from, Reason: "no compiled-in backend available"}
}

// Compiled reports whether a backend is present in this Router.
func (r *Router) Compiled(choice BackendChoice) bool {
	d, ok := r.drivers[choice]
	return ok && d != nil
}
