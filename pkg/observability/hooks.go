// Package observability provides hooks for tracing the vendoring pipeline.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. The CLI registers hooks at
// startup; the pipeline reports each step through them.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStepHooks(&myStepHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Steps().OnStepStart(ctx, "export")
//	// ... run step ...
//	observability.Steps().OnStepComplete(ctx, "export", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Step Hooks
// =============================================================================

// StepHooks receives events from the vendoring pipeline.
type StepHooks interface {
	// OnStepStart records the start of a pipeline step.
	OnStepStart(ctx context.Context, step string)

	// OnStepComplete records the end of a pipeline step. err is nil on success.
	OnStepComplete(ctx context.Context, step string, duration time.Duration, err error)
}

// =============================================================================
// Command Hooks
// =============================================================================

// CommandHooks receives events for external tool invocations.
type CommandHooks interface {
	// OnCommand records a finished external command.
	OnCommand(ctx context.Context, name string, exitCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStepHooks is a no-op implementation of StepHooks.
type NoopStepHooks struct{}

func (NoopStepHooks) OnStepStart(context.Context, string)                          {}
func (NoopStepHooks) OnStepComplete(context.Context, string, time.Duration, error) {}

// NoopCommandHooks is a no-op implementation of CommandHooks.
type NoopCommandHooks struct{}

func (NoopCommandHooks) OnCommand(context.Context, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	stepHooks    StepHooks    = NoopStepHooks{}
	commandHooks CommandHooks = NoopCommandHooks{}
	hooksMu      sync.RWMutex
)

// SetStepHooks registers custom step hooks.
// This should be called once at application startup before any pipeline runs.
func SetStepHooks(h StepHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		stepHooks = h
	}
}

// SetCommandHooks registers custom command hooks.
func SetCommandHooks(h CommandHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		commandHooks = h
	}
}

// Steps returns the registered step hooks.
func Steps() StepHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return stepHooks
}

// Commands returns the registered command hooks.
func Commands() CommandHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return commandHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	stepHooks = NoopStepHooks{}
	commandHooks = NoopCommandHooks{}
}
