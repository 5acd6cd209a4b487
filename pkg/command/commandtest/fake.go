// Package commandtest provides a scriptable command.Runner for tests.
package commandtest

import (
	"context"
	"sync"

	"github.com/matzehuels/vendorpy/pkg/command"
)

// HandlerFunc produces the outcome of one command invocation.
type HandlerFunc func(spec command.Spec) (command.Result, error)

// Fake is a command.Runner that records every call and delegates to
// handlers registered per executable. Unregistered executables succeed
// with empty output.
type Fake struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []command.Spec
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{handlers: make(map[string]HandlerFunc)}
}

// Handle registers fn for commands whose Name equals name.
func (f *Fake) Handle(name string, fn HandlerFunc) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = fn
	return f
}

// Fail makes every command named name exit with code and stderr.
func (f *Fake) Fail(name string, code int, stderr string) *Fake {
	return f.Handle(name, func(command.Spec) (command.Result, error) {
		return command.Result{ExitCode: code, Stderr: stderr}, nil
	})
}

// Run implements command.Runner.
func (f *Fake) Run(ctx context.Context, spec command.Spec) (command.Result, error) {
	if err := ctx.Err(); err != nil {
		return command.Result{}, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, spec)
	fn := f.handlers[spec.Name]
	f.mu.Unlock()

	if fn == nil {
		return command.Result{}, nil
	}
	return fn(spec)
}

// Calls returns a copy of the recorded invocations in order.
func (f *Fake) Calls() []command.Spec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]command.Spec(nil), f.calls...)
}

// Names returns the executable of each recorded invocation in order.
func (f *Fake) Names() []string {
	calls := f.Calls()
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Name
	}
	return names
}

var _ command.Runner = (*Fake)(nil)
