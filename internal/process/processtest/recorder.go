// Package processtest provides a recording process.Runner for tests.
package processtest

import (
	"context"
	"strings"
	"sync"
)

// Call is one recorded command invocation.
type Call struct {
	Dir  string
	Argv []string
}

// String renders the call as "argv... @ dir".
func (c Call) String() string {
	return strings.Join(c.Argv, " ") + " @ " + c.Dir
}

// HandlerFunc decides the outcome of a call. The returned string is the
// stdout reported by Output.
type HandlerFunc func(ctx context.Context, call Call) (string, error)

// Recorder is a process.Runner that records every call and delegates the
// outcome to Handler. A nil Handler makes every call succeed silently.
type Recorder struct {
	Handler HandlerFunc

	mu    sync.Mutex
	calls []Call
}

// NewRecorder returns a Recorder that uses handler for every call.
func NewRecorder(handler HandlerFunc) *Recorder {
	return &Recorder{Handler: handler}
}

// Run implements process.Runner.
func (r *Recorder) Run(ctx context.Context, dir, name string, args ...string) error {
	_, err := r.handle(ctx, dir, name, args)
	return err
}

// Output implements process.Runner.
func (r *Recorder) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	return r.handle(ctx, dir, name, args)
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Argvs returns each recorded call's command line joined by spaces.
func (r *Recorder) Argvs() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = strings.Join(c.Argv, " ")
	}
	return out
}

func (r *Recorder) handle(ctx context.Context, dir, name string, args []string) (string, error) {
	call := Call{Dir: dir, Argv: append([]string{name}, args...)}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()

	if r.Handler == nil {
		return "", nil
	}
	return r.Handler(ctx, call)
}
