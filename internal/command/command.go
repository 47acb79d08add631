// Package command runs the external developer tools (xcodebuild, xcrun,
// swift) that workflow tools shell out to.
package command

import (
	"context"
	"strings"
	"time"
)

// Request describes one process invocation.
type Request struct {
	Name    string
	Args    []string
	Dir     string
	Env     map[string]string
	Stdin   string
	Timeout time.Duration
}

// String renders the command line for logs and tool responses.
func (r Request) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	return r.Name + " " + strings.Join(r.Args, " ")
}

// Result is the captured outcome of a process that started. A non-zero exit
// code is not an error.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	Killed   bool
}

// Success reports whether the process exited zero and was not killed.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && !r.Killed
}

// Output returns stdout, falling back to stderr when stdout is empty.
func (r *Result) Output() string {
	if strings.TrimSpace(r.Stdout) != "" {
		return r.Stdout
	}
	return r.Stderr
}

// Executor runs processes.
type Executor interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, req Request) (*Result, error)

// Run calls f.
func (f ExecutorFunc) Run(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}

type executorKey struct{}

// WithExecutor returns a context carrying exec.
func WithExecutor(ctx context.Context, exec Executor) context.Context {
	return context.WithValue(ctx, executorKey{}, exec)
}

// FromContext returns the executor carried by ctx, or a ProcessExecutor with
// default settings.
func FromContext(ctx context.Context) Executor {
	if exec, ok := ctx.Value(executorKey{}).(Executor); ok && exec != nil {
		return exec
	}
	return defaultExecutor
}

var defaultExecutor = NewProcessExecutor(Config{})
