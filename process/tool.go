package process

import (
	"context"
	"fmt"
)

// Tool turns an external binary into a typed provider.RequestResponse:
// build maps the input to a Command and parse maps the Result to the output.
type Tool[I, O any] struct {
	binary string
	runner Runner
	build  func(I) Command
	parse  func(*Result) (O, error)
}

// NewTool creates a tool for binary. A nil runner uses Run directly.
func NewTool[I, O any](binary string, runner Runner, build func(I) Command, parse func(*Result) (O, error)) *Tool[I, O] {
	if runner == nil {
		runner = RunnerFunc(Run)
	}
	return &Tool[I, O]{binary: binary, runner: runner, build: build, parse: parse}
}

// Name returns the binary name.
func (t *Tool[I, O]) Name() string { return t.binary }

// IsAvailable reports whether the binary is on PATH.
func (t *Tool[I, O]) IsAvailable(_ context.Context) bool { return Available(t.binary) }

// Execute runs the command built from input and parses its result. On failure
// the error carries the tail of stderr.
func (t *Tool[I, O]) Execute(ctx context.Context, input I) (O, error) {
	var zero O
	cmd := t.build(input)
	if cmd.Binary == "" {
		cmd.Binary = t.binary
	}
	result, err := t.runner.Run(ctx, cmd)
	if err != nil {
		if tail := result.StderrTail(3); tail != "" {
			return zero, fmt.Errorf("%w: %s", err, tail)
		}
		return zero, err
	}
	return t.parse(result)
}
