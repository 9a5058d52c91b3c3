// Package command abstracts external tool invocation so the toolkit,
// prover and reset layers can be exercised in tests without spawning
// processes.
package command

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result captures what an external tool reported.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes an external command inside a working directory. External
// invocations run to completion or failure as reported by their exit
// status; callers needing timeouts wrap the context themselves.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (Result, error)
}

// Exec is the Runner used outside of tests; it shells out.
type Exec struct{}

// NewExec returns the process-spawning runner.
func NewExec() Exec { return Exec{} }

// Run invokes the command and captures both output streams. A non-zero
// exit is reported as an error alongside the captured result so callers
// can surface the tool's own diagnostics.
func (Exec) Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	invocation := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		invocation.Dir = dir
	}

	var stdoutBuffer, stderrBuffer strings.Builder
	invocation.Stdout = &stdoutBuffer
	invocation.Stderr = &stderrBuffer

	runErr := invocation.Run()
	result := Result{Stdout: stdoutBuffer.String(), Stderr: stderrBuffer.String()}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, fmt.Errorf("%s exited with status %d", name, result.ExitCode)
		}
		result.ExitCode = -1
		return result, fmt.Errorf("run %s: %w", name, runErr)
	}
	return result, nil
}
