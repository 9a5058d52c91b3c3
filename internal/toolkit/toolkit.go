// Package toolkit wraps the external circuit compiler used to build,
// execute and test staged exercises.
package toolkit

import (
	"context"
	"errors"

	"github.com/circuitlings/circuitlings/internal/staging"
)

// ErrToolkit reports a compilation, execution or test-run failure from the
// compiler toolkit. Recovered at the orchestrator level; it never aborts
// the process.
var ErrToolkit = errors.New("compiler toolkit")

// ExecutionResult is what a witness-producing run yields.
type ExecutionResult struct {
	// ReturnValue is the decoded circuit output, when the circuit returns
	// one.
	ReturnValue string
	// WitnessPath is where the solved witness was saved.
	WitnessPath string
}

// TestResult is one embedded test's verdict.
type TestResult struct {
	Name   string
	Passed bool
}

// Toolkit is the compiler capability consumed by the orchestrator.
type Toolkit interface {
	// Compile builds the staged unit and returns the tool's output.
	Compile(ctx context.Context, unit staging.Unit) (string, error)
	// Execute compiles and runs the unit against its staged inputs,
	// saving the witness under the given name.
	Execute(ctx context.Context, unit staging.Unit, witnessName string) (ExecutionResult, error)
	// RunTests runs the unit's embedded tests, filtered to one package.
	RunTests(ctx context.Context, unit staging.Unit, packageFilter string) ([]TestResult, error)
}
