package toolkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/circuitlings/circuitlings/internal/command"
	"github.com/circuitlings/circuitlings/internal/staging"
)

const (
	compileSubcommand = "compile"
	executeSubcommand = "execute"
	testSubcommand    = "test"
	packageFlagName   = "--package"

	circuitOutputMarker = "Circuit output:"
	testLinePrefix      = "[" // test report lines look like "[pkg] Testing name ... ok"
	testPassedSuffix    = "ok"
)

// Nargo drives the toolkit binary inside a staged unit's directory.
type Nargo struct {
	binary string
	runner command.Runner
}

// NewNargo builds a toolkit client around the configured compiler binary.
func NewNargo(binary string) Nargo {
	return Nargo{binary: binary, runner: command.NewExec()}
}

// NewNargoWithRunner injects a custom command runner, used mainly for tests.
func NewNargoWithRunner(binary string, runner command.Runner) Nargo {
	return Nargo{binary: binary, runner: runner}
}

// Compile builds the staged unit.
func (nargo Nargo) Compile(ctx context.Context, unit staging.Unit) (string, error) {
	result, runErr := nargo.runner.Run(ctx, unit.Root, nargo.binary, compileSubcommand)
	if runErr != nil {
		return "", fmt.Errorf("%w: compile: %s", ErrToolkit, diagnostic(result, runErr))
	}
	return result.Stdout, nil
}

// Execute runs the staged unit against its inputs and saves the witness
// under the given name inside the unit's target directory.
func (nargo Nargo) Execute(ctx context.Context, unit staging.Unit, witnessName string) (ExecutionResult, error) {
	result, runErr := nargo.runner.Run(ctx, unit.Root, nargo.binary, executeSubcommand, witnessName)
	if runErr != nil {
		return ExecutionResult{}, fmt.Errorf("%w: execute: %s", ErrToolkit, diagnostic(result, runErr))
	}
	return ExecutionResult{
		ReturnValue: parseReturnValue(result.Stdout),
		WitnessPath: unit.WitnessPath(witnessName),
	}, nil
}

// RunTests runs the unit's embedded tests. Individual test failures are
// reported in the result list, not as an error; an error means the tool
// produced no test report at all.
func (nargo Nargo) RunTests(ctx context.Context, unit staging.Unit, packageFilter string) ([]TestResult, error) {
	result, runErr := nargo.runner.Run(ctx, unit.Root, nargo.binary, testSubcommand, packageFlagName, packageFilter)
	results := parseTestReport(result.Stdout)
	if runErr != nil && len(results) == 0 {
		return nil, fmt.Errorf("%w: test: %s", ErrToolkit, diagnostic(result, runErr))
	}
	return results, nil
}

func diagnostic(result command.Result, runErr error) string {
	stderr := strings.TrimSpace(result.Stderr)
	if stderr != "" {
		return stderr
	}
	stdout := strings.TrimSpace(result.Stdout)
	if stdout != "" {
		return stdout
	}
	return runErr.Error()
}

// parseReturnValue extracts the decoded circuit output from an execution
// report, when the circuit returned one.
func parseReturnValue(stdout string) string {
	for _, line := range strings.Split(stdout, "\n") {
		if index := strings.Index(line, circuitOutputMarker); index >= 0 {
			return strings.TrimSpace(line[index+len(circuitOutputMarker):])
		}
	}
	return ""
}

// parseTestReport collects per-test verdicts from lines shaped like
// "[package] Testing test_name ... ok".
func parseTestReport(stdout string) []TestResult {
	var results []TestResult
	for _, line := range strings.Split(stdout, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, testLinePrefix) {
			continue
		}
		closeBracket := strings.Index(trimmed, "]")
		if closeBracket < 0 {
			continue
		}
		remainder := strings.TrimSpace(trimmed[closeBracket+1:])
		remainder, found := strings.CutPrefix(remainder, "Testing ")
		if !found {
			continue
		}
		name, verdict, split := strings.Cut(remainder, "...")
		if !split {
			continue
		}
		results = append(results, TestResult{
			Name:   strings.TrimSpace(name),
			Passed: strings.TrimSpace(verdict) == testPassedSuffix,
		})
	}
	return results
}
