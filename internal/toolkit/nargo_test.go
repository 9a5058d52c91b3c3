package toolkit_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/circuitlings/circuitlings/internal/command"
	"github.com/circuitlings/circuitlings/internal/staging"
	"github.com/circuitlings/circuitlings/internal/toolkit"
)

type recordedCall struct {
	Dir  string
	Name string
	Args []string
}

type fakeRunner struct {
	calls   []recordedCall
	results []command.Result
	errs    []error
}

func (runner *fakeRunner) Run(ctx context.Context, dir string, name string, args ...string) (command.Result, error) {
	call := len(runner.calls)
	runner.calls = append(runner.calls, recordedCall{Dir: dir, Name: name, Args: args})
	var result command.Result
	if call < len(runner.results) {
		result = runner.results[call]
	}
	var callErr error
	if call < len(runner.errs) {
		callErr = runner.errs[call]
	}
	return result, callErr
}

var testUnit = staging.Unit{Root: "workbench", Package: "workbench"}

func TestCompile_InvokesToolInsideUnit(t *testing.T) {
	runner := &fakeRunner{results: []command.Result{{Stdout: "compiled\n"}}}
	nargo := toolkit.NewNargoWithRunner("nargo", runner)

	output, compileErr := nargo.Compile(context.Background(), testUnit)
	if compileErr != nil {
		t.Fatalf("Compile: %v", compileErr)
	}
	if output != "compiled\n" {
		t.Fatalf("unexpected compile output %q", output)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(runner.calls))
	}
	call := runner.calls[0]
	if call.Dir != "workbench" || call.Name != "nargo" {
		t.Fatalf("unexpected invocation %+v", call)
	}
	if strings.Join(call.Args, " ") != "compile" {
		t.Fatalf("unexpected arguments %v", call.Args)
	}
}

func TestCompile_FailureWrapsStderr(t *testing.T) {
	runner := &fakeRunner{
		results: []command.Result{{Stderr: "error: unknown identifier `y`\n", ExitCode: 1}},
		errs:    []error{errors.New("nargo exited with status 1")},
	}
	nargo := toolkit.NewNargoWithRunner("nargo", runner)

	_, compileErr := nargo.Compile(context.Background(), testUnit)
	if !errors.Is(compileErr, toolkit.ErrToolkit) {
		t.Fatalf("expected ErrToolkit, got %v", compileErr)
	}
	if !strings.Contains(compileErr.Error(), "unknown identifier") {
		t.Fatalf("expected the tool diagnostic to be surfaced, got %q", compileErr.Error())
	}
}

func TestExecute_ReturnsWitnessAndOutput(t *testing.T) {
	runner := &fakeRunner{results: []command.Result{
		{Stdout: "[workbench] Circuit witness successfully solved\n[workbench] Circuit output: Field(3)\n"},
	}}
	nargo := toolkit.NewNargoWithRunner("nargo", runner)

	result, executeErr := nargo.Execute(context.Background(), testUnit, "hello")
	if executeErr != nil {
		t.Fatalf("Execute: %v", executeErr)
	}
	if result.ReturnValue != "Field(3)" {
		t.Fatalf("unexpected return value %q", result.ReturnValue)
	}
	expectedWitness := filepath.Join("workbench", "target", "hello.gz")
	if result.WitnessPath != expectedWitness {
		t.Fatalf("expected witness path %q, got %q", expectedWitness, result.WitnessPath)
	}

	call := runner.calls[0]
	if strings.Join(call.Args, " ") != "execute hello" {
		t.Fatalf("unexpected arguments %v", call.Args)
	}
}

func TestExecute_CircuitWithoutReturnValue(t *testing.T) {
	runner := &fakeRunner{results: []command.Result{
		{Stdout: "[workbench] Circuit witness successfully solved\n"},
	}}
	nargo := toolkit.NewNargoWithRunner("nargo", runner)

	result, executeErr := nargo.Execute(context.Background(), testUnit, "hello")
	if executeErr != nil {
		t.Fatalf("Execute: %v", executeErr)
	}
	if result.ReturnValue != "" {
		t.Fatalf("expected no return value, got %q", result.ReturnValue)
	}
}

func TestRunTests_ParsesReport(t *testing.T) {
	report := "[workbench] Testing test_add ... ok\n" +
		"[workbench] Testing test_overflow ... FAILED\n" +
		"[workbench] Testing test_zero ... ok\n"
	runner := &fakeRunner{
		results: []command.Result{{Stdout: report, ExitCode: 1}},
		errs:    []error{errors.New("nargo exited with status 1")},
	}
	nargo := toolkit.NewNargoWithRunner("nargo", runner)

	results, testErr := nargo.RunTests(context.Background(), testUnit, "workbench")
	if testErr != nil {
		t.Fatalf("RunTests: %v", testErr)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 test results, got %d", len(results))
	}
	if results[0].Name != "test_add" || !results[0].Passed {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if results[1].Name != "test_overflow" || results[1].Passed {
		t.Fatalf("unexpected second result %+v", results[1])
	}

	call := runner.calls[0]
	if strings.Join(call.Args, " ") != "test --package workbench" {
		t.Fatalf("unexpected arguments %v", call.Args)
	}
}

func TestRunTests_NoReportIsToolkitError(t *testing.T) {
	runner := &fakeRunner{
		results: []command.Result{{Stderr: "error: cannot find package\n", ExitCode: 2}},
		errs:    []error{errors.New("nargo exited with status 2")},
	}
	nargo := toolkit.NewNargoWithRunner("nargo", runner)

	_, testErr := nargo.RunTests(context.Background(), testUnit, "workbench")
	if !errors.Is(testErr, toolkit.ErrToolkit) {
		t.Fatalf("expected ErrToolkit, got %v", testErr)
	}
}
