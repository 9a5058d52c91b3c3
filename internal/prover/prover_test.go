package prover_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/circuitlings/circuitlings/internal/command"
	"github.com/circuitlings/circuitlings/internal/prover"
	"github.com/circuitlings/circuitlings/internal/staging"
)

type recordedCall struct {
	Name string
	Args []string
}

type fakeRunner struct {
	calls []recordedCall
	fail  map[string]command.Result // subcommand -> failing result
}

func (runner *fakeRunner) Run(ctx context.Context, dir string, name string, args ...string) (command.Result, error) {
	runner.calls = append(runner.calls, recordedCall{Name: name, Args: args})
	if len(args) > 0 {
		if result, shouldFail := runner.fail[args[0]]; shouldFail {
			return result, errors.New(name + " exited with status 1")
		}
	}
	return command.Result{}, nil
}

func (runner *fakeRunner) subcommands() []string {
	var names []string
	for _, call := range runner.calls {
		if len(call.Args) > 0 {
			names = append(names, call.Args[0])
		}
	}
	return names
}

var testUnit = staging.Unit{Root: "workbench", Package: "workbench"}

func newProverFixture(t *testing.T, runner command.Runner) (prover.Client, afero.Fs) {
	t.Helper()
	fileSystem := afero.NewMemMapFs()
	for _, path := range []string{testUnit.WitnessPath("hello"), prover.KeyPath(testUnit, "hello"), prover.ProofPath(testUnit, "hello")} {
		if writeErr := afero.WriteFile(fileSystem, path, []byte("artifact"), 0o644); writeErr != nil {
			t.Fatalf("write artifact %s: %v", path, writeErr)
		}
	}
	return prover.NewClientWithRunner("bb", runner, fileSystem), fileSystem
}

func TestProve_InvocationShape(t *testing.T) {
	runner := &fakeRunner{}
	client, _ := newProverFixture(t, runner)

	if _, proveErr := client.Prove(context.Background(), testUnit, "hello"); proveErr != nil {
		t.Fatalf("Prove: %v", proveErr)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(runner.calls))
	}
	expected := strings.Join([]string{
		"prove",
		"-b", filepath.Join("workbench", "target", "workbench.json"),
		"-w", filepath.Join("workbench", "target", "hello.gz"),
		"-o", filepath.Join("workbench", "target", "proof-hello"),
	}, " ")
	if got := strings.Join(runner.calls[0].Args, " "); got != expected {
		t.Fatalf("unexpected prove invocation:\n  got  %s\n  want %s", got, expected)
	}
}

func TestVerify_TwoStepInvocation(t *testing.T) {
	runner := &fakeRunner{}
	client, _ := newProverFixture(t, runner)

	if _, verifyErr := client.Verify(context.Background(), testUnit, "hello"); verifyErr != nil {
		t.Fatalf("Verify: %v", verifyErr)
	}

	subcommands := runner.subcommands()
	if strings.Join(subcommands, " ") != "write_vk verify" {
		t.Fatalf("expected write_vk then verify, got %v", subcommands)
	}
	verifyArgs := strings.Join(runner.calls[1].Args, " ")
	if !strings.Contains(verifyArgs, filepath.Join("workbench", "target", "vk-hello")) {
		t.Fatalf("expected the verification key path in %q", verifyArgs)
	}
	if !strings.Contains(verifyArgs, filepath.Join("workbench", "target", "proof-hello")) {
		t.Fatalf("expected the proof path in %q", verifyArgs)
	}
}

func TestProve_FailureCarriesStderr(t *testing.T) {
	runner := &fakeRunner{fail: map[string]command.Result{
		"prove": {Stderr: "cannot open witness file\n", ExitCode: 1},
	}}
	client, _ := newProverFixture(t, runner)

	_, proveErr := client.Prove(context.Background(), testUnit, "hello")
	if !errors.Is(proveErr, prover.ErrProver) {
		t.Fatalf("expected ErrProver, got %v", proveErr)
	}
	if !strings.Contains(proveErr.Error(), "cannot open witness file") {
		t.Fatalf("expected captured stderr in %q", proveErr.Error())
	}
}

func TestProveAndVerify_DiscardsIntermediatesByDefault(t *testing.T) {
	runner := &fakeRunner{}
	client, fileSystem := newProverFixture(t, runner)

	if _, runErr := client.ProveAndVerify(context.Background(), testUnit, "hello", false); runErr != nil {
		t.Fatalf("ProveAndVerify: %v", runErr)
	}

	if exists, _ := afero.Exists(fileSystem, testUnit.WitnessPath("hello")); exists {
		t.Fatalf("expected the witness to be removed")
	}
	if exists, _ := afero.Exists(fileSystem, prover.KeyPath(testUnit, "hello")); exists {
		t.Fatalf("expected the verification key to be removed")
	}
	// The proof itself is always retained.
	if exists, _ := afero.Exists(fileSystem, prover.ProofPath(testUnit, "hello")); !exists {
		t.Fatalf("expected the proof to be retained")
	}
}

func TestProveAndVerify_SaveFilesRetainsIntermediates(t *testing.T) {
	runner := &fakeRunner{}
	client, fileSystem := newProverFixture(t, runner)

	if _, runErr := client.ProveAndVerify(context.Background(), testUnit, "hello", true); runErr != nil {
		t.Fatalf("ProveAndVerify: %v", runErr)
	}

	for _, path := range []string{testUnit.WitnessPath("hello"), prover.KeyPath(testUnit, "hello"), prover.ProofPath(testUnit, "hello")} {
		if exists, _ := afero.Exists(fileSystem, path); !exists {
			t.Fatalf("expected %s to be retained", path)
		}
	}
}

func TestProveAndVerify_ProveFailureSkipsVerify(t *testing.T) {
	runner := &fakeRunner{fail: map[string]command.Result{
		"prove": {Stderr: "proving failed\n", ExitCode: 1},
	}}
	client, _ := newProverFixture(t, runner)

	_, runErr := client.ProveAndVerify(context.Background(), testUnit, "hello", false)
	if !errors.Is(runErr, prover.ErrProver) {
		t.Fatalf("expected ErrProver, got %v", runErr)
	}
	if subcommands := runner.subcommands(); strings.Join(subcommands, " ") != "prove" {
		t.Fatalf("expected no verification after a failed prove, got %v", subcommands)
	}
}
