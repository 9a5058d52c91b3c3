// Package prover invokes the out-of-process proving backend to create and
// verify proofs over a compiled circuit and its witness.
package prover

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/circuitlings/circuitlings/internal/command"
	"github.com/circuitlings/circuitlings/internal/staging"
)

// ErrProver reports a non-zero exit from the proving backend, carrying its
// captured standard-error text. Recovered at the orchestrator level.
var ErrProver = errors.New("prover service")

const (
	proveSubcommand    = "prove"
	writeKeySubcommand = "write_vk"
	verifySubcommand   = "verify"

	artifactFlag = "-b"
	witnessFlag  = "-w"
	outputFlag   = "-o"
	keyFlag      = "-k"
	proofFlag    = "-p"

	proofFilePrefix = "proof-"
	keyFilePrefix   = "vk-"
)

// Client drives the proving backend binary against a staged unit's build
// artifacts. Paths are deterministic, derived from the unit root and the
// exercise name.
type Client struct {
	binary     string
	runner     command.Runner
	fileSystem afero.Fs
}

// NewClient builds a client around the configured backend binary.
func NewClient(binary string, fileSystem afero.Fs) Client {
	return Client{binary: binary, runner: command.NewExec(), fileSystem: fileSystem}
}

// NewClientWithRunner injects a custom command runner, used mainly for tests.
func NewClientWithRunner(binary string, runner command.Runner, fileSystem afero.Fs) Client {
	return Client{binary: binary, runner: runner, fileSystem: fileSystem}
}

// ProofPath is the deterministic proof location for an exercise name.
func ProofPath(unit staging.Unit, exerciseName string) string {
	return filepath.Join(unit.Root, staging.TargetDirName, proofFilePrefix+exerciseName)
}

// KeyPath is the deterministic verification-key location for an exercise
// name.
func KeyPath(unit staging.Unit, exerciseName string) string {
	return filepath.Join(unit.Root, staging.TargetDirName, keyFilePrefix+exerciseName)
}

// Prove produces a proof from the unit's compiled artifact and the
// exercise's saved witness.
func (client Client) Prove(ctx context.Context, unit staging.Unit, exerciseName string) (string, error) {
	result, runErr := client.runner.Run(ctx, "", client.binary,
		proveSubcommand,
		artifactFlag, unit.ArtifactPath(),
		witnessFlag, unit.WitnessPath(exerciseName),
		outputFlag, ProofPath(unit, exerciseName),
	)
	if runErr != nil {
		return "", fmt.Errorf("%w: prove: %s", ErrProver, diagnostic(result, runErr))
	}
	return result.Stdout, nil
}

// Verify exports the verification key and checks the exercise's proof
// against it. Either step exiting non-zero fails the verification.
func (client Client) Verify(ctx context.Context, unit staging.Unit, exerciseName string) (string, error) {
	keyResult, keyErr := client.runner.Run(ctx, "", client.binary,
		writeKeySubcommand,
		artifactFlag, unit.ArtifactPath(),
		outputFlag, KeyPath(unit, exerciseName),
	)
	if keyErr != nil {
		return "", fmt.Errorf("%w: write verification key: %s", ErrProver, diagnostic(keyResult, keyErr))
	}

	verifyResult, verifyErr := client.runner.Run(ctx, "", client.binary,
		verifySubcommand,
		keyFlag, KeyPath(unit, exerciseName),
		proofFlag, ProofPath(unit, exerciseName),
	)
	if verifyErr != nil {
		return "", fmt.Errorf("%w: verify: %s", ErrProver, diagnostic(verifyResult, verifyErr))
	}
	return verifyResult.Stdout, nil
}

// ProveAndVerify proves and then verifies. Unless saveFiles is set, the
// intermediate witness and verification key are removed afterwards; the
// proof itself is always retained. Removal failures are ignored.
func (client Client) ProveAndVerify(ctx context.Context, unit staging.Unit, exerciseName string, saveFiles bool) (string, error) {
	proveOutput, proveErr := client.Prove(ctx, unit, exerciseName)
	if proveErr != nil {
		return "", proveErr
	}
	verifyOutput, verifyErr := client.Verify(ctx, unit, exerciseName)
	if verifyErr != nil {
		return "", verifyErr
	}
	if !saveFiles {
		client.removeIntermediates(unit, exerciseName)
	}
	return strings.TrimSpace(proveOutput + "\n" + verifyOutput), nil
}

func (client Client) removeIntermediates(unit staging.Unit, exerciseName string) {
	for _, path := range []string{unit.WitnessPath(exerciseName), KeyPath(unit, exerciseName)} {
		_ = client.fileSystem.Remove(path)
	}
}

func diagnostic(result command.Result, runErr error) string {
	stderr := strings.TrimSpace(result.Stderr)
	if stderr != "" {
		return stderr
	}
	return runErr.Error()
}
