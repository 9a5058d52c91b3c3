// Package orchestrator sequences staging, compilation, execution, proving
// and verification for one exercise at a time, short-circuiting on the
// first failing step.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/circuitlings/circuitlings/internal/manifest"
	"github.com/circuitlings/circuitlings/internal/staging"
	"github.com/circuitlings/circuitlings/internal/toolkit"
)

// ErrTestsFailed summarizes one or more failing embedded tests as a single
// failure outcome rather than a per-test enumeration.
var ErrTestsFailed = errors.New("some embedded tests failed")

const proverInstallHint = "Are you sure the proving backend is installed properly?"

// ProverService is the proving capability the orchestrator consumes.
type ProverService interface {
	Prove(ctx context.Context, unit staging.Unit, exerciseName string) (string, error)
	ProveAndVerify(ctx context.Context, unit staging.Unit, exerciseName string, saveFiles bool) (string, error)
}

// Orchestrator drives one exercise's pipeline. One run is strictly
// sequential; each step waits for the previous one, and no downstream step
// runs after an upstream failure. Instances sharing a staging area must be
// serialized by the caller.
type Orchestrator struct {
	FileSystem afero.Fs
	Area       staging.Area
	Toolkit    toolkit.Toolkit
	Prover     ProverService
	Logger     *zap.Logger
	Out        io.Writer
}

// Run executes the pipeline selected by the exercise's mode and classifies
// the result. Toolkit and prover failures become a failed outcome with the
// diagnostic text and a stage-tailored remediation hint written to Out;
// they never panic.
func (orchestrator Orchestrator) Run(ctx context.Context, exercise manifest.Exercise) Outcome {
	outcome := orchestrator.runPipeline(ctx, exercise)
	if outcome.Failed() {
		return outcome
	}
	orchestrator.reportOutput(outcome.Output)
	orchestrator.reportSuccess(exercise)
	return outcome
}

func (orchestrator Orchestrator) runPipeline(ctx context.Context, exercise manifest.Exercise) Outcome {
	switch exercise.Mode.Kind() {
	case manifest.ModeBuild:
		return orchestrator.runBuild(ctx, exercise)
	case manifest.ModeExecute:
		return orchestrator.runExecute(ctx, exercise)
	case manifest.ModeProveOnly:
		return orchestrator.runProveOnly(ctx, exercise)
	case manifest.ModeProveAndVerify:
		return orchestrator.runProveAndVerify(ctx, exercise)
	case manifest.ModeTest:
		return orchestrator.runTest(ctx, exercise)
	}
	return failedAt(StageStaged, fmt.Errorf("invalid mode for exercise %s", exercise.Name))
}

func (orchestrator Orchestrator) runBuild(ctx context.Context, exercise manifest.Exercise) Outcome {
	orchestrator.progress("Building %s exercise...", exercise.Path)
	unit, stageErr := orchestrator.Area.Stage(exercise, nil)
	if stageErr != nil {
		return orchestrator.fail(exercise, StageStaged, stageErr)
	}
	output, compileErr := orchestrator.Toolkit.Compile(ctx, unit)
	if compileErr != nil {
		return orchestrator.fail(exercise, StageCompiled, compileErr)
	}
	return succeededAt(output)
}

func (orchestrator Orchestrator) runExecute(ctx context.Context, exercise manifest.Exercise) Outcome {
	orchestrator.progress("Running %s exercise...", exercise.Path)
	unit, outcome := orchestrator.stageWithPayload(exercise)
	if outcome.Failed() {
		return outcome
	}
	result, executeErr := orchestrator.Toolkit.Execute(ctx, unit, exercise.Name)
	if executeErr != nil {
		return orchestrator.fail(exercise, StageExecuted, executeErr)
	}
	return succeededAt(executionSummary(result))
}

func (orchestrator Orchestrator) runProveOnly(ctx context.Context, exercise manifest.Exercise) Outcome {
	orchestrator.progress("Running %s exercise...", exercise.Path)
	unit, outcome := orchestrator.stageWithPayload(exercise)
	if outcome.Failed() {
		return outcome
	}
	result, executeErr := orchestrator.Toolkit.Execute(ctx, unit, exercise.Name)
	if executeErr != nil {
		return orchestrator.fail(exercise, StageExecuted, executeErr)
	}
	orchestrator.progress("Creating proof for %s...", exercise.Path)
	proveOutput, proveErr := orchestrator.Prover.Prove(ctx, unit, exercise.Name)
	if proveErr != nil {
		return orchestrator.fail(exercise, StageProved, proveErr)
	}
	return succeededAt(joinOutputs(executionSummary(result), proveOutput))
}

func (orchestrator Orchestrator) runProveAndVerify(ctx context.Context, exercise manifest.Exercise) Outcome {
	orchestrator.progress("Running %s exercise...", exercise.Path)
	unit, outcome := orchestrator.stageWithPayload(exercise)
	if outcome.Failed() {
		return outcome
	}
	result, executeErr := orchestrator.Toolkit.Execute(ctx, unit, exercise.Name)
	if executeErr != nil {
		return orchestrator.fail(exercise, StageExecuted, executeErr)
	}
	orchestrator.progress("Proving and verifying %s...", exercise.Path)
	proveOutput, proveErr := orchestrator.Prover.ProveAndVerify(ctx, unit, exercise.Name, exercise.Mode.SaveFiles())
	if proveErr != nil {
		return orchestrator.fail(exercise, StageVerified, proveErr)
	}
	return succeededAt(joinOutputs(executionSummary(result), proveOutput))
}

func (orchestrator Orchestrator) runTest(ctx context.Context, exercise manifest.Exercise) Outcome {
	orchestrator.progress("Testing %s exercise...", exercise.Path)
	unit, stageErr := orchestrator.Area.Stage(exercise, nil)
	if stageErr != nil {
		return orchestrator.fail(exercise, StageStaged, stageErr)
	}
	results, testErr := orchestrator.Toolkit.RunTests(ctx, unit, unit.Package)
	if testErr != nil {
		return orchestrator.fail(exercise, StageCompiled, testErr)
	}
	failing := 0
	for _, result := range results {
		if !result.Passed {
			failing++
		}
	}
	if failing > 0 {
		return orchestrator.fail(exercise, StageExecuted,
			fmt.Errorf("%w: %d of %d", ErrTestsFailed, failing, len(results)))
	}
	return succeededAt("")
}

// stageWithPayload stages the exercise together with its mode's input
// payload. An unresolvable referenced payload is a fatal configuration
// error for this exercise, surfaced before any toolkit call.
func (orchestrator Orchestrator) stageWithPayload(exercise manifest.Exercise) (staging.Unit, Outcome) {
	payload, carries := exercise.Mode.Payload()
	var payloadRef *manifest.ConfigPayload
	if carries {
		payloadRef = &payload
	}
	unit, stageErr := orchestrator.Area.Stage(exercise, payloadRef)
	if stageErr != nil {
		return staging.Unit{}, orchestrator.fail(exercise, StageStaged, stageErr)
	}
	return unit, Outcome{Stage: StageStaged}
}

func (orchestrator Orchestrator) fail(exercise manifest.Exercise, stage Stage, cause error) Outcome {
	orchestrator.reportFailure(exercise, stage, cause)
	orchestrator.Logger.Debug("pipeline step failed",
		zap.String("exercise", exercise.Name),
		zap.Stringer("stage", stage),
		zap.Error(cause))
	return failedAt(stage, cause)
}

func executionSummary(result toolkit.ExecutionResult) string {
	var parts []string
	if result.ReturnValue != "" {
		parts = append(parts, fmt.Sprintf("Circuit output: %s", result.ReturnValue))
	}
	if result.WitnessPath != "" {
		parts = append(parts, fmt.Sprintf("Witness saved to %s", result.WitnessPath))
	}
	return strings.Join(parts, "\n")
}

func joinOutputs(outputs ...string) string {
	var kept []string
	for _, output := range outputs {
		if trimmed := strings.TrimSpace(output); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n")
}
