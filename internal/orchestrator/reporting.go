package orchestrator

import (
	"fmt"

	"github.com/circuitlings/circuitlings/internal/manifest"
)

func (orchestrator Orchestrator) progress(format string, args ...any) {
	fmt.Fprintf(orchestrator.Out, format+"\n", args...)
}

func (orchestrator Orchestrator) reportOutput(output string) {
	if output != "" {
		fmt.Fprintf(orchestrator.Out, "Output: %s\n", output)
	}
}

// reportFailure prints the underlying diagnostic followed by a remediation
// hint tailored to the failing stage. Prover stages additionally prompt the
// user to check the backend installation.
func (orchestrator Orchestrator) reportFailure(exercise manifest.Exercise, stage Stage, cause error) {
	fmt.Fprintln(orchestrator.Out, cause.Error())
	switch stage {
	case StageStaged:
		fmt.Fprintf(orchestrator.Out, "Preparing %s failed! Please check the exercise files.\n", exercise.Path)
	case StageCompiled:
		fmt.Fprintf(orchestrator.Out, "Compiling of %s failed! Please try again.\n", exercise.Path)
	case StageExecuted:
		fmt.Fprintf(orchestrator.Out, "Failed to run %s! Please try again.\n", exercise.Path)
	case StageProved:
		fmt.Fprintf(orchestrator.Out, "Execution worked but creating the proof for %s failed! Please try again.\n", exercise.Path)
		fmt.Fprintln(orchestrator.Out, proverInstallHint)
	case StageVerified:
		fmt.Fprintf(orchestrator.Out, "Execution worked but proving and verifying %s failed! Please try again.\n", exercise.Path)
		fmt.Fprintln(orchestrator.Out, proverInstallHint)
	}
}

// reportSuccess prints the mode-specific success message. Payload-carrying
// modes echo the resolved input text for traceability.
func (orchestrator Orchestrator) reportSuccess(exercise manifest.Exercise) {
	switch exercise.Mode.Kind() {
	case manifest.ModeBuild:
		fmt.Fprintf(orchestrator.Out, "Successfully built %s!\n", exercise.Path)
	case manifest.ModeExecute:
		fmt.Fprintf(orchestrator.Out, "Successfully ran %s!\nWith inputs: %s\n", exercise.Path, orchestrator.resolvedInputs(exercise))
	case manifest.ModeProveOnly:
		fmt.Fprintf(orchestrator.Out, "Successfully ran %s and created a proof!\nWith inputs: %s\n", exercise.Path, orchestrator.resolvedInputs(exercise))
	case manifest.ModeProveAndVerify:
		fmt.Fprintf(orchestrator.Out, "Successfully ran %s and verified the proof!\nWith inputs: %s\n", exercise.Path, orchestrator.resolvedInputs(exercise))
	case manifest.ModeTest:
		fmt.Fprintf(orchestrator.Out, "Successfully tested %s!\n", exercise.Path)
	}
}

func (orchestrator Orchestrator) resolvedInputs(exercise manifest.Exercise) string {
	payload, carries := exercise.Mode.Payload()
	if !carries {
		return ""
	}
	text, resolveErr := payload.Resolve(orchestrator.FileSystem)
	if resolveErr != nil {
		return resolveErr.Error()
	}
	return text
}
