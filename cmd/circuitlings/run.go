package circuitlings

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/circuitlings/circuitlings/internal/completion"
	"github.com/circuitlings/circuitlings/internal/manifest"
)

func newRunCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   runCommandUse,
		Short: runCommandShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			rt, runtimeErr := newRuntime(command, options)
			if runtimeErr != nil {
				return runtimeErr
			}
			exercise, findErr := rt.findExercise(args[0])
			if findErr != nil {
				return findErr
			}

			outcome := rt.orchestrator.Run(command.Context(), exercise)
			if outcome.Failed() {
				return fmt.Errorf("exercise %s failed at stage %s", exercise.Name, outcome.Stage)
			}

			// The pipeline passed; remind the user if the source still
			// carries the not-done marker.
			state, stateErr := completion.DetectFile(rt.fileSystem, exercise.Path)
			if stateErr != nil {
				return stateErr
			}
			if !state.Done {
				printPendingContext(command, exercise, state)
			}
			return nil
		},
	}
}

func printPendingContext(command *cobra.Command, exercise manifest.Exercise, state completion.State) {
	out := command.OutOrStdout()
	fmt.Fprintf(out, "\nYou can keep working on %s, or remove the marker to move on:\n", exercise.Path)
	for _, line := range state.Context {
		prefix := " "
		if line.IsMarker {
			prefix = ">"
		}
		fmt.Fprintf(out, "%s %4d | %s\n", prefix, line.Number, line.Text)
	}
}
