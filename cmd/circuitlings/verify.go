package circuitlings

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/circuitlings/circuitlings/internal/completion"
)

func newVerifyCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   verifyCommandUse,
		Short: verifyCommandShort,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, args []string) error {
			rt, runtimeErr := newRuntime(command, options)
			if runtimeErr != nil {
				return runtimeErr
			}
			out := command.OutOrStdout()

			for index, exercise := range rt.exercises {
				state, stateErr := completion.DetectFile(rt.fileSystem, exercise.Path)
				if stateErr != nil {
					return stateErr
				}
				if !state.Done {
					printPendingContext(command, exercise, state)
					fmt.Fprintf(out, "\nProgress: %d/%d exercises done.\n", index, len(rt.exercises))
					return fmt.Errorf("exercise %s is still pending", exercise.Name)
				}

				outcome := rt.orchestrator.Run(command.Context(), exercise)
				if outcome.Failed() {
					fmt.Fprintf(out, "\nProgress: %d/%d exercises done.\n", index, len(rt.exercises))
					return fmt.Errorf("exercise %s failed at stage %s", exercise.Name, outcome.Stage)
				}
			}

			// Leave the working area tidy; artifacts under target/ stay.
			_ = rt.orchestrator.Area.Clean()
			fmt.Fprintf(out, "All %d exercises passed. Well done!\n", len(rt.exercises))
			return nil
		},
	}
}
