package circuitlings

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/circuitlings/circuitlings/internal/completion"
)

func newListCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   listCommandUse,
		Short: listCommandShort,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, args []string) error {
			rt, runtimeErr := newRuntime(command, options)
			if runtimeErr != nil {
				return runtimeErr
			}
			out := command.OutOrStdout()

			for _, exercise := range rt.exercises {
				state, stateErr := completion.DetectFile(rt.fileSystem, exercise.Path)
				if stateErr != nil {
					return stateErr
				}
				stateLabel := doneStateLabel
				if !state.Done {
					stateLabel = pendingStateLabel
				}
				if _, writeErr := fmt.Fprintf(out, "%s\t(%s, mode=%s)\n", exercise.Name, stateLabel, exercise.Mode); writeErr != nil {
					return fmt.Errorf("write exercise listing: %w", writeErr)
				}
			}
			return nil
		},
	}
}
