package circuitlings

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   resetCommandUse,
		Short: resetCommandShort,
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
			if resetErr := rt.resetter.Reset(command.Context(), exercise); resetErr != nil {
				return resetErr
			}
			fmt.Fprintf(command.OutOrStdout(), "Reset %s to its original state.\n", exercise.Path)
			return nil
		},
	}
}
