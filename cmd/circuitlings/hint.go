package circuitlings

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newHintCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   hintCommandUse,
		Short: hintCommandShort,
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
			hint := strings.TrimSpace(exercise.Hint)
			if hint == "" {
				hint = "No hint for this one. You've got this!"
			}
			fmt.Fprintln(command.OutOrStdout(), hint)
			return nil
		},
	}
}
