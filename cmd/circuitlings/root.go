// Package circuitlings wires the runner's commands together.
package circuitlings

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath   string
	manifestPath string
	workspaceDir string
}

func newRootCommand() *cobra.Command {
	options := &rootOptions{}

	command := &cobra.Command{
		Use:           rootCommandUse,
		Short:         rootCommandShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	command.PersistentFlags().StringVar(&options.configPath, configFlagName, "", configFlagUsage)
	command.PersistentFlags().StringVar(&options.manifestPath, manifestFlagName, "", manifestFlagUsage)
	command.PersistentFlags().StringVar(&options.workspaceDir, workspaceFlagName, "", workspaceFlagUsage)

	command.AddCommand(
		newRunCommand(options),
		newVerifyCommand(options),
		newListCommand(options),
		newHintCommand(options),
		newResetCommand(options),
	)
	return command
}

// Execute runs the CLI and returns the first command error.
func Execute() error {
	return newRootCommand().Execute()
}
