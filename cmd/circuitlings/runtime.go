package circuitlings

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/circuitlings/circuitlings/internal/config"
	"github.com/circuitlings/circuitlings/internal/manifest"
	"github.com/circuitlings/circuitlings/internal/orchestrator"
	"github.com/circuitlings/circuitlings/internal/prover"
	"github.com/circuitlings/circuitlings/internal/staging"
	"github.com/circuitlings/circuitlings/internal/toolkit"
)

// runtime is everything a command needs for one invocation: resolved
// settings, the loaded manifest and an assembled orchestrator.
type runtime struct {
	settings     config.Settings
	fileSystem   afero.Fs
	logger       *zap.Logger
	exercises    []manifest.Exercise
	orchestrator orchestrator.Orchestrator
	resetter     orchestrator.Resetter
}

func newRuntime(command *cobra.Command, options *rootOptions) (runtime, error) {
	fileSystem := afero.NewOsFs()

	settings, settingsErr := config.Load(fileSystem, options.configPath)
	if settingsErr != nil {
		return runtime{}, settingsErr
	}
	if options.manifestPath != "" {
		settings.ManifestPath = options.manifestPath
	}
	if options.workspaceDir != "" {
		settings.WorkspaceDir = options.workspaceDir
	}

	logger, loggerErr := buildLogger(settings.LogLevel)
	if loggerErr != nil {
		return runtime{}, loggerErr
	}

	exercises, loadErr := manifest.Load(fileSystem, settings.ManifestPath)
	if loadErr != nil {
		return runtime{}, loadErr
	}

	area := staging.NewArea(fileSystem, settings.WorkspaceDir)
	return runtime{
		settings:   settings,
		fileSystem: fileSystem,
		logger:     logger,
		exercises:  exercises,
		orchestrator: orchestrator.Orchestrator{
			FileSystem: fileSystem,
			Area:       area,
			Toolkit:    toolkit.NewNargo(settings.CompilerBinary),
			Prover:     prover.NewClient(settings.ProverBinary, fileSystem),
			Logger:     logger,
			Out:        command.OutOrStdout(),
		},
		resetter: orchestrator.NewResetter(settings.GitBinary),
	}, nil
}

func (rt runtime) findExercise(name string) (manifest.Exercise, error) {
	exercise, found := manifest.Find(rt.exercises, name)
	if !found {
		return manifest.Exercise{}, fmt.Errorf("no exercise named %q in %s", name, rt.settings.ManifestPath)
	}
	return exercise, nil
}

func buildLogger(level string) (*zap.Logger, error) {
	parsedLevel, parseErr := zapcore.ParseLevel(level)
	if parseErr != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, parseErr)
	}
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(parsedLevel)
	return loggerConfig.Build()
}
