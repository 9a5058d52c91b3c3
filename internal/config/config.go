// Package config resolves runner settings from defaults, an optional
// configuration file and CIRCUITLINGS_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	configurationName       = "circuitlings"
	configurationType       = "yaml"
	environmentPrefix       = "CIRCUITLINGS"
	homeConfigDirectory     = ".circuitlings"
	homeEnvironmentVariable = "HOME"

	manifestPathKey   = "manifest"
	workspaceDirKey   = "workspace"
	compilerBinaryKey = "tools.compiler"
	proverBinaryKey   = "tools.prover"
	gitBinaryKey      = "tools.git"
	logLevelKey       = "logging.level"

	defaultManifestPath   = "info.toml"
	defaultWorkspaceDir   = "workbench"
	defaultCompilerBinary = "nargo"
	defaultProverBinary   = "bb"
	defaultGitBinary      = "git"
	defaultLogLevel       = "info"
)

// Settings holds everything the commands need to assemble a run.
type Settings struct {
	ManifestPath   string
	WorkspaceDir   string
	CompilerBinary string
	ProverBinary   string
	GitBinary      string
	LogLevel       string
}

// Load resolves settings. An explicit path must be readable; otherwise the
// loader falls back through the working directory and $HOME/.circuitlings
// to built-in defaults. Environment variables override file values.
func Load(fileSystem afero.Fs, explicitPath string) (Settings, error) {
	loader := viper.New()
	loader.SetFs(fileSystem)

	loader.SetDefault(manifestPathKey, defaultManifestPath)
	loader.SetDefault(workspaceDirKey, defaultWorkspaceDir)
	loader.SetDefault(compilerBinaryKey, defaultCompilerBinary)
	loader.SetDefault(proverBinaryKey, defaultProverBinary)
	loader.SetDefault(gitBinaryKey, defaultGitBinary)
	loader.SetDefault(logLevelKey, defaultLogLevel)

	loader.SetEnvPrefix(environmentPrefix)
	loader.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	loader.AutomaticEnv()

	if explicitPath != "" {
		loader.SetConfigFile(explicitPath)
		if readErr := loader.ReadInConfig(); readErr != nil {
			return Settings{}, fmt.Errorf("read configuration %s: %w", explicitPath, readErr)
		}
	} else {
		loader.SetConfigName(configurationName)
		loader.SetConfigType(configurationType)
		loader.AddConfigPath(".")
		if homeDirectory := os.Getenv(homeEnvironmentVariable); homeDirectory != "" {
			loader.AddConfigPath(filepath.Join(homeDirectory, homeConfigDirectory))
		}
		if readErr := loader.ReadInConfig(); readErr != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(readErr, &notFound) {
				return Settings{}, fmt.Errorf("read configuration: %w", readErr)
			}
		}
	}

	return Settings{
		ManifestPath:   loader.GetString(manifestPathKey),
		WorkspaceDir:   loader.GetString(workspaceDirKey),
		CompilerBinary: loader.GetString(compilerBinaryKey),
		ProverBinary:   loader.GetString(proverBinaryKey),
		GitBinary:      loader.GetString(gitBinaryKey),
		LogLevel:       loader.GetString(logLevelKey),
	}, nil
}
