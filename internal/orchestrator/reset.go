package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/circuitlings/circuitlings/internal/command"
	"github.com/circuitlings/circuitlings/internal/manifest"
)

// Resetter discards local edits to an exercise's source file by shelling
// out to version control. Success or failure is reported, never retried.
type Resetter struct {
	GitBinary string
	Runner    command.Runner
}

// NewResetter builds a resetter around the configured git binary.
func NewResetter(gitBinary string) Resetter {
	return Resetter{GitBinary: gitBinary, Runner: command.NewExec()}
}

// Reset stashes the exercise file's local changes.
func (resetter Resetter) Reset(ctx context.Context, exercise manifest.Exercise) error {
	result, runErr := resetter.Runner.Run(ctx, "", resetter.GitBinary, "stash", "--", exercise.Path)
	if runErr != nil {
		diagnostic := strings.TrimSpace(result.Stderr)
		if diagnostic == "" {
			diagnostic = runErr.Error()
		}
		return fmt.Errorf("reset %s: %s", exercise.Path, diagnostic)
	}
	return nil
}
