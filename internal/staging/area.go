// Package staging materializes a working compilation unit from an
// exercise's source file, ready for the compiler toolkit.
package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/circuitlings/circuitlings/internal/manifest"
)

// ErrStaging reports a working-area creation or file copy failure. Distinct
// from compiler errors; it always aborts the current exercise's pipeline
// and is never retried automatically.
var ErrStaging = errors.New("stage exercise")

const (
	sourceDirName       = "src"
	sourceFileName      = "main.nr"
	inputFileName       = "Prover.toml"
	packageManifestName = "Nargo.toml"

	// TargetDirName is where the toolkit and prover place build artifacts
	// inside a staged unit.
	TargetDirName = "target"

	directoryPermissions = 0o755
	filePermissions      = 0o644

	packageManifestTemplate = "[package]\nname = %q\ntype = \"bin\"\n"
)

// Unit is an opaque handle for a staged working unit, passed to the
// compiler toolkit and the prover.
type Unit struct {
	Root    string
	Package string
}

// ArtifactPath is the compiled circuit artifact for the unit.
func (unit Unit) ArtifactPath() string {
	return filepath.Join(unit.Root, TargetDirName, unit.Package+".json")
}

// WitnessPath is the deterministic witness location for an exercise name.
func (unit Unit) WitnessPath(exerciseName string) string {
	return filepath.Join(unit.Root, TargetDirName, exerciseName+".gz")
}

// Area is a dedicated working package directory, overwritten per exercise.
// Concurrent runs targeting the same area are unsafe; callers serialize, or
// give each run instance its own area root.
type Area struct {
	fileSystem  afero.Fs
	root        string
	packageName string
}

// NewArea roots an area at the given directory. The package takes its name
// from the directory's base name.
func NewArea(fileSystem afero.Fs, root string) Area {
	return Area{fileSystem: fileSystem, root: root, packageName: filepath.Base(root)}
}

// Root returns the area's root directory.
func (area Area) Root() string { return area.root }

// Stage copies the exercise source into the area's fixed source location,
// writes the input payload to the fixed input location when one is given
// (writing for inlined payloads, copying for referenced ones), and returns
// the handle for the staged unit. Previous contents are overwritten.
func (area Area) Stage(exercise manifest.Exercise, payload *manifest.ConfigPayload) (Unit, error) {
	sourceDir := filepath.Join(area.root, sourceDirName)
	if mkdirErr := area.fileSystem.MkdirAll(sourceDir, directoryPermissions); mkdirErr != nil {
		return Unit{}, fmt.Errorf("%w: create working directory %q: %w", ErrStaging, sourceDir, mkdirErr)
	}

	packageManifest := fmt.Sprintf(packageManifestTemplate, area.packageName)
	packageManifestPath := filepath.Join(area.root, packageManifestName)
	if writeErr := afero.WriteFile(area.fileSystem, packageManifestPath, []byte(packageManifest), filePermissions); writeErr != nil {
		return Unit{}, fmt.Errorf("%w: write %s: %w", ErrStaging, packageManifestName, writeErr)
	}

	source, readErr := afero.ReadFile(area.fileSystem, exercise.Path)
	if readErr != nil {
		return Unit{}, fmt.Errorf("%w: exercise source %q: %w", ErrStaging, exercise.Path, readErr)
	}
	stagedSourcePath := filepath.Join(sourceDir, sourceFileName)
	if writeErr := afero.WriteFile(area.fileSystem, stagedSourcePath, source, filePermissions); writeErr != nil {
		return Unit{}, fmt.Errorf("%w: write %q: %w", ErrStaging, stagedSourcePath, writeErr)
	}

	if payload != nil {
		if stageErr := area.stageInput(*payload); stageErr != nil {
			return Unit{}, stageErr
		}
	}
	return Unit{Root: area.root, Package: area.packageName}, nil
}

func (area Area) stageInput(payload manifest.ConfigPayload) error {
	inputPath := filepath.Join(area.root, inputFileName)

	if referencedPath, referenced := payload.Path(); referenced {
		content, readErr := afero.ReadFile(area.fileSystem, referencedPath)
		if readErr != nil {
			return fmt.Errorf("%w: copy input payload %q: %w", ErrStaging, referencedPath, readErr)
		}
		if writeErr := afero.WriteFile(area.fileSystem, inputPath, content, filePermissions); writeErr != nil {
			return fmt.Errorf("%w: write %q: %w", ErrStaging, inputPath, writeErr)
		}
		return nil
	}

	text, resolveErr := payload.Resolve(area.fileSystem)
	if resolveErr != nil {
		return fmt.Errorf("%w: %w", ErrStaging, resolveErr)
	}
	// Written through a uniquely-named scratch file and renamed into place
	// so a failed write cannot leave a truncated input behind.
	return area.withScratch(func(scratchPath string) error {
		if writeErr := afero.WriteFile(area.fileSystem, scratchPath, []byte(text), filePermissions); writeErr != nil {
			return fmt.Errorf("%w: write %q: %w", ErrStaging, scratchPath, writeErr)
		}
		if renameErr := area.fileSystem.Rename(scratchPath, inputPath); renameErr != nil {
			return fmt.Errorf("%w: place %q: %w", ErrStaging, inputPath, renameErr)
		}
		return nil
	})
}

// Clean removes the staged source and input files, leaving build artifacts
// under the target directory in place.
func (area Area) Clean() error {
	stagedSourcePath := filepath.Join(area.root, sourceDirName, sourceFileName)
	if removeErr := area.fileSystem.Remove(stagedSourcePath); removeErr != nil && !os.IsNotExist(removeErr) {
		return fmt.Errorf("%w: remove %q: %w", ErrStaging, stagedSourcePath, removeErr)
	}
	inputPath := filepath.Join(area.root, inputFileName)
	if removeErr := area.fileSystem.Remove(inputPath); removeErr != nil && !os.IsNotExist(removeErr) {
		return fmt.Errorf("%w: remove %q: %w", ErrStaging, inputPath, removeErr)
	}
	return nil
}
