// Package manifest loads the exercise manifest and decodes its
// loosely-typed mode values into a closed variant model.
package manifest

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// ErrManifestLoad reports an unreadable or malformed exercise manifest.
// Manifest problems halt the whole load; a partially decoded exercise list
// is never returned.
var ErrManifestLoad = errors.New("load exercise manifest")

// Exercise is one teaching unit: a named source file, the mode selecting
// its pipeline, and a hint for the user. Immutable once loaded; Path is a
// reference into the surrounding repository, not a copy.
type Exercise struct {
	Name string
	Path string
	Mode Mode
	Hint string
}

type rawExercise struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
	Mode any    `toml:"mode"`
	Hint string `toml:"hint"`
}

type rawManifest struct {
	Exercises []rawExercise `toml:"exercises"`
}

// Load reads and decodes the manifest at the given path. Names must be
// unique within the manifest and every mode value must decode; the first
// malformed entry fails the load.
func Load(fileSystem afero.Fs, path string) ([]Exercise, error) {
	content, readErr := afero.ReadFile(fileSystem, path)
	if readErr != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrManifestLoad, path, readErr)
	}
	return Decode(content)
}

// Decode parses manifest content. Exposed separately so tests and embedded
// manifests can skip the filesystem.
func Decode(content []byte) ([]Exercise, error) {
	var raw rawManifest
	if unmarshalErr := toml.Unmarshal(content, &raw); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestLoad, unmarshalErr)
	}
	if len(raw.Exercises) == 0 {
		return nil, fmt.Errorf("%w: no exercises declared", ErrManifestLoad)
	}

	seenNames := make(map[string]struct{}, len(raw.Exercises))
	exercises := make([]Exercise, 0, len(raw.Exercises))
	for index, entry := range raw.Exercises {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: exercise %d has no name", ErrManifestLoad, index)
		}
		if entry.Path == "" {
			return nil, fmt.Errorf("%w: exercise %q has no path", ErrManifestLoad, entry.Name)
		}
		if _, duplicate := seenNames[entry.Name]; duplicate {
			return nil, fmt.Errorf("%w: duplicate exercise name %q", ErrManifestLoad, entry.Name)
		}
		seenNames[entry.Name] = struct{}{}

		mode, modeErr := DecodeMode(entry.Mode)
		if modeErr != nil {
			return nil, fmt.Errorf("%w: exercise %q: %w", ErrManifestLoad, entry.Name, modeErr)
		}
		exercises = append(exercises, Exercise{
			Name: entry.Name,
			Path: entry.Path,
			Mode: mode,
			Hint: entry.Hint,
		})
	}
	return exercises, nil
}

// Find returns the exercise with the given name.
func Find(exercises []Exercise, name string) (Exercise, bool) {
	for _, exercise := range exercises {
		if exercise.Name == name {
			return exercise, true
		}
	}
	return Exercise{}, false
}
