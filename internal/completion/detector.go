// Package completion decides whether an exercise still needs work by
// scanning its source for the "I AM NOT DONE" sentinel comment.
//
// The check is intentionally shallow: a user can make an exercise look done
// by deleting the marker without solving anything. Compiling would be the
// only authoritative check, and that is both costly and counterintuitive
// here, so the result is advisory.
package completion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// contextRadius is the number of lines shown on each side of the marker.
const contextRadius = 2

var markerPattern = regexp.MustCompile(`(?i)^\s*//[/!]?\s*I\s+AM\s+NOT\s+DONE`)

// ContextLine is one line of the excerpt surrounding a pending marker.
type ContextLine struct {
	Text     string
	Number   int // 1-based
	IsMarker bool
}

// State reports whether an exercise looks complete. A pending state carries
// a bounded excerpt around the marker rather than the whole file.
type State struct {
	Done    bool
	Context []ContextLine
}

// Detect scans source text line by line for the first sentinel marker.
// No marker means Done. Otherwise the result is Pending with a context
// window of 2*contextRadius+1 lines clipped at the file bounds, exactly one
// of which is flagged as the marker line.
func Detect(source string) State {
	lines := splitLines(source)

	markerIndex := -1
	for index, line := range lines {
		if markerPattern.MatchString(line) {
			markerIndex = index
			break
		}
	}
	if markerIndex < 0 {
		return State{Done: true}
	}

	low := markerIndex - contextRadius
	if low < 0 {
		low = 0
	}
	high := markerIndex + contextRadius
	if high > len(lines)-1 {
		high = len(lines) - 1
	}

	context := make([]ContextLine, 0, high-low+1)
	for index := low; index <= high; index++ {
		context = append(context, ContextLine{
			Text:     lines[index],
			Number:   index + 1,
			IsMarker: index == markerIndex,
		})
	}
	return State{Context: context}
}

// DetectFile reads the exercise source through the filesystem and detects
// its state. The state is recomputed on every call; source files change
// between invocations, so nothing is cached. An unreadable exercise file is
// an environment defect surfaced to the caller.
func DetectFile(fileSystem afero.Fs, path string) (State, error) {
	source, readErr := afero.ReadFile(fileSystem, path)
	if readErr != nil {
		return State{}, fmt.Errorf("read exercise source %q: %w", path, readErr)
	}
	return Detect(string(source)), nil
}

// splitLines behaves like iterating a file's lines: a trailing newline does
// not produce a final empty line.
func splitLines(source string) []string {
	if source == "" {
		return nil
	}
	trimmed := strings.TrimSuffix(source, "\n")
	trimmed = strings.TrimSuffix(trimmed, "\r")
	lines := strings.Split(trimmed, "\n")
	for index, line := range lines {
		lines[index] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
