package manifest

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

// ErrConfigRead reports a referenced input payload whose file could not be
// opened or read. The caller should abort the current exercise; the read is
// never retried.
var ErrConfigRead = errors.New("read referenced input payload")

type payloadKind int

const (
	payloadInlined payloadKind = iota
	payloadReferenced
)

// ConfigPayload carries circuit input text either inline or as a path
// reference into the surrounding repository. Construction never touches the
// filesystem; only Resolve does.
type ConfigPayload struct {
	kind  payloadKind
	value string
}

// InlinedPayload wraps literal input text.
func InlinedPayload(text string) ConfigPayload {
	return ConfigPayload{kind: payloadInlined, value: text}
}

// ReferencedPayload records a path to be read at resolve time.
func ReferencedPayload(path string) ConfigPayload {
	return ConfigPayload{kind: payloadReferenced, value: path}
}

// Inlined reports whether the payload holds literal text.
func (payload ConfigPayload) Inlined() bool {
	return payload.kind == payloadInlined
}

// Path returns the referenced path when the payload is a reference.
func (payload ConfigPayload) Path() (string, bool) {
	if payload.kind != payloadReferenced {
		return "", false
	}
	return payload.value, true
}

// Resolve returns the payload text. Inlined payloads resolve without I/O;
// referenced payloads are read fully from the provided filesystem.
func (payload ConfigPayload) Resolve(fileSystem afero.Fs) (string, error) {
	if payload.kind == payloadInlined {
		return payload.value, nil
	}
	content, readErr := afero.ReadFile(fileSystem, payload.value)
	if readErr != nil {
		return "", fmt.Errorf("%w %q: %w", ErrConfigRead, payload.value, readErr)
	}
	return string(content), nil
}
