package manifest

import (
	"errors"
	"fmt"
)

const (
	buildModeTag          = "build"
	testModeTag           = "test"
	executeModeKey        = "execute"
	proveOnlyModeKey      = "proveOnly"
	proveAndVerifyModeKey = "proveAndVerify"
	inlinedPayloadKey     = "inlined"
	pathPayloadKey        = "path"
	tomlFileOptionKey     = "tomlFile"
	saveFilesOptionKey    = "saveFiles"
)

// Mode decoding errors. A malformed manifest entry is a load-time defect;
// nothing is defaulted silently.
var (
	ErrUnknownModeTag   = errors.New("unknown mode tag")
	ErrUnknownModeField = errors.New("unknown mode field")
	ErrInvalidModeShape = errors.New("invalid mode shape")
)

// ModeKind enumerates the five execution strategies an exercise can select.
type ModeKind int

const (
	ModeBuild ModeKind = iota
	ModeExecute
	ModeProveOnly
	ModeProveAndVerify
	ModeTest
)

// Mode is the closed tagged union describing how an exercise runs. Exactly
// one variant per exercise; payload-carrying variants hold a ConfigPayload
// and ProveAndVerify additionally carries the intermediate-file retention
// flag.
type Mode struct {
	kind      ModeKind
	payload   ConfigPayload
	carries   bool
	saveFiles bool
}

// BuildMode selects a plain compilation run.
func BuildMode() Mode { return Mode{kind: ModeBuild} }

// TestMode selects a run of the exercise's embedded tests.
func TestMode() Mode { return Mode{kind: ModeTest} }

// ExecuteMode selects a witness-producing run with the given inputs.
func ExecuteMode(payload ConfigPayload) Mode {
	return Mode{kind: ModeExecute, payload: payload, carries: true}
}

// ProveOnlyMode selects execution followed by proof creation.
func ProveOnlyMode(payload ConfigPayload) Mode {
	return Mode{kind: ModeProveOnly, payload: payload, carries: true}
}

// ProveAndVerifyMode selects execution, proving and verification. saveFiles
// controls whether intermediate artifacts are retained afterwards.
func ProveAndVerifyMode(payload ConfigPayload, saveFiles bool) Mode {
	return Mode{kind: ModeProveAndVerify, payload: payload, carries: true, saveFiles: saveFiles}
}

// Kind returns the selected variant.
func (mode Mode) Kind() ModeKind { return mode.kind }

// Payload returns the carried input payload, if the variant has one.
func (mode Mode) Payload() (ConfigPayload, bool) {
	return mode.payload, mode.carries
}

// SaveFiles reports whether intermediate artifacts should be retained.
// Meaningful only for ProveAndVerify.
func (mode Mode) SaveFiles() bool { return mode.saveFiles }

func (mode Mode) String() string {
	switch mode.kind {
	case ModeBuild:
		return buildModeTag
	case ModeExecute:
		return executeModeKey
	case ModeProveOnly:
		return proveOnlyModeKey
	case ModeProveAndVerify:
		return proveAndVerifyModeKey
	case ModeTest:
		return testModeTag
	}
	return "unknown"
}

// DecodeMode turns the manifest's untyped mode value into a Mode. The value
// is either a bare string tag or a table with exactly one recognized key
// naming a variant and carrying its payload. Decoding is total and
// side-effect-free: referenced payload paths are stored, not resolved.
func DecodeMode(value any) (Mode, error) {
	switch typed := value.(type) {
	case string:
		return decodeModeTag(typed)
	case map[string]any:
		return decodeModeTable(typed)
	default:
		return Mode{}, fmt.Errorf("%w: expected string or table, got %T", ErrInvalidModeShape, value)
	}
}

func decodeModeTag(tag string) (Mode, error) {
	switch tag {
	case buildModeTag:
		return BuildMode(), nil
	case testModeTag:
		return TestMode(), nil
	default:
		return Mode{}, fmt.Errorf("%w: %q", ErrUnknownModeTag, tag)
	}
}

func decodeModeTable(table map[string]any) (Mode, error) {
	if len(table) != 1 {
		return Mode{}, fmt.Errorf("%w: expected exactly one variant key, got %d", ErrInvalidModeShape, len(table))
	}
	for key, value := range table {
		switch key {
		case executeModeKey:
			payload, payloadErr := decodePayloadDescriptor(value)
			if payloadErr != nil {
				return Mode{}, fmt.Errorf("%s: %w", executeModeKey, payloadErr)
			}
			return ExecuteMode(payload), nil
		case proveOnlyModeKey:
			payload, payloadErr := decodePayloadDescriptor(value)
			if payloadErr != nil {
				return Mode{}, fmt.Errorf("%s: %w", proveOnlyModeKey, payloadErr)
			}
			return ProveOnlyMode(payload), nil
		case proveAndVerifyModeKey:
			return decodeProveAndVerifyOptions(value)
		default:
			return Mode{}, fmt.Errorf("%w: %q", ErrUnknownModeField, key)
		}
	}
	return Mode{}, fmt.Errorf("%w: empty table", ErrInvalidModeShape)
}

func decodePayloadDescriptor(value any) (ConfigPayload, error) {
	descriptor, ok := value.(map[string]any)
	if !ok {
		return ConfigPayload{}, fmt.Errorf("%w: payload descriptor must be a table, got %T", ErrInvalidModeShape, value)
	}
	if len(descriptor) != 1 {
		return ConfigPayload{}, fmt.Errorf("%w: payload descriptor needs exactly one of %q or %q", ErrInvalidModeShape, inlinedPayloadKey, pathPayloadKey)
	}
	for key, raw := range descriptor {
		text, isString := raw.(string)
		if !isString {
			return ConfigPayload{}, fmt.Errorf("%w: payload %q must be a string, got %T", ErrInvalidModeShape, key, raw)
		}
		switch key {
		case inlinedPayloadKey:
			return InlinedPayload(text), nil
		case pathPayloadKey:
			return ReferencedPayload(text), nil
		default:
			return ConfigPayload{}, fmt.Errorf("%w: %q", ErrUnknownModeField, key)
		}
	}
	return ConfigPayload{}, fmt.Errorf("%w: empty payload descriptor", ErrInvalidModeShape)
}

func decodeProveAndVerifyOptions(value any) (Mode, error) {
	options, ok := value.(map[string]any)
	if !ok {
		return Mode{}, fmt.Errorf("%w: %s options must be a table, got %T", ErrInvalidModeShape, proveAndVerifyModeKey, value)
	}
	var (
		payload      ConfigPayload
		payloadSeen  bool
		saveFiles    bool
		saveFileSeen bool
	)
	for key, raw := range options {
		switch key {
		case tomlFileOptionKey:
			decoded, payloadErr := decodePayloadDescriptor(raw)
			if payloadErr != nil {
				return Mode{}, fmt.Errorf("%s: %w", tomlFileOptionKey, payloadErr)
			}
			payload = decoded
			payloadSeen = true
		case saveFilesOptionKey:
			flag, isBool := raw.(bool)
			if !isBool {
				return Mode{}, fmt.Errorf("%w: %s must be a boolean, got %T", ErrInvalidModeShape, saveFilesOptionKey, raw)
			}
			saveFiles = flag
			saveFileSeen = true
		default:
			return Mode{}, fmt.Errorf("%w: %q", ErrUnknownModeField, key)
		}
	}
	if !payloadSeen || !saveFileSeen {
		return Mode{}, fmt.Errorf("%w: %s needs both %q and %q", ErrInvalidModeShape, proveAndVerifyModeKey, tomlFileOptionKey, saveFilesOptionKey)
	}
	return ProveAndVerifyMode(payload, saveFiles), nil
}
