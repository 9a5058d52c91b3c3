package manifest_test

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/circuitlings/circuitlings/internal/manifest"
)

func TestConfigPayload_ResolveInlined(t *testing.T) {
	payloadText := "a = '1'\nb = '2'"
	payload := manifest.InlinedPayload(payloadText)

	// Resolving an inlined payload does no I/O, so no filesystem is needed,
	// and repeated resolution returns the text unchanged.
	for attempt := 0; attempt < 2; attempt++ {
		text, resolveErr := payload.Resolve(nil)
		if resolveErr != nil {
			t.Fatalf("resolve inlined payload: %v", resolveErr)
		}
		if text != payloadText {
			t.Fatalf("expected %q, got %q", payloadText, text)
		}
	}
}

func TestConfigPayload_ResolveReferenced(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	payloadPath := "inputs/prover.toml"
	payloadText := "x = '42'\n"
	if writeErr := afero.WriteFile(fileSystem, payloadPath, []byte(payloadText), 0o644); writeErr != nil {
		t.Fatalf("write payload file: %v", writeErr)
	}

	text, resolveErr := manifest.ReferencedPayload(payloadPath).Resolve(fileSystem)
	if resolveErr != nil {
		t.Fatalf("resolve referenced payload: %v", resolveErr)
	}
	if text != payloadText {
		t.Fatalf("expected %q, got %q", payloadText, text)
	}
}

func TestConfigPayload_ResolveMissingReference(t *testing.T) {
	fileSystem := afero.NewMemMapFs()

	_, resolveErr := manifest.ReferencedPayload("inputs/absent.toml").Resolve(fileSystem)
	if resolveErr == nil {
		t.Fatalf("expected resolution to fail")
	}
	if !errors.Is(resolveErr, manifest.ErrConfigRead) {
		t.Fatalf("expected ErrConfigRead, got %v", resolveErr)
	}
}
