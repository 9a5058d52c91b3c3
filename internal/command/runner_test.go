package command_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/circuitlings/circuitlings/internal/command"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX shell")
	}
}

func TestExec_CapturesBothStreams(t *testing.T) {
	requireShell(t)
	runner := command.NewExec()

	result, runErr := runner.Run(context.Background(), "", "sh", "-c", "echo out; echo err 1>&2")
	if runErr != nil {
		t.Fatalf("Run: %v", runErr)
	}
	if strings.TrimSpace(result.Stdout) != "out" {
		t.Fatalf("unexpected stdout %q", result.Stdout)
	}
	if strings.TrimSpace(result.Stderr) != "err" {
		t.Fatalf("unexpected stderr %q", result.Stderr)
	}
	if result.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d", result.ExitCode)
	}
}

func TestExec_NonZeroExitIsAnError(t *testing.T) {
	requireShell(t)
	runner := command.NewExec()

	result, runErr := runner.Run(context.Background(), "", "sh", "-c", "echo diagnostics 1>&2; exit 3")
	if runErr == nil {
		t.Fatalf("expected an error for a non-zero exit")
	}
	if result.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", result.ExitCode)
	}
	if strings.TrimSpace(result.Stderr) != "diagnostics" {
		t.Fatalf("expected captured stderr, got %q", result.Stderr)
	}
}

func TestExec_MissingBinary(t *testing.T) {
	runner := command.NewExec()

	result, runErr := runner.Run(context.Background(), "", "definitely-not-a-real-binary")
	if runErr == nil {
		t.Fatalf("expected an error for a missing binary")
	}
	if result.ExitCode != -1 {
		t.Fatalf("expected exit code -1, got %d", result.ExitCode)
	}
}

func TestExec_RunsInDirectory(t *testing.T) {
	requireShell(t)
	runner := command.NewExec()
	directory := t.TempDir()

	if writeErr := os.WriteFile(filepath.Join(directory, "probe"), []byte("present\n"), 0o644); writeErr != nil {
		t.Fatalf("write probe file: %v", writeErr)
	}

	result, runErr := runner.Run(context.Background(), directory, "sh", "-c", "cat probe")
	if runErr != nil {
		t.Fatalf("Run: %v", runErr)
	}
	if strings.TrimSpace(result.Stdout) != "present" {
		t.Fatalf("expected the command to run in %q, got %q", directory, result.Stdout)
	}
}
