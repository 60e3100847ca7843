package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// testCommand points the catalog at a fresh temporary database and returns
// a command whose output is captured.
func testCommand(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	cfgFile = ""
	verbose = false
	t.Setenv("VALVEMAP_CATALOG_PATH", filepath.Join(t.TempDir(), "catalog.db"))
	t.Setenv("VALVEMAP_TELEMETRY_LOGGING_LEVEL", "error")
	return capturedCommand()
}

// capturedCommand returns a command whose output is captured, leaving the
// environment as it is.
func capturedCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())
	return cmd, &out
}

// copyTestdata copies the named testdata files into a new temporary
// directory and returns it.
func copyTestdata(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatalf("failed to read testdata %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}
