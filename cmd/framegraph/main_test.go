package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/framegraph/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_InvalidPipeline(t *testing.T) {
	t.Parallel()

	invalidHCL := `
		element "counter" "src" {
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600))

	err := run(context.Background(), &bytes.Buffer{}, []string{filePath})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse")
}

func TestRun_Pipeline(t *testing.T) {
	t.Parallel()

	pipeline := `
element "counter" "src" {}
element "print" "out" {}
connect {
  from = "src.out"
  to   = "out.in"
}
`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(pipeline), 0600))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out := &bytes.Buffer{}
	err := run(ctx, out, []string{"-frames", "3", "-tick", "1ms", "-log-level", "error", filePath})
	require.NoError(t, err)
	require.Equal(t, "1 1\n2 2\n3 3\n", out.String())
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-h"})
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})
	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.True(t, strings.Contains(err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag"))
}
