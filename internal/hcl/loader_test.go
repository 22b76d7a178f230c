package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/framegraph/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const pipelineHCL = `
pipeline {
  workers       = 4
  max_stages    = "3"
  tick          = "5ms"
  frames        = 10
  drain_timeout = "2s"
}

element "counter" "src" {
  start = 1
  limit = 5 * 2
}

element "scale" "double" {
  factor = 2.5
  label  = "x2"
}

element "print" "out" {}

connect {
  from = "src.out"
  to   = "double.in"
}

connect {
  from = "double.out"
  to   = "out.in"
}
`

func TestLoadSource(t *testing.T) {
	m, err := NewLoader().LoadSource(context.Background(), []byte(pipelineHCL), "test.hcl")
	require.NoError(t, err)

	require.NotNil(t, m.Pipeline)
	assert.Equal(t, 4, m.Pipeline.Workers)
	assert.Equal(t, 3, m.Pipeline.MaxStages, "strings convert to numbers")
	assert.Equal(t, 5*time.Millisecond, m.Pipeline.Tick)
	assert.Equal(t, uint64(10), m.Pipeline.Frames)
	assert.Equal(t, 2*time.Second, m.Pipeline.DrainTimeout)

	require.Len(t, m.Elements, 3)
	assert.Equal(t, "counter", m.Elements[0].Type)
	assert.Equal(t, "src", m.Elements[0].Name)
	assert.True(t, m.Elements[0].Properties["limit"].RawEquals(cty.NumberIntVal(10)))
	assert.True(t, m.Elements[1].Properties["label"].RawEquals(cty.StringVal("x2")))
	assert.Empty(t, m.Elements[2].Properties)

	require.Len(t, m.Connections, 2)
	assert.Equal(t, config.Endpoint{Element: "src", Port: "out"}, m.Connections[0].From)
	assert.Equal(t, config.Endpoint{Element: "out", Port: "in"}, m.Connections[1].To)
	assert.Contains(t, m.Connections[0].Source, "test.hcl")

	require.NoError(t, m.Validate())
}

func TestLoadSourceErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `element "a" {`, "failed to parse"},
		{"unknown block", `widget "x" {}`, "failed to decode"},
		{"two pipelines", "pipeline {}\npipeline {}", "only one pipeline block"},
		{"unknown setting", `pipeline { speed = 3 }`, "unknown setting"},
		{"bad duration", `pipeline { tick = "soon" }`, "pipeline tick"},
		{"bad workers", `pipeline { workers = "many" }`, "pipeline workers"},
		{"variable in property", `element "a" "b" { x = var.y }`, "property \"x\""},
		{"bad endpoint", "connect {\n from = \"a\"\n to = \"b.in\"\n}", "element.port"},
		{"missing to", "connect {\n from = \"a.out\"\n}", `connect block requires "to"`},
		{"missing from", "connect {\n to = \"b.in\"\n}", `connect block requires "from"`},
		{"null to", "connect {\n from = \"a.out\"\n to = null\n}", `connect block requires "to"`},
		{"number endpoint", "connect {\n from = 3\n to = \"b.in\"\n}", "element.port"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().LoadSource(context.Background(), []byte(tc.src), "bad.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFileThroughConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(pipelineHCL), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	m, err := config.Load(context.Background(), []config.Loader{NewLoader()}, dir)
	require.NoError(t, err)
	assert.Len(t, m.Elements, 3)
	assert.Equal(t, []string{".hcl"}, NewLoader().Extensions())
}
