package app

import (
	"testing"

	"github.com/specialistvlad/framegraph/internal/registry"
	"github.com/specialistvlad/framegraph/internal/testutil"
)

// setupAppTest creates a new app instance for system testing. Logs and
// print output share the returned buffer.
func setupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	testApp := NewApp(logBuffer, cfg, modules...)
	testutil.DumpLogs(t, logBuffer)
	return testApp, logBuffer
}
