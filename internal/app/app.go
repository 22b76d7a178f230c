package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/framegraph/internal/config"
	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/specialistvlad/framegraph/internal/hcl"
	"github.com/specialistvlad/framegraph/internal/metrics"
	"github.com/specialistvlad/framegraph/internal/registry"
	"github.com/specialistvlad/framegraph/internal/yamlconfig"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	loaders  []config.Loader
	metrics  *metrics.Registry

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own logger, registry and metrics
// registry. With no modules given, the core modules are registered.
//
// A logging setup that NewConfig would reject, or an invalid module set, is a
// programming error and panics.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	if err != nil {
		panic(err)
	}
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := reg.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		loaders:  []config.Loader{hcl.NewLoader(), yamlconfig.NewLoader()},
		metrics:  metrics.NewRegistry(),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Metrics returns the application's metrics registry.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}
