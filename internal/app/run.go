package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/framegraph/internal/builder"
	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/specialistvlad/framegraph/internal/scheduler"
)

// Run loads the pipeline, builds its graph and runs it until ctx is
// cancelled, the frame limit is reached or an element fails.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	model, err := a.loadPipeline(ctx)
	if err != nil {
		return err
	}

	a.logger.Debug("Building pipeline graph from config model...")
	g, err := builder.Build(ctx, model, a.registry)
	if err != nil {
		return fmt.Errorf("failed to build pipeline graph: %w", err)
	}
	a.logger.Debug("Pipeline graph built.", "element_count", len(g.Elements()))

	cfg := a.schedulerConfig(model.Pipeline)
	sched, err := scheduler.New(g, cfg, scheduler.WithMetrics(a.metrics))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if a.config.HealthcheckPort > 0 {
		if err := a.startDiagnosticsServer(g.Events()); err != nil {
			return err
		}
		defer func() { _ = a.closeDiagnosticsServer(context.WithoutCancel(ctx)) }()
	} else {
		a.logger.Debug("Health check server not started: disabled")
	}

	a.logger.Info("🚀 Starting pipeline...", "workers", cfg.Workers, "max_stages", cfg.MaxStages, "tick", cfg.Tick, "frames", cfg.Frames)
	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}
	stats := sched.Stats()
	a.logger.Info("🏁 Pipeline finished.", "frames", stats.Completed)

	a.logger.Debug("App.Run method finished.")
	return nil
}
