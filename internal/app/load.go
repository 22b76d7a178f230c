package app

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/framegraph/internal/config"
	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/specialistvlad/framegraph/internal/scheduler"
)

// loadPipeline reads the pipeline description with every known loader.
func (a *App) loadPipeline(ctx context.Context) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading pipeline...", "pipeline_path", a.config.PipelinePath)

	model, err := config.Load(ctx, a.loaders, a.config.PipelinePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline: %w", err)
	}
	logger.Info("Pipeline loaded successfully.", "elements", len(model.Elements), "connections", len(model.Connections))
	return model, nil
}

// schedulerConfig layers the defaults, the pipeline block and the CLI
// overrides, in that order.
func (a *App) schedulerConfig(p *config.Pipeline) scheduler.Config {
	cfg := scheduler.DefaultConfig()
	if p != nil {
		apply(&cfg, p.Workers, p.MaxStages, p.Tick, p.Frames, p.DrainTimeout)
	}
	c := a.config
	apply(&cfg, c.Workers, c.MaxStages, c.Tick, c.Frames, c.DrainTimeout)
	return cfg
}

func apply(cfg *scheduler.Config, workers, maxStages int, tick time.Duration, frames uint64, drain time.Duration) {
	if workers > 0 {
		cfg.Workers = workers
	}
	if maxStages > 0 {
		cfg.MaxStages = maxStages
	}
	if tick > 0 {
		cfg.Tick = tick
	}
	if frames > 0 {
		cfg.Frames = frames
	}
	if drain > 0 {
		cfg.DrainTimeout = drain
	}
}
