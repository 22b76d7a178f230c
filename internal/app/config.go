package app

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// PipelinePath is a pipeline file or a directory of them.
	PipelinePath string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Scheduler overrides. Zero values keep the pipeline file's settings.
	Workers      int
	MaxStages    int
	Tick         time.Duration
	Frames       uint64
	DrainTimeout time.Duration
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 0 || cfg.MaxStages < 0 || cfg.Tick < 0 || cfg.DrainTimeout < 0 {
		return nil, errors.New("scheduler settings must not be negative")
	}
	if _, err := newLogger(cfg.LogLevel, cfg.LogFormat, io.Discard); err != nil {
		return nil, err
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
