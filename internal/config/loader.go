package config

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/specialistvlad/framegraph/internal/fsutil"
)

// Loader is implemented by format-specific pipeline loaders.
type Loader interface {
	// Extensions lists the file extensions the loader reads, dot included.
	Extensions() []string
	// LoadFile translates one file into a model.
	LoadFile(ctx context.Context, path string) (*Model, error)
}

// Load reads every file under paths that one of the loaders understands and
// merges the results. A directory is searched recursively; a file is read
// by the loader owning its extension.
func Load(ctx context.Context, loaders []Loader, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	byExt := make(map[string]Loader)
	var exts []string
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			byExt[ext] = l
			exts = append(exts, ext)
		}
	}

	var files []string
	seen := make(map[string]bool)
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("pipeline path: %w", err)
		}
		found, err := fsutil.FindFilesByExtension(path, exts...)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", path, err)
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no pipeline files with extensions %v found in %v", exts, paths)
	}
	logger.Debug("Discovered pipeline files.", "count", len(files))

	model := &Model{}
	for _, f := range files {
		m, err := byExt[fsutil.Ext(f, exts...)].LoadFile(ctx, f)
		if err != nil {
			return nil, err
		}
		if err := model.Merge(m); err != nil {
			return nil, err
		}
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Pipeline description loaded.", "elements", len(model.Elements), "connections", len(model.Connections))
	return model, nil
}
