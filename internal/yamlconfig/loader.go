package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/specialistvlad/framegraph/internal/config"
	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

type document struct {
	Pipeline    *pipelineDoc    `yaml:"pipeline"`
	Elements    []elementDoc    `yaml:"elements"`
	Connections []connectionDoc `yaml:"connections"`
}

type pipelineDoc struct {
	Workers      int      `yaml:"workers"`
	MaxStages    int      `yaml:"max_stages"`
	Tick         duration `yaml:"tick"`
	Frames       uint64   `yaml:"frames"`
	DrainTimeout duration `yaml:"drain_timeout"`
}

type elementDoc struct {
	Type       string         `yaml:"type"`
	Name       string         `yaml:"name"`
	Properties map[string]any `yaml:"properties"`
	line       int
}

type connectionDoc struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	line int
}

// duration decodes a Go duration string such as "250ms".
type duration time.Duration

func (d *duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = duration(v)
	return nil
}

func (e *elementDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain elementDoc
	if err := node.Decode((*plain)(e)); err != nil {
		return err
	}
	e.line = node.Line
	return nil
}

func (c *connectionDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain connectionDoc
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}
	c.line = node.Line
	return nil
}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a YAML pipeline loader.
func NewLoader() *Loader { return &Loader{} }

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// LoadFile implements config.Loader.
func (l *Loader) LoadFile(ctx context.Context, path string) (*config.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.Decode(ctx, f, path)
}

// Decode reads one YAML document from r; name is used in error messages.
func (l *Loader) Decode(ctx context.Context, r io.Reader, name string) (*config.Model, error) {
	ctxlog.FromContext(ctx).Debug("Parsing YAML pipeline file.", "file", name)

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &config.Model{}, nil
		}
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", name, err)
	}
	return translate(name, &doc)
}

// DecodeBytes is Decode over an in-memory document.
func (l *Loader) DecodeBytes(ctx context.Context, src []byte, name string) (*config.Model, error) {
	return l.Decode(ctx, bytes.NewReader(src), name)
}

func translate(name string, doc *document) (*config.Model, error) {
	m := &config.Model{}
	if p := doc.Pipeline; p != nil {
		m.Pipeline = &config.Pipeline{
			Workers:      p.Workers,
			MaxStages:    p.MaxStages,
			Tick:         time.Duration(p.Tick),
			Frames:       p.Frames,
			DrainTimeout: time.Duration(p.DrainTimeout),
			Source:       name,
		}
	}

	for _, ed := range doc.Elements {
		props, err := toCtyObject(ed.Properties)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: element %q: %w", name, ed.line, ed.Name, err)
		}
		m.Elements = append(m.Elements, &config.Element{
			Type:       ed.Type,
			Name:       ed.Name,
			Properties: props,
			Source:     fmt.Sprintf("%s:%d", name, ed.line),
		})
	}

	for _, cd := range doc.Connections {
		from, err := config.ParseEndpoint(cd.From)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, cd.line, err)
		}
		to, err := config.ParseEndpoint(cd.To)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, cd.line, err)
		}
		m.Connections = append(m.Connections, &config.Connection{
			From:   from,
			To:     to,
			Source: fmt.Sprintf("%s:%d", name, cd.line),
		})
	}
	return m, nil
}
