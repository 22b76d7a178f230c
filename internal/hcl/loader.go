package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/framegraph/internal/config"
	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates an HCL pipeline loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// LoadFile implements config.Loader.
func (l *Loader) LoadFile(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx).With("file", path)
	logger.Debug("Parsing HCL pipeline file.")

	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return l.decode(ctx, file.Body, path)
}

// LoadSource parses HCL held in memory; filename is used in diagnostics.
func (l *Loader) LoadSource(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %w", filename, diags)
	}
	return l.decode(ctx, file.Body, filename)
}

func (l *Loader) decode(ctx context.Context, body hcl.Body, path string) (*config.Model, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	model := &config.Model{}
	if len(root.Pipeline) > 1 {
		return nil, fmt.Errorf("%s: only one pipeline block is allowed", path)
	}
	for _, pb := range root.Pipeline {
		p, err := translatePipeline(ctx, pb)
		if err != nil {
			return nil, err
		}
		model.Pipeline = p
	}

	for _, eb := range root.Elements {
		e, err := translateElement(eb)
		if err != nil {
			return nil, err
		}
		model.Elements = append(model.Elements, e)
	}

	for _, cb := range root.Connects {
		c, err := translateConnect(cb)
		if err != nil {
			return nil, err
		}
		model.Connections = append(model.Connections, c)
	}

	ctxlog.FromContext(ctx).Debug("HCL pipeline file decoded.", "file", path, "elements", len(model.Elements), "connections", len(model.Connections))
	return model, nil
}

func translateElement(b *elementBlock) (*config.Element, error) {
	attrs, diags := b.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("element %q: %w", b.Name, diags)
	}
	e := &config.Element{
		Type:       b.Type,
		Name:       b.Name,
		Properties: make(map[string]cty.Value, len(attrs)),
		Source:     b.Body.MissingItemRange().String(),
	}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("element %q property %q: %w", b.Name, name, diags)
		}
		e.Properties[name] = val
	}
	return e, nil
}

func translateConnect(b *connectBlock) (*config.Connection, error) {
	from, err := endpointString("from", b.From)
	if err != nil {
		return nil, err
	}
	to, err := endpointString("to", b.To)
	if err != nil {
		return nil, err
	}
	src, err := config.ParseEndpoint(from)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.From.Range(), err)
	}
	dst, err := config.ParseEndpoint(to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.To.Range(), err)
	}
	return &config.Connection{From: src, To: dst, Source: b.From.Range().String()}, nil
}

// endpointString evaluates one endpoint attribute of a connect block. gohcl
// leaves an absent expression attribute as a null value.
func endpointString(attr string, expr hcl.Expression) (string, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("connect %s: %w", attr, diags)
	}
	if val.IsNull() {
		return "", fmt.Errorf("%s: connect block requires %q", expr.Range(), attr)
	}
	var s string
	if diags := gohcl.DecodeExpression(expr, nil, &s); diags.HasErrors() {
		return "", fmt.Errorf("connect %s: %w", attr, diags)
	}
	return s, nil
}
