package hcl

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/framegraph/internal/config"
	"github.com/specialistvlad/framegraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translatePipeline decodes the pipeline block attribute by attribute.
func translatePipeline(ctx context.Context, b *pipelineBlock) (*config.Pipeline, error) {
	attrs, diags := b.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("pipeline: %w", diags)
	}
	p := &config.Pipeline{Source: b.Body.MissingItemRange().String()}

	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("pipeline %s: %w", name, diags)
		}
		var err error
		switch name {
		case "workers":
			err = decode(ctx, val, &p.Workers)
		case "max_stages":
			err = decode(ctx, val, &p.MaxStages)
		case "frames":
			err = decode(ctx, val, &p.Frames)
		case "tick":
			p.Tick, err = decodeDuration(ctx, val)
		case "drain_timeout":
			p.DrainTimeout, err = decodeDuration(ctx, val)
		default:
			err = fmt.Errorf("unknown setting")
		}
		if err != nil {
			return nil, fmt.Errorf("%s: pipeline %s: %w", attr.Range, name, err)
		}
	}
	return p, nil
}

// decode converts val to the cty type implied by the Go target and stores
// it there.
func decode(ctx context.Context, val cty.Value, target any) error {
	if val.IsNull() {
		return fmt.Errorf("value must not be null")
	}
	ty, err := gocty.ImpliedType(target)
	if err != nil {
		return err
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return fmt.Errorf("cannot convert %s to %s: %w", val.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	if !val.Type().Equals(converted.Type()) {
		ctxlog.FromContext(ctx).Debug("Implicitly converted value type.",
			"from", val.Type().FriendlyName(),
			"to", converted.Type().FriendlyName(),
		)
	}
	return gocty.FromCtyValue(converted, target)
}

// decodeDuration accepts a Go duration string such as "10ms".
func decodeDuration(ctx context.Context, val cty.Value) (time.Duration, error) {
	var s string
	if err := decode(ctx, val, &s); err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return d, nil
}

