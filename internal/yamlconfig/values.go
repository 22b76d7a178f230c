package yamlconfig

import (
	"fmt"
	"math/big"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// toCtyObject converts decoded YAML properties into property values.
func toCtyObject(props map[string]any) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value, len(props))
	for k, v := range props {
		cv, err := toCty(v)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		out[k] = cv
	}
	return out, nil
}

// toCty maps the values produced by yaml.v3 onto cty. Sequences become
// tuples and mappings become objects so that mixed element types survive.
func toCty(v any) (cty.Value, error) {
	switch v := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case bool:
		return cty.BoolVal(v), nil
	case string:
		return cty.StringVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case uint64:
		return cty.NumberUIntVal(v), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	case *big.Int:
		return cty.NumberVal(new(big.Float).SetInt(v)), nil
	case time.Time:
		return cty.StringVal(v.Format(time.RFC3339Nano)), nil
	case []any:
		if len(v) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, len(v))
		for i, item := range v {
			cv, err := toCty(item)
			if err != nil {
				return cty.NilVal, fmt.Errorf("index %d: %w", i, err)
			}
			vals[i] = cv
		}
		return cty.TupleVal(vals), nil
	case map[string]any:
		if len(v) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs, err := toCtyObject(v)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.ObjectVal(attrs), nil
	case map[any]any:
		conv := make(map[string]any, len(v))
		for k, item := range v {
			conv[fmt.Sprint(k)] = item
		}
		return toCty(conv)
	default:
		return cty.NilVal, fmt.Errorf("unsupported YAML value of type %T", v)
	}
}
