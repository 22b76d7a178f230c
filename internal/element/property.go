package element

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/specialistvlad/framegraph/internal/event"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Property describes one configurable value of an element.
type Property struct {
	Name        string
	Type        cty.Type
	Description string
	Get         func() cty.Value
	// Set is nil for read-only properties. It receives a value already
	// converted to Type.
	Set func(cty.Value) error
}

func (p Property) validate() error {
	if p.Name == "" {
		return errors.New("property with empty name")
	}
	if p.Type == cty.NilType {
		return fmt.Errorf("property %q has no type", p.Name)
	}
	if p.Get == nil {
		return fmt.Errorf("property %q has no getter", p.Name)
	}
	return nil
}

// Properties returns the element's property descriptors in declaration
// order.
func (e *Element) Properties() []Property {
	out := make([]Property, 0, len(e.propOrder))
	for _, name := range e.propOrder {
		out = append(out, e.props[name])
	}
	return out
}

// Property returns the current value of the named property.
func (e *Element) Property(name string) (cty.Value, error) {
	p, ok := e.props[name]
	if !ok {
		return cty.NilVal, fmt.Errorf("element %q: %w %q", e.name, ErrUnknownProperty, name)
	}
	return p.Get(), nil
}

// SetProperty converts v to the property's type and applies it. A
// property_changed event is emitted on success. It is safe to call while
// the pipeline runs if the unit keeps its configuration in Settings.
func (e *Element) SetProperty(name string, v cty.Value) error {
	p, ok := e.props[name]
	if !ok {
		return fmt.Errorf("element %q: %w %q", e.name, ErrUnknownProperty, name)
	}
	if p.Set == nil {
		return fmt.Errorf("element %q: %w %q", e.name, ErrReadOnlyProperty, name)
	}
	converted, err := convert.Convert(v, p.Type)
	if err != nil {
		return fmt.Errorf("element %q: property %q wants %s: %w", e.name, name, p.Type.FriendlyName(), err)
	}
	if !converted.IsKnown() || converted.IsNull() {
		return fmt.Errorf("element %q: property %q cannot be null", e.name, name)
	}
	if err := p.Set(converted); err != nil {
		return fmt.Errorf("element %q: property %q: %w", e.name, name, err)
	}
	e.publish(event.Event{Kind: event.PropertyChanged, Property: name, Value: FormatValue(converted)})
	return nil
}

// FormatValue renders a cty value as JSON for logs and events.
func FormatValue(v cty.Value) string {
	if v == cty.NilVal {
		return "null"
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return fmt.Sprintf("<%s>", v.Type().FriendlyName())
	}
	return string(b)
}

// NumberProperty builds a number-typed property over plain Go accessors.
func NumberProperty(name, description string, get func() float64, set func(float64) error) Property {
	p := Property{
		Name:        name,
		Type:        cty.Number,
		Description: description,
		Get:         func() cty.Value { return cty.NumberFloatVal(get()) },
	}
	if set != nil {
		p.Set = func(v cty.Value) error {
			f, _ := v.AsBigFloat().Float64()
			return set(f)
		}
	}
	return p
}

// IntProperty builds a whole-number property.
func IntProperty(name, description string, get func() int64, set func(int64) error) Property {
	p := Property{
		Name:        name,
		Type:        cty.Number,
		Description: description,
		Get:         func() cty.Value { return cty.NumberIntVal(get()) },
	}
	if set != nil {
		p.Set = func(v cty.Value) error {
			bf := v.AsBigFloat()
			if !bf.IsInt() {
				return fmt.Errorf("%s is not a whole number", bf.Text('g', -1))
			}
			i, acc := bf.Int64()
			if acc != big.Exact {
				return fmt.Errorf("%s is out of range", bf.Text('g', -1))
			}
			return set(i)
		}
	}
	return p
}

// StringProperty builds a string-typed property.
func StringProperty(name, description string, get func() string, set func(string) error) Property {
	p := Property{
		Name:        name,
		Type:        cty.String,
		Description: description,
		Get:         func() cty.Value { return cty.StringVal(get()) },
	}
	if set != nil {
		p.Set = func(v cty.Value) error { return set(v.AsString()) }
	}
	return p
}

// BoolProperty builds a bool-typed property.
func BoolProperty(name, description string, get func() bool, set func(bool) error) Property {
	p := Property{
		Name:        name,
		Type:        cty.Bool,
		Description: description,
		Get:         func() cty.Value { return cty.BoolVal(get()) },
	}
	if set != nil {
		p.Set = func(v cty.Value) error { return set(v.True()) }
	}
	return p
}
