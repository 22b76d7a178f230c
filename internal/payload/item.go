package payload

import (
	"fmt"
	"reflect"
)

// Item is a single serial-tagged value queued on a connection.
type Item struct {
	// Serial identifies the logical frame the item belongs to.
	Serial uint64
	// Value is the opaque payload. It is nil for null items.
	Value any
	// Null marks "no data produced this frame".
	Null bool
}

// New returns a data item for the given frame.
func New(serial uint64, v any) Item {
	return Item{Serial: serial, Value: v}
}

// NullItem returns a null item for the given frame.
func NullItem(serial uint64) Item {
	return Item{Serial: serial, Null: true}
}

// String implements fmt.Stringer.
func (i Item) String() string {
	if i.Null {
		return fmt.Sprintf("#%d <null>", i.Serial)
	}
	return fmt.Sprintf("#%d %v", i.Serial, i.Value)
}

// As returns the item's value as T. It fails for null items and for values
// of another type.
func As[T any](i Item) (T, error) {
	var zero T
	if i.Null {
		return zero, fmt.Errorf("item #%d is null", i.Serial)
	}
	v, ok := i.Value.(T)
	if !ok {
		return zero, fmt.Errorf("item #%d holds %T, not %s", i.Serial, i.Value, reflect.TypeFor[T]())
	}
	return v, nil
}
