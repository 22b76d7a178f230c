package payload

import "reflect"

// Type is the tag a port declares for the values it carries. Two ports can
// only be connected when their tags are equal.
type Type string

// Any is the tag for ports that accept values of every type.
const Any Type = "any"

// TypeOf returns the tag for Go type T.
func TypeOf[T any]() Type {
	return Type(reflect.TypeFor[T]().String())
}

// Common tags used by the bundled elements.
var (
	Number = TypeOf[float64]()
	String = TypeOf[string]()
	Bytes  = TypeOf[[]byte]()
)

// Accepts reports whether v may be published on a port tagged t.
func (t Type) Accepts(v any) bool {
	if t == Any {
		return true
	}
	if v == nil {
		return false
	}
	return Type(reflect.TypeOf(v).String()) == t
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}
