package port

import (
	"fmt"

	"github.com/specialistvlad/framegraph/internal/payload"
)

// Direction tells inputs from outputs.
type Direction int

const (
	// DirInput marks a port that receives items.
	DirInput Direction = iota
	// DirOutput marks a port that publishes items.
	DirOutput
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == DirOutput {
		return "output"
	}
	return "input"
}

// Decl declares one port of an element.
type Decl struct {
	Name string
	Dir  Direction
	Type payload.Type
	// Optional inputs may stay unconnected.
	Optional bool
	// Async inputs are left out of the frame barrier.
	Async bool
}

// DeclOption adjusts an input declaration.
type DeclOption func(*Decl)

// Optional lets the input stay unconnected.
func Optional() DeclOption {
	return func(d *Decl) { d.Optional = true }
}

// Async excludes the input from the frame barrier. Async inputs are always
// optional.
func Async() DeclOption {
	return func(d *Decl) {
		d.Async = true
		d.Optional = true
	}
}

// In declares an input port.
func In(name string, typ payload.Type, opts ...DeclOption) Decl {
	d := Decl{Name: name, Dir: DirInput, Type: typ}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Out declares an output port.
func Out(name string, typ payload.Type) Decl {
	return Decl{Name: name, Dir: DirOutput, Type: typ}
}

// ValidateDecls checks a declaration list for empty or duplicate names and
// missing type tags.
func ValidateDecls(decls []Decl) error {
	seen := make(map[string]struct{}, len(decls))
	for _, d := range decls {
		if d.Name == "" {
			return fmt.Errorf("%s port with empty name", d.Dir)
		}
		if d.Type == "" {
			return fmt.Errorf("port %q has no type tag", d.Name)
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("port %q declared twice", d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	return nil
}
