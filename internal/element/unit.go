package element

import (
	"context"

	"github.com/specialistvlad/framegraph/internal/port"
)

// Unit is the contract element authors implement.
type Unit interface {
	// Ports declares the element's ports. It is called once, when the
	// element is created.
	Ports() []port.Decl
	// Process performs one frame of work. It reads inputs and publishes
	// outputs through f.
	Process(ctx context.Context, f *Frame) error
}

// Initializer allocates internal resources.
type Initializer interface {
	Init(ctx context.Context) error
}

// Starter acquires external resources once every element is initialized.
type Starter interface {
	Start(ctx context.Context) error
}

// Stopper releases what Start acquired.
type Stopper interface {
	Stop(ctx context.Context) error
}

// Deinitializer releases what Init allocated.
type Deinitializer interface {
	Deinit(ctx context.Context) error
}

// Producer is implemented by elements that originate data. The scheduler
// asks it instead of checking inputs when the element has no connected
// inputs.
type Producer interface {
	ReadyToProduce() bool
}

// Configurable exposes an element's configuration as explicit descriptors.
type Configurable interface {
	Properties() []Property
}
