package app

import (
	"io"

	"github.com/specialistvlad/framegraph/internal/registry"
	"github.com/specialistvlad/framegraph/modules/counter"
	"github.com/specialistvlad/framegraph/modules/gate"
	"github.com/specialistvlad/framegraph/modules/join"
	"github.com/specialistvlad/framegraph/modules/print"
	"github.com/specialistvlad/framegraph/modules/scale"
	"github.com/specialistvlad/framegraph/modules/socketio"
)

// coreModules is the definitive list of all modules that are compiled into
// the framegraph binary. print writes to out.
func coreModules(out io.Writer) []registry.Module {
	return []registry.Module{
		&counter.Module{},
		&scale.Module{},
		&gate.Module{},
		&join.Module{},
		&print.Module{Out: out},
		&socketio.Module{},
	}
}
