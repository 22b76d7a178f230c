package port

import (
	"fmt"

	"github.com/specialistvlad/framegraph/internal/connection"
)

// Connect links out to in with a new connection. On error neither port is
// modified.
func Connect(id connection.ID, out *Output, in *Input) (*connection.Connection, error) {
	if out.owner == in.owner {
		return nil, fmt.Errorf("%s -> %s: %w", out, in, ErrSelfConnection)
	}
	if out.typ != in.typ {
		return nil, fmt.Errorf("%s (%s) -> %s (%s): %w", out, out.typ, in, in.typ, ErrIncompatibleType)
	}
	if in.conn != nil {
		return nil, fmt.Errorf("%s already fed by connection %d: %w", in, in.conn.ID(), ErrDuplicateConnection)
	}

	c := connection.New(id, out.Endpoint(), in.Endpoint(), out.typ, in.async)
	in.conn = c
	out.conns = append(out.conns, c)
	return c, nil
}

// Disconnect detaches c from both ports.
func Disconnect(c *connection.Connection, out *Output, in *Input) error {
	if in.conn != c {
		return fmt.Errorf("%s: %w by connection %d", in, ErrNotConnected, c.ID())
	}
	idx := -1
	for i, oc := range out.conns {
		if oc == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%s: %w by connection %d", out, ErrNotConnected, c.ID())
	}

	in.conn = nil
	out.conns = append(out.conns[:idx], out.conns[idx+1:]...)
	return nil
}
