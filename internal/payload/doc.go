// Package payload defines the unit of data that travels between elements.
//
// An Item couples an opaque value with the frame serial it belongs to. A
// null Item carries no value; it is published when an element legitimately
// produces nothing for a frame so that consumers waiting on a per-frame
// barrier are not starved.
package payload
