package testutil

import (
	"sync"

	"github.com/specialistvlad/framegraph/internal/payload"
)

// Entry is one thing a test unit did.
type Entry struct {
	Element string
	// Call is init, start, stop, deinit, run or recv.
	Call   string
	Serial uint64
	// Port and Item are set for recv entries.
	Port string
	Item payload.Item
}

// Journal records what test units do. It is safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
}

// Add appends an entry.
func (j *Journal) Add(e Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
}

// Entries returns a copy of every entry in insertion order.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Entry(nil), j.entries...)
}

// Calls returns the call names recorded for element.
func (j *Journal) Calls(element string) []string {
	var out []string
	for _, e := range j.Entries() {
		if e.Element == element && e.Call != "recv" {
			out = append(out, e.Call)
		}
	}
	return out
}

// Lifecycle returns the init, start, stop and deinit calls of element.
func (j *Journal) Lifecycle(element string) []string {
	var out []string
	for _, c := range j.Calls(element) {
		if c != "run" {
			out = append(out, c)
		}
	}
	return out
}

// Runs returns the serials element ran for, in order.
func (j *Journal) Runs(element string) []uint64 {
	var out []uint64
	for _, e := range j.Entries() {
		if e.Element == element && e.Call == "run" {
			out = append(out, e.Serial)
		}
	}
	return out
}

// Received returns the items element consumed on port, in order.
func (j *Journal) Received(element, port string) []payload.Item {
	var out []payload.Item
	for _, e := range j.Entries() {
		if e.Element == element && e.Call == "recv" && e.Port == port {
			out = append(out, e.Item)
		}
	}
	return out
}

// Serials returns the serials of items.
func Serials(items []payload.Item) []uint64 {
	out := make([]uint64, 0, len(items))
	for _, it := range items {
		out = append(out, it.Serial)
	}
	return out
}
