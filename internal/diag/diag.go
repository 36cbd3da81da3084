package diag

import (
	"fmt"
	"io"
	"sync"
)

// Kind classifies a recoverable condition observed during resolution.
type Kind string

const (
	MalformedLine           Kind = "malformed_line"
	UnresolvedIdentifier    Kind = "unresolved_identifier"
	MissingMeshResource     Kind = "missing_mesh_resource"
	UnknownParentBone       Kind = "unknown_parent_bone"
	BoneCycle               Kind = "bone_cycle"
	AmbiguousSlotTie        Kind = "ambiguous_slot_tie"
	EmptyConnectorBoneGroup Kind = "empty_connector_bone_group"
	OrphanConnector         Kind = "orphan_connector"
)

// Event is one diagnostic emitted by the assembly pipeline.
// Source names the descriptor block, identifier, or bone involved.
type Event struct {
	Kind   Kind
	Source string
	Detail string
}

// Sink receives diagnostic events. Implementations must tolerate
// concurrent calls when shared across batch workers.
type Sink interface {
	Record(Event)
}

// Discard drops all events.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(Event) {}

// Writer prints each event as one line to an io.Writer.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter creates a line-printing sink.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Record(e Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "  [%s] %s: %s\n", e.Kind, e.Source, e.Detail)
}

// Collector accumulates events in memory so tests can assert on them.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Record(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

// Events returns a copy of all recorded events in order.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// ByKind returns the recorded events of one kind, in order.
func (c *Collector) ByKind(k Kind) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, e := range c.events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}
