// Package trace implements the optional profiler façade of spec.md §6:
// named Begin/End scopes that accumulate into a Chrome-trace-format JSON
// array, each event carrying a wall-clock timestamp/duration and a
// heap-size snapshot.
//
// Grounded on original_source/includes/profiler.h + src/profiler.c:
// TraceBuffer/TraceEvent/ResourceMetrics map onto Buffer/Event/Metrics
// below, trace_event_begin/trace_event_end onto Begin/End, and
// trace_buffer_to_json onto MarshalJSON's {name, ph, ts, dur, args} shape
// (spec.md §6's "File formats (exposed)" fixes this field set exactly).
package trace

import (
	"encoding/json"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Metrics is a point-in-time resource snapshot, the Go analogue of
// ResourceMetrics (no CPU-time/disk-IO syscalls portable across
// platforms, so this keeps only what package runtime can report cheaply
// everywhere: heap bytes in use, standing in for the original's RSS).
type Metrics struct {
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
}

func snapshot() Metrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Metrics{HeapAllocBytes: m.HeapAlloc}
}

// Humanize renders m's heap size the way `--stats` output does,
// grounded on grafana-tempo/cmd/tempo-cli/cmd-list-block.go's
// `humanize.Bytes(...)` calls.
func (m Metrics) Humanize() string {
	return humanize.Bytes(m.HeapAllocBytes)
}

// event is one Begin or End record, serialized into the Chrome-trace
// event shape spec.md §6 fixes.
type event struct {
	Name      string  `json:"name"`
	Phase     string  `json:"ph"`
	Timestamp int64   `json:"ts"`
	Duration  int64   `json:"dur,omitempty"`
	Args      Metrics `json:"args"`
}

type openScope struct {
	name  string
	start time.Time
}

// Buffer accumulates Begin/End events for one pipeline invocation. The
// zero value is ready to use.
type Buffer struct {
	id     uuid.UUID
	epoch  time.Time
	events []event
	open   []openScope
}

// New returns a Buffer tagged with a fresh invocation id
// (grounded on server/dao/sqlite/sessions.go's `uuid.NewRandom()` use for
// entity ids), with its epoch set to now.
func New() *Buffer {
	id, _ := uuid.NewRandom()
	return &Buffer{id: id, epoch: time.Now()}
}

// ID returns the Buffer's invocation id.
func (b *Buffer) ID() uuid.UUID {
	return b.id
}

func (b *Buffer) micros(t time.Time) int64 {
	return t.Sub(b.epoch).Microseconds()
}

// Begin opens a named scope, mirroring trace_event_begin.
func (b *Buffer) Begin(name string) {
	now := time.Now()
	b.open = append(b.open, openScope{name: name, start: now})
	b.events = append(b.events, event{
		Name:      name,
		Phase:     "B",
		Timestamp: b.micros(now),
		Args:      snapshot(),
	})
}

// End closes the most recently opened scope matching name, mirroring
// trace_event_end's innermost-match search. A call with no matching open
// scope is a no-op rather than a fatal error, since a profiler is
// optional instrumentation and should never be able to crash a compile.
func (b *Buffer) End(name string) {
	for i := len(b.open) - 1; i >= 0; i-- {
		if b.open[i].name != name {
			continue
		}
		start := b.open[i].start
		b.open = append(b.open[:i], b.open[i+1:]...)

		now := time.Now()
		b.events = append(b.events, event{
			Name:      name,
			Phase:     "E",
			Timestamp: b.micros(now),
			Duration:  now.Sub(start).Microseconds(),
			Args:      snapshot(),
		})
		return
	}
}

// Scope begins name and returns a func that ends it, so a caller can
// write `defer trace.Scope(buf, "parse")()` around a pipeline stage.
func Scope(b *Buffer, name string) func() {
	b.Begin(name)
	return func() { b.End(name) }
}

// JSON renders the accumulated events as a Chrome-trace-format JSON
// array, mirroring trace_buffer_to_json.
func (b *Buffer) JSON() ([]byte, error) {
	events := b.events
	if events == nil {
		events = []event{}
	}
	return json.MarshalIndent(events, "", "  ")
}
