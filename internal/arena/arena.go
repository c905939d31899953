// Package arena implements the bump allocator spec.md §6 names as a
// consumed interface: allocate N bytes, grow a region by copying it into a
// fresh one, tag the arena with a name for debug output, and free
// everything at once when the owning invocation ends.
//
// Go's garbage collector already makes the original's per-node lifetime
// problem (spec.md §5's "no individual lifetime tracking is required")
// moot for ast.Node/sema.Symbol/tac.Instruction — those stay ordinary
// Go-allocated values, collected normally. What a Go rewrite keeps is the
// one place the original's arena shape maps onto real work: a single
// source file's bytes, read once and held for the lifetime of the
// compile, growing geometrically the way original_source/includes/
// allocator.h's arena_alloc/arena_realloc do. internal/reader is the
// concrete consumer.
package arena

import "fmt"

// Stats mirrors the original's ArenaStats: running counters kept only
// when debug mode is enabled (spec.md §6 "optional stats counters...
// when debug mode is enabled").
type Stats struct {
	TotalAllocated  uint64
	CurrentUsage    uint64
	AllocationCount uint64
	ReallocCount    uint64
}

// Arena is a bump allocator over a single growable backing buffer. The
// zero value is not usable; construct with New.
type Arena struct {
	tag   string
	debug bool
	buf   []byte
	stats Stats
}

// New returns an Arena tagged with name, with stats tracking disabled.
func New(tag string) *Arena {
	return &Arena{tag: tag}
}

// NewDebug returns an Arena tagged with name, with stats tracking
// enabled (original_source/includes/allocator.h's ARENA_DEBUG_MODE).
func NewDebug(tag string) *Arena {
	return &Arena{tag: tag, debug: true}
}

// Tag returns the arena's debug name.
func (a *Arena) Tag() string {
	return a.tag
}

// Alloc returns a fresh, zeroed region of n bytes backed by the arena's
// buffer. The returned slice is only valid until the next Alloc/Realloc
// call grows the backing buffer, mirroring the original's "valid only for
// the arena's lifetime" contract.
func (a *Arena) Alloc(n int) []byte {
	start := len(a.buf)
	a.buf = append(a.buf, make([]byte, n)...)
	if a.debug {
		a.stats.TotalAllocated += uint64(n)
		a.stats.CurrentUsage += uint64(n)
		a.stats.AllocationCount++
	}
	return a.buf[start : start+n : start+n]
}

// Realloc grows old (previously returned by Alloc, from oldSize to
// newSize) preserving its content, mirroring arena_realloc. If newSize <=
// oldSize the original region is truncated in place; otherwise a fresh
// region is allocated and the content copied, since a bump allocator
// cannot grow in place once anything else has been allocated after it.
func (a *Arena) Realloc(old []byte, oldSize, newSize int) []byte {
	if newSize <= oldSize {
		if a.debug {
			diff := uint64(oldSize - newSize)
			a.stats.ReallocCount++
			if a.stats.CurrentUsage >= diff {
				a.stats.CurrentUsage -= diff
			} else {
				a.stats.CurrentUsage = 0
			}
		}
		return old[:newSize]
	}
	fresh := a.Alloc(newSize)
	copy(fresh, old[:oldSize])
	if a.debug {
		a.stats.ReallocCount++
	}
	return fresh
}

// Reset frees the whole arena's backing buffer, mirroring
// allocator_reset/arena_free. Stats counters are cleared along with it.
func (a *Arena) Reset() {
	a.buf = nil
	a.stats = Stats{}
}

// Stats returns the arena's running counters and whether debug tracking
// is enabled; the Stats value is the zero value when it is not.
func (a *Arena) Stats() (Stats, bool) {
	return a.stats, a.debug
}

// Report renders the same one-line summary
// original_source/includes/allocator.h's allocator_stats_log writes to
// stderr in debug builds.
func (a *Arena) Report() string {
	tag := a.tag
	if tag == "" {
		tag = "(unnamed)"
	}
	return fmt.Sprintf(
		"[arena %s] total=%d current=%d allocs=%d reallocs=%d",
		tag, a.stats.TotalAllocated, a.stats.CurrentUsage,
		a.stats.AllocationCount, a.stats.ReallocCount,
	)
}
