// Package watcher implements the iOS filesystem watcher event-coalescing
// engine (spec.md §§2-5, 8): it turns a noisy, lossy, out-of-order stream of
// platform filesystem notifications into a consistent series of library
// mutations.
//
// One [Handler] owns all state for a single watched location. Its
// [Handler.HandleEvent] and [Handler.Tick] methods are never called
// concurrently with themselves or each other (spec.md §5) — callers are
// responsible for that serialization, typically by running a single
// location's handler on its own goroutine fed by a channel.
package watcher

import "time"

// Kind classifies a raw platform filesystem event (spec.md §4.1).
type Kind int

const (
	// KindCreateFolder: a new directory appeared.
	KindCreateFolder Kind = iota
	// KindCreateFile: a new file appeared.
	KindCreateFile
	// KindModifyContent: a file's content changed.
	KindModifyContent
	// KindModifyWriteTime: a file's write-time metadata changed.
	KindModifyWriteTime
	// KindModifyExtended: a file's extended attributes changed.
	KindModifyExtended
	// KindModifyMetadataAny: iOS's stand-in for a delete event (spec.md §4.1,
	// "iOS-specific metadata-change-on-missing-file signal").
	KindModifyMetadataAny
	// KindModifyNameAny: a name-change notification; routed to the folder
	// rename handler when the path has a non-trivial parent, otherwise
	// falls through like any other rename half-event.
	KindModifyNameAny
	// KindOther: anything not enumerated above; treated as a single rename
	// half-event (spec.md §4.1 "anything else").
	KindOther
)

// Event is a raw platform filesystem notification (spec.md §6 upstream
// contract). Paths is non-empty; only index 0 is ever consulted.
type Event struct {
	Kind  Kind
	Paths []string
}

// instantPath pairs a path with the [Clock] time it was last observed; it is
// the value type of new_paths_map, old_paths_map (spec.md §3).
type instantPath struct {
	at   time.Time
	path string
}

// Coalescing windows (spec.md §4.2, §4.3). These are compile-time constants;
// no configuration setting changes them.
const (
	// UpdateWindow is the regular-update eviction window (spec.md §4.2 pass 1).
	UpdateWindow = 500 * time.Millisecond

	// ReincidentWindow bounds worst-case write-to-index latency for a path
	// under continuous write pressure (spec.md §4.2 pass 2).
	ReincidentWindow = 10 * time.Second

	// RenamePairWindow is how long a rename half-event waits for its sibling
	// before the rename pairer treats it as a genuine create/remove
	// (spec.md §4.3 eviction).
	RenamePairWindow = 100 * time.Millisecond

	// TickThrottle throttles how often [Handler.Tick] does real work
	// (spec.md §3 "last_eviction_check").
	TickThrottle = 100 * time.Millisecond
)
