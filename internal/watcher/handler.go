package watcher

import (
	"context"
	"log"
	"time"

	"github.com/kestrelfs/iosvault/internal/fs"
	"github.com/kestrelfs/iosvault/internal/librarybridge"
)

// Handler owns the per-location coalescing state described in spec.md §3.
// Construct one per watched location with [New]; dropping it (letting it be
// garbage collected) is safe — no durable state is kept beyond this process,
// so a restart relies on the platform watcher's full rescan (spec.md §5).
type Handler struct {
	locationID int64
	bridge     librarybridge.Bridge
	fsys       fs.FS
	clock      Clock
	logger     *log.Logger

	filesToUpdate       map[string]time.Time
	reincidentToUpdate  map[string]time.Time
	newPathsMap         map[uint64]instantPath
	oldPathsMap         map[uint64]instantPath
	toRecalculateSize   map[string]time.Time
	latestCreatedDir    string
	renameEventQueue    []instantPath // FIFO; oldest enqueued folder-create first
	lastEvictionCheck   time.Time
}

// New constructs a [Handler] for locationID, backed by bridge for all
// library mutations and fsys for filesystem metadata lookups.
//
// logger may be nil, in which case the handler is silent. Per spec.md §9
// "Secret handling" this package never has access to key material to begin
// with, so there is nothing extra to guard against logging here.
func New(locationID int64, bridge librarybridge.Bridge, fsys fs.FS, clock Clock, logger *log.Logger) *Handler {
	if clock == nil {
		clock = RealClock{}
	}

	return &Handler{
		locationID:         locationID,
		bridge:             bridge,
		fsys:               fsys,
		clock:              clock,
		logger:             logger,
		filesToUpdate:      make(map[string]time.Time),
		reincidentToUpdate: make(map[string]time.Time),
		newPathsMap:        make(map[uint64]instantPath),
		oldPathsMap:        make(map[uint64]instantPath),
		toRecalculateSize:  make(map[string]time.Time),
		lastEvictionCheck:  clock.Now(),
	}
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

// markParentForRecompute records path's parent directory in
// to_recalculate_size, skipping paths with no meaningful parent component
// (spec.md §3 invariant: "to_recalculate_size contains only non-empty
// parent paths").
func (h *Handler) markParentForRecompute(path string) {
	parent := parentOf(path)
	if parent == "" {
		return
	}

	h.toRecalculateSize[parent] = h.clock.Now()
}

// Tick drives every periodic subsystem: the update coalescer (§4.2), the
// rename pairer's eviction passes (§4.3), and the size recomputer (§4.5).
// It is throttled to [TickThrottle] (spec.md §3 "last_eviction_check") so
// callers can invoke it as often as convenient (e.g. every platform-watcher
// poll) without doing redundant work.
func (h *Handler) Tick(ctx context.Context) {
	if h.clock.Now().Sub(h.lastEvictionCheck) <= TickThrottle {
		return
	}

	// Each sub-pass is independently logged-and-swallowed (spec.md §7:
	// "Errors during tick sub-passes are logged and swallowed per sub-pass
	// so other sub-passes still run").
	if err := h.evictUpdates(ctx); err != nil {
		h.logf("watcher: update eviction: %v", err)
	}

	if err := h.evictRenameCreates(ctx); err != nil {
		h.logf("watcher: rename-create eviction: %v", err)
	}

	if err := h.evictRenameRemoves(ctx); err != nil {
		h.logf("watcher: rename-remove eviction: %v", err)
	}

	if len(h.toRecalculateSize) > 0 {
		if err := h.recalculateSizes(ctx); err != nil {
			h.logf("watcher: size recompute: %v", err)
		}
	}

	h.lastEvictionCheck = h.clock.Now()
}
