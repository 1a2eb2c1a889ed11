package watcher

import (
	"context"
	"fmt"
)

// evictUpdates drains files_to_update and reincident_to_update per
// spec.md §4.2: pass 1 evicts paths idle for at least [UpdateWindow], pass 2
// evicts reincident paths (under continuous write pressure) no later than
// [ReincidentWindow] after their oldest observed timestamp.
//
// Go's map iteration tolerates deleting the current key mid-range (unlike
// the source's HashMap, which spec.md §9 "Map iteration + mutation" notes
// needed a drain-then-reinsert scratch buffer to avoid invalidating its
// iterator) so each pass below deletes evicted entries in place instead of
// carrying that buffer over.
func (h *Handler) evictUpdates(ctx context.Context) error {
	now := h.clock.Now()
	shouldInvalidate := false

	for path, at := range h.filesToUpdate {
		if now.Sub(at) < UpdateWindow {
			continue
		}

		h.markParentForRecompute(path)
		delete(h.reincidentToUpdate, path)
		delete(h.filesToUpdate, path)

		if err := h.bridge.UpdateFile(ctx, h.locationID, path); err != nil {
			return fmt.Errorf("update_file %s: %w", path, err)
		}

		shouldInvalidate = true
	}

	for path, at := range h.reincidentToUpdate {
		if now.Sub(at) < ReincidentWindow {
			continue
		}

		h.markParentForRecompute(path)
		delete(h.filesToUpdate, path)
		delete(h.reincidentToUpdate, path)

		if err := h.bridge.UpdateFile(ctx, h.locationID, path); err != nil {
			return fmt.Errorf("update_file (reincident) %s: %w", path, err)
		}

		shouldInvalidate = true
	}

	if shouldInvalidate {
		h.bridge.InvalidateQuery("search.paths")
	}

	return nil
}
