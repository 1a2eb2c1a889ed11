package watcher

import (
	"context"
	"fmt"
)

// recalculateSizes implements spec.md §4.5: flush to_recalculate_size
// through the library bridge's aggregate-size recomputation and clear the
// map. Errors are logged by [Handler.Tick], not propagated further, per
// spec.md §4.5 ("Errors are logged, not propagated").
func (h *Handler) recalculateSizes(ctx context.Context) error {
	dirs := make([]string, 0, len(h.toRecalculateSize))
	for dir := range h.toRecalculateSize {
		dirs = append(dirs, dir)
	}

	if err := h.bridge.RecalculateDirectoriesSize(ctx, h.locationID, dirs); err != nil {
		return fmt.Errorf("recalculate_directories_size: %w", err)
	}

	clear(h.toRecalculateSize)

	return nil
}
