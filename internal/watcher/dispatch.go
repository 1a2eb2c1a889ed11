package watcher

import (
	"context"
	"fmt"
)

// HandleEvent classifies and routes a single raw event per the table in
// spec.md §4.1. Per-event errors propagate to the caller. Two updates are made
// before the fallible call and are kept if it fails: Create(Folder) enqueues
// the path in rename_event_queue before its stat/create_dir, and the delete
// signal marks the parent for size recompute before remove.
func (h *Handler) HandleEvent(ctx context.Context, event Event) error {
	if len(event.Paths) == 0 {
		return errEmptyEvent
	}

	switch event.Kind {
	case KindCreateFolder:
		return h.handleCreateFolder(ctx, event.Paths[0])

	case KindModifyNameAny:
		path := event.Paths[0]
		if hasMeaningfulParent(path) {
			return h.handleFolderRename(ctx, path)
		}

		return h.handleSingleRename(ctx, path)

	case KindCreateFile, KindModifyContent, KindModifyWriteTime, KindModifyExtended:
		h.handleUpdateBurst(event.Paths[0])
		return nil

	case KindModifyMetadataAny:
		return h.handleDeleteSignal(ctx, event.Paths[0])

	case KindOther:
		return h.handleSingleRename(ctx, event.Paths[0])

	default:
		return fmt.Errorf("watcher: unhandled event kind %d", event.Kind)
	}
}

// handleCreateFolder is spec.md §4.1's Create(Folder) row: enqueue the
// destination name for a later folder rename, create the directory in the
// library, and remember it as the most recently created directory.
func (h *Handler) handleCreateFolder(ctx context.Context, path string) error {
	now := h.clock.Now()

	h.renameEventQueue = append(h.renameEventQueue, instantPath{at: now, path: path})

	info, err := h.fsys.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := h.bridge.CreateDir(ctx, h.locationID, path, info); err != nil {
		return fmt.Errorf("create_dir %s: %w", path, err)
	}

	h.latestCreatedDir = path

	return nil
}

// handleUpdateBurst is spec.md §4.1's Create(File)/Modify(Content|WriteTime|
// Extended) row: refresh files_to_update, moving the displaced timestamp
// into reincident_to_update the first time a path is seen again.
func (h *Handler) handleUpdateBurst(path string) {
	now := h.clock.Now()

	oldInstant, alreadyPending := h.filesToUpdate[path]
	if alreadyPending {
		if _, alreadyReincident := h.reincidentToUpdate[path]; !alreadyReincident {
			h.reincidentToUpdate[path] = oldInstant
		}
	}

	h.filesToUpdate[path] = now
}

// handleDeleteSignal is spec.md §4.1's Modify(Metadata(Any)) row: iOS's
// stand-in for a delete event.
func (h *Handler) handleDeleteSignal(ctx context.Context, path string) error {
	h.markParentForRecompute(path)

	if err := h.bridge.Remove(ctx, h.locationID, path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}

	return nil
}
