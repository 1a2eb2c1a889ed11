package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/kestrelfs/iosvault/internal/librarybridge"
)

// handleFolderRename implements spec.md §4.4: folder renames on iOS surface
// as a single Modify(Name(Any)) on the destination path, with the source
// name never delivered. The oldest entry in rename_event_queue is presumed
// to be the source name's replacement target.
//
// Known issue (spec.md §9, open question, carried forward unresolved):
// this assumes the first queued folder-create corresponds to the folder
// being renamed. Under bursty folder creation between two folder renames,
// this pairing can be wrong — a correct implementation would key the queue
// by inode instead of FIFO order.
func (h *Handler) handleFolderRename(ctx context.Context, path string) error {
	inode, err := h.bridge.ExtractInodeFromPath(ctx, h.locationID, path)
	if err != nil {
		if errors.Is(err, librarybridge.ErrPathNotTracked) {
			return nil
		}

		return fmt.Errorf("extract_inode_from_path %s: %w", path, err)
	}

	if len(h.renameEventQueue) == 0 {
		h.logf("watcher: folder rename for %s but rename_event_queue is empty", path)
		return nil
	}

	entry := h.renameEventQueue[0]
	h.renameEventQueue = h.renameEventQueue[1:]

	newName := filepath.Base(entry.path)

	if err := h.bridge.RenameFolderName(ctx, h.locationID, inode, newName); err != nil {
		return fmt.Errorf("rename_folder_name %s: %w", path, err)
	}

	return nil
}
