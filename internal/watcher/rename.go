package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kestrelfs/iosvault/internal/fs"
	"github.com/kestrelfs/iosvault/internal/librarybridge"
)

// handleSingleRename implements spec.md §4.3 handle_single_rename: a rename
// on iOS delivers two unordered half-events joined by inode. path is probed
// with Stat; whichever branch fires decides whether this completes a
// pending pair or starts a new one.
func (h *Handler) handleSingleRename(ctx context.Context, path string) error {
	info, statErr := h.fsys.Stat(path)

	switch {
	case statErr == nil:
		return h.handleRenameNewHalf(ctx, path, info)

	case errors.Is(statErr, os.ErrNotExist):
		return h.handleRenameOldHalf(ctx, path)

	default:
		return fmt.Errorf("stat %s: %w", path, statErr)
	}
}

// handleRenameNewHalf is the "path exists" branch: either it pairs with a
// pending old-half, or it is recorded awaiting one.
func (h *Handler) handleRenameNewHalf(ctx context.Context, path string, info os.FileInfo) error {
	inode, ok := fs.Inode(info)
	if !ok {
		return fmt.Errorf("watcher: no inode for %s", path)
	}

	exists, err := h.bridge.CheckFilePathExists(ctx, h.locationID, path, info.IsDir())
	if err != nil {
		return fmt.Errorf("check_file_path_exists %s: %w", path, err)
	}

	if exists {
		h.logf("watcher: rename event for already-tracked path %s, ignoring duplicate", path)
		return nil
	}

	old, paired := h.oldPathsMap[inode]
	if !paired {
		h.newPathsMap[inode] = instantPath{at: h.clock.Now(), path: path}
		return nil
	}

	delete(h.oldPathsMap, inode)

	if err := h.bridge.Rename(ctx, h.locationID, path, old.path, info); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", old.path, path, err)
	}

	return nil
}

// handleRenameOldHalf is the "path gone" branch: look the inode up in the
// library DB (not the filesystem, which no longer has it) and either pair
// with a pending new-half or record it awaiting one.
func (h *Handler) handleRenameOldHalf(ctx context.Context, path string) error {
	inode, err := h.bridge.ExtractInodeFromPath(ctx, h.locationID, path)
	if err != nil {
		if errors.Is(err, librarybridge.ErrPathNotTracked) {
			// Temporary file; ignore (spec.md §4.3 step 3).
			return nil
		}

		return fmt.Errorf("extract_inode_from_path %s: %w", path, err)
	}

	newHalf, paired := h.newPathsMap[inode]
	if !paired {
		h.oldPathsMap[inode] = instantPath{at: h.clock.Now(), path: path}
		return nil
	}

	delete(h.newPathsMap, inode)

	info, statErr := h.fsys.Stat(newHalf.path)
	if statErr != nil {
		return fmt.Errorf("stat %s: %w", newHalf.path, statErr)
	}

	if err := h.bridge.Rename(ctx, h.locationID, newHalf.path, path, info); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", path, newHalf.path, err)
	}

	return nil
}

// evictRenameCreates is spec.md §4.3's eviction for new_paths_map: entries
// with no sibling after [RenamePairWindow] are genuine creations, unless
// the path is already pending in files_to_update (the update pass will
// handle it there instead).
func (h *Handler) evictRenameCreates(ctx context.Context) error {
	now := h.clock.Now()
	shouldInvalidate := false

	for inode, entry := range h.newPathsMap {
		if now.Sub(entry.at) <= RenamePairWindow {
			continue
		}

		delete(h.newPathsMap, inode)

		if _, pending := h.filesToUpdate[entry.path]; pending {
			continue
		}

		info, err := h.fsys.Stat(entry.path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", entry.path, err)
		}

		if info.IsDir() {
			// create_dir triggers its own subtree scan, which recalculates
			// size already (spec.md §4.3 eviction note).
			if err := h.bridge.CreateDir(ctx, h.locationID, entry.path, info); err != nil {
				return fmt.Errorf("create_dir %s: %w", entry.path, err)
			}
		} else {
			h.markParentForRecompute(entry.path)

			if err := h.bridge.CreateFile(ctx, h.locationID, entry.path, info); err != nil {
				return fmt.Errorf("create_file %s: %w", entry.path, err)
			}
		}

		shouldInvalidate = true
	}

	if shouldInvalidate {
		h.bridge.InvalidateQuery("search.paths")
	}

	return nil
}

// evictRenameRemoves is spec.md §4.3's eviction for old_paths_map: entries
// with no sibling after [RenamePairWindow] are genuine removals.
func (h *Handler) evictRenameRemoves(ctx context.Context) error {
	now := h.clock.Now()
	shouldInvalidate := false

	for inode, entry := range h.oldPathsMap {
		if now.Sub(entry.at) <= RenamePairWindow {
			continue
		}

		delete(h.oldPathsMap, inode)
		h.markParentForRecompute(entry.path)

		if err := h.bridge.Remove(ctx, h.locationID, entry.path); err != nil {
			return fmt.Errorf("remove %s: %w", entry.path, err)
		}

		shouldInvalidate = true
	}

	if shouldInvalidate {
		h.bridge.InvalidateQuery("search.paths")
	}

	return nil
}
