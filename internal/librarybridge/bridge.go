// Package librarybridge defines the downstream operation vocabulary the
// watcher coalescer calls into (spec.md §6) and a deterministic in-memory
// implementation used by tests and by cmd/locwatchd, which always runs
// against it.
//
// The indexed database, the content-scanning pipeline, and query-cache
// invalidation are all external collaborators per spec.md §1 — this package
// is the seam, not a reimplementation of any of them.
package librarybridge

import (
	"context"
	"errors"
	"os"
)

// ErrPathNotTracked is the distinguished "not tracked" variant referenced by
// spec.md §4.3 step 3 and §4.4 step 1: the path is gone and was never known
// to the library database, so the caller should silently ignore it rather
// than treat it as a real error.
var ErrPathNotTracked = errors.New("librarybridge: path not tracked")

// Bridge is the library mutation surface a [Handler] drives. Implementations
// are assumed safe for concurrent callers from sibling watchers (spec.md §5).
type Bridge interface {
	// CreateDir records a newly observed directory.
	CreateDir(ctx context.Context, locationID int64, path string, info os.FileInfo) error

	// CreateFile records a newly observed file.
	CreateFile(ctx context.Context, locationID int64, path string, info os.FileInfo) error

	// UpdateFile re-reads metadata/content hash for an already-tracked file.
	UpdateFile(ctx context.Context, locationID int64, path string) error

	// Rename moves a tracked record from oldPath to newPath.
	Rename(ctx context.Context, locationID int64, newPath, oldPath string, info os.FileInfo) error

	// Remove deletes a tracked record.
	Remove(ctx context.Context, locationID int64, path string) error

	// ExtractInodeFromPath looks up the inode the database has on file for
	// path. Returns [ErrPathNotTracked] if the path has no record.
	ExtractInodeFromPath(ctx context.Context, locationID int64, path string) (uint64, error)

	// ExtractLocationPath returns the root path of locationID.
	ExtractLocationPath(ctx context.Context, locationID int64) (string, error)

	// RecalculateDirectoriesSize recomputes the aggregate size of every
	// directory named in dirs and writes the result back to the library.
	RecalculateDirectoriesSize(ctx context.Context, locationID int64, dirs []string) error

	// CheckFilePathExists is the DB existence probe from spec.md §6.
	CheckFilePathExists(ctx context.Context, locationID int64, path string, isDir bool) (bool, error)

	// RenameFolderName updates just the name field of the tracked record
	// identified by (locationID, inode), leaving its path otherwise intact.
	// This is the folder-rename handler's DB write (spec.md §4.4 step 4):
	// iOS never delivers the old name, so the handler can only update the
	// name in place rather than perform a full path rename.
	RenameFolderName(ctx context.Context, locationID int64, inode uint64, newName string) error

	// InvalidateQuery is a fire-and-forget signal; implementations must not
	// block the caller on delivery.
	InvalidateQuery(queryName string)
}
