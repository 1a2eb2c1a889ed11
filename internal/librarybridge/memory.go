package librarybridge

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/kestrelfs/iosvault/internal/fs"
)

// record is the deterministic in-memory stand-in for a library "file_path"
// row: just enough state for the watcher's own tests and cmd/locwatchd to
// observe what the coalescer decided to do.
type record struct {
	path  string
	inode uint64
	isDir bool
}

// InMemory is a [Bridge] backed by plain Go maps, keyed the same way the
// real database is: by (location, inode) and by (location, path). It keeps
// no SQL engine and no on-disk state — grounded on the teacher's
// internal/store package shape (sentinel errors, small typed records,
// explicit methods per operation) without its SQLite machinery, which
// nothing in this module's scope needs.
type InMemory struct {
	mu         sync.Mutex
	byPath     map[int64]map[string]*record
	byInode    map[int64]map[uint64]*record
	invalidate chan string
	roots      map[int64]string
}

// NewInMemory returns an empty bridge. roots maps a location ID to the
// filesystem path it watches, standing in for extract_location_path's
// backing table.
func NewInMemory(roots map[int64]string) *InMemory {
	return &InMemory{
		byPath:     make(map[int64]map[string]*record),
		byInode:    make(map[int64]map[uint64]*record),
		invalidate: make(chan string, 256),
		roots:      roots,
	}
}

// Invalidations exposes the fire-and-forget "search.paths" signal channel so
// a test or CLI can assert (or just drain) how many invalidations fired.
func (m *InMemory) Invalidations() <-chan string { return m.invalidate }

func (m *InMemory) InvalidateQuery(queryName string) {
	select {
	case m.invalidate <- queryName:
	default:
		// Buffer full: this is fire-and-forget, drop rather than block.
	}
}

func (m *InMemory) locationPaths(locationID int64) map[string]*record {
	recs, ok := m.byPath[locationID]
	if !ok {
		recs = make(map[string]*record)
		m.byPath[locationID] = recs
	}

	return recs
}

func (m *InMemory) locationInodes(locationID int64) map[uint64]*record {
	recs, ok := m.byInode[locationID]
	if !ok {
		recs = make(map[uint64]*record)
		m.byInode[locationID] = recs
	}

	return recs
}

func (m *InMemory) insert(locationID int64, r *record) {
	m.locationPaths(locationID)[r.path] = r
	m.locationInodes(locationID)[r.inode] = r
}

func inodeOf(info os.FileInfo) uint64 {
	ino, _ := fs.Inode(info)

	return ino
}

func (m *InMemory) CreateDir(_ context.Context, locationID int64, path string, info os.FileInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insert(locationID, &record{path: path, inode: inodeOf(info), isDir: true})

	return nil
}

func (m *InMemory) CreateFile(_ context.Context, locationID int64, path string, info os.FileInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insert(locationID, &record{path: path, inode: inodeOf(info), isDir: false})

	return nil
}

func (m *InMemory) UpdateFile(_ context.Context, locationID int64, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Touching an already-tracked record is a no-op for this deterministic
	// stand-in; real content hashing happens in the scanning pipeline, out
	// of this module's scope (spec.md §1).
	_, ok := m.locationPaths(locationID)[path]
	if !ok {
		return ErrPathNotTracked
	}

	return nil
}

func (m *InMemory) Rename(_ context.Context, locationID int64, newPath, oldPath string, info os.FileInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	paths := m.locationPaths(locationID)

	r, ok := paths[oldPath]
	if !ok {
		r = &record{inode: inodeOf(info), isDir: info.IsDir()}
	}

	delete(paths, oldPath)
	r.path = newPath
	paths[newPath] = r
	m.locationInodes(locationID)[r.inode] = r

	return nil
}

func (m *InMemory) Remove(_ context.Context, locationID int64, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	paths := m.locationPaths(locationID)

	r, ok := paths[path]
	if !ok {
		return ErrPathNotTracked
	}

	delete(paths, path)
	delete(m.locationInodes(locationID), r.inode)

	return nil
}

func (m *InMemory) ExtractInodeFromPath(_ context.Context, locationID int64, path string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.locationPaths(locationID)[path]
	if !ok {
		return 0, ErrPathNotTracked
	}

	return r.inode, nil
}

func (m *InMemory) ExtractLocationPath(_ context.Context, locationID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	root, ok := m.roots[locationID]
	if !ok {
		return "", ErrPathNotTracked
	}

	return root, nil
}

func (m *InMemory) RecalculateDirectoriesSize(_ context.Context, _ int64, _ []string) error {
	// Aggregate sizing lives in the content-scanning pipeline (spec.md §1,
	// external collaborator); this stand-in only needs to not error so the
	// size recomputer's call site (spec.md §4.5) is exercised end to end.
	return nil
}

func (m *InMemory) RenameFolderName(_ context.Context, locationID int64, inode uint64, newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.locationInodes(locationID)[inode]
	if !ok {
		return ErrPathNotTracked
	}

	dir := filepath.Dir(r.path)
	oldPath := r.path
	newPath := filepath.Join(dir, newName)

	delete(m.locationPaths(locationID), oldPath)
	r.path = newPath
	m.locationPaths(locationID)[newPath] = r

	return nil
}

func (m *InMemory) CheckFilePathExists(_ context.Context, locationID int64, path string, _ bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.locationPaths(locationID)[path]

	return ok, nil
}

// IsolatedPath returns path relative to the location root, the way the real
// library's IsolatedFilePathData keys it, for callers that want a single
// canonical key. If path cannot be made relative to root, it is returned
// unchanged.
func IsolatedPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}

	return rel
}

var _ Bridge = (*InMemory)(nil)
