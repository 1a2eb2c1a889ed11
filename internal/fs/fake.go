package fs

import (
	"io"
	"io/fs"
	"os"
	"sync"
	"time"
)

// FakeInfo is a scriptable [os.FileInfo] for tests.
type FakeInfo struct {
	NameVal  string
	SizeVal  int64
	ModeVal  os.FileMode
	InodeVal uint64
}

func (i FakeInfo) Name() string       { return i.NameVal }
func (i FakeInfo) Size() int64        { return i.SizeVal }
func (i FakeInfo) Mode() os.FileMode  { return i.ModeVal }
func (i FakeInfo) ModTime() time.Time { return time.Time{} }
func (i FakeInfo) IsDir() bool        { return i.ModeVal.IsDir() }
func (i FakeInfo) Sys() any           { return &fakeStat{ino: i.InodeVal} }

type fakeStat struct{ ino uint64 }

// Fake is an in-memory [FS] used by watcher tests so scenarios (spec §8) can
// script "this path stat()s as a directory with inode N" or "this path
// returns ENOENT" without touching a real filesystem.
type Fake struct {
	mu    sync.Mutex
	stats map[string]fakeEntry
}

type fakeEntry struct {
	info FakeInfo
	err  error
}

// NewFake returns an empty [Fake] filesystem.
func NewFake() *Fake {
	return &Fake{stats: make(map[string]fakeEntry)}
}

// SetStat scripts the result of Stat/Lstat for path.
func (f *Fake) SetStat(path string, info FakeInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stats[path] = fakeEntry{info: info}
}

// SetStatErr scripts Stat/Lstat on path to fail with err.
func (f *Fake) SetStatErr(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stats[path] = fakeEntry{err: err}
}

// Remove drops a scripted entry so a later Stat reports [os.ErrNotExist].
func (f *Fake) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.stats, path)

	return nil
}

func (f *Fake) RemoveAll(path string) error { return f.Remove(path) }

func (f *Fake) Rename(oldpath, newpath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.stats[oldpath]
	if !ok {
		return os.ErrNotExist
	}

	delete(f.stats, oldpath)
	f.stats[newpath] = entry

	return nil
}

func (f *Fake) Stat(path string) (os.FileInfo, error)  { return f.lookup(path) }
func (f *Fake) Lstat(path string) (os.FileInfo, error) { return f.lookup(path) }

func (f *Fake) lookup(path string) (os.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.stats[path]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}

	if entry.err != nil {
		return nil, entry.err
	}

	return entry.info, nil
}

func (f *Fake) Exists(path string) (bool, error) {
	_, err := f.lookup(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// The remaining [FS] methods are not exercised by the watcher's stat/rename
// logic. The file and directory-read methods return [os.ErrInvalid] so an
// accidental call surfaces loudly in tests; MkdirAll and Lock succeed as
// no-ops.
func (f *Fake) Open(string) (File, error)                          { return nil, os.ErrInvalid }
func (f *Fake) Create(string) (File, error)                        { return nil, os.ErrInvalid }
func (f *Fake) OpenFile(string, int, os.FileMode) (File, error)    { return nil, os.ErrInvalid }
func (f *Fake) ReadFile(string) ([]byte, error)                    { return nil, os.ErrInvalid }
func (f *Fake) WriteFileAtomic(string, []byte, os.FileMode) error  { return os.ErrInvalid }
func (f *Fake) ReadDir(string) ([]os.DirEntry, error)              { return nil, os.ErrInvalid }
func (f *Fake) MkdirAll(string, os.FileMode) error                 { return nil }
func (f *Fake) Lock(string) (Locker, error)                        { return noopLocker{}, nil }

type noopLocker struct{}

func (noopLocker) Close() error { return nil }

var _ FS = (*Fake)(nil)
var _ io.Closer = noopLocker{}
