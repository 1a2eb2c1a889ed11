// Package fs provides the filesystem abstraction the watcher and header
// codec sit on top of.
//
// The main types are:
//   - [FS]: interface for filesystem operations
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os] package
//
// Example usage:
//
//	fsys := fs.NewReal()
//	f, err := fsys.Open("config.json")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	// Works with all stdlib io functions:
//	scanner := bufio.NewScanner(f)
//	data, _ := io.ReadAll(f)
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// This interface is satisfied by [os.File] and can be used with all
// standard library functions that accept [io.Reader], [io.Writer],
// [io.Seeker], or [io.Closer].
type File interface {
	io.ReadWriteCloser
	io.Seeker

	// Fd returns the file descriptor. See [os.File.Fd].
	// Used for low-level operations like [syscall.Flock].
	Fd() uintptr

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)

	// Sync commits the file's contents to disk. See [os.File.Sync].
	Sync() error
}

// Locker represents a held file lock.
// Call [Locker.Close] to release the lock.
type Locker interface {
	io.Closer
}

// FS defines filesystem operations for reading, writing, and managing files.
//
// The watcher's event handler and the header codec's persistence layer both
// go through this interface instead of calling [os] directly, so tests can
// substitute a [Fake] that returns scripted metadata and errors (e.g. to
// exercise the "other I/O error" branch of the rename pairer without
// touching a real disk).
type FS interface {
	// --- File Operations ---

	Open(path string) (File, error)
	Create(path string) (File, error)
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// --- Convenience Methods ---

	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// Uses a temp file + rename to prevent partial writes on crash.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// --- Directory Operations ---

	ReadDir(path string) ([]os.DirEntry, error)
	MkdirAll(path string, perm os.FileMode) error

	// --- Metadata ---

	// Stat returns file info, following symlinks. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Lstat returns file info without following symlinks. See [os.Lstat].
	Lstat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// --- Mutations ---

	Remove(path string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// --- Locking ---

	// Lock acquires an exclusive file lock, blocking until acquired or
	// until an internal timeout elapses. Call [Locker.Close] to release.
	Lock(path string) (Locker, error)
}

// Inode extracts the platform inode number from file info obtained through
// this package. It is the watcher's sole hook into platform-specific
// identity: the rename pairer (spec §4.3) keys its half-event maps by this
// value.
//
// Returns ok=false on platforms where the underlying [os.FileInfo.Sys] does
// not expose a *syscall.Stat_t (anything other than the unix family this
// module targets).
func Inode(info os.FileInfo) (ino uint64, ok bool) {
	if fake, isFake := info.Sys().(*fakeStat); isFake {
		return fake.ino, true
	}

	return inode(info)
}

// Compile-time interface checks.
var _ File = (*os.File)(nil)
