// Package headerstore persists schema v1 headers to disk: atomic writes so
// a crash mid-write never leaves a half-written header, and the same flock
// discipline internal/fs already provides so concurrent headerctl
// invocations against the same vault serialize rather than race.
package headerstore

import (
	"fmt"

	"github.com/kestrelfs/iosvault/internal/fs"
	"github.com/kestrelfs/iosvault/pkg/header"
)

const headerFilePerm = 0o600

// Store reads and writes [header.FileHeaderV1] values at rest.
type Store struct {
	fsys  fs.FS
	suite header.Suite
}

// New returns a Store backed by fsys, decoding and re-deriving keys through
// suite.
func New(fsys fs.FS, suite header.Suite) *Store {
	return &Store{fsys: fsys, suite: suite}
}

// Suite returns the cryptographic suite this store decodes and builds
// headers with, so callers constructing a brand new header can reuse it.
func (s *Store) Suite() header.Suite {
	return s.suite
}

// Write serializes h and atomically replaces the file at path.
func (s *Store) Write(path string, h *header.FileHeaderV1) error {
	data, err := h.Serialize()
	if err != nil {
		return fmt.Errorf("headerstore: serialize %s: %w", path, err)
	}

	if err := s.fsys.WriteFileAtomic(path, data, headerFilePerm); err != nil {
		return fmt.Errorf("headerstore: write %s: %w", path, err)
	}

	return nil
}

// Read loads and decodes the header stored at path.
func (s *Store) Read(path string) (*header.FileHeaderV1, error) {
	data, err := s.fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("headerstore: read %s: %w", path, err)
	}

	h, err := header.Deserialize(s.suite, data)
	if err != nil {
		return nil, fmt.Errorf("headerstore: decode %s: %w", path, err)
	}

	return h, nil
}

// WithLock runs fn while holding an exclusive lock on path, ensuring a
// read-modify-write cycle (e.g. "add a keyslot") observes a consistent
// file even under concurrent headerctl invocations.
func (s *Store) WithLock(path string, fn func() error) error {
	lock, err := s.fsys.Lock(path)
	if err != nil {
		return fmt.Errorf("headerstore: lock %s: %w", path, err)
	}
	defer lock.Close()

	return fn()
}
