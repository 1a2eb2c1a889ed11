package headerstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelfs/iosvault/internal/fs"
	"github.com/kestrelfs/iosvault/internal/headerstore"
	"github.com/kestrelfs/iosvault/internal/primitives"
	"github.com/kestrelfs/iosvault/pkg/header"
)

var fastParams = header.Params{TimeCost: 1, MemoryCostK: 8 * 1024, Threads: 1}

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	suite := primitives.DefaultSuite()
	store := headerstore.New(fs.NewReal(), suite)

	h, err := header.New(suite, header.AlgorithmXChaCha20Poly1305)
	require.NoError(t, err)

	var masterKey header.Key
	copy(masterKey[:], []byte("0123456789abcdef0123456789abcdef"))

	hashing := header.HashingAlgorithm{ID: header.HashingAlgorithmArgon2id, Params: fastParams}
	require.NoError(t, h.AddKeyslot(hashing, header.NewProtected([]byte("s3cret")), masterKey))

	path := filepath.Join(t.TempDir(), "vault.header")
	require.NoError(t, store.Write(path, h))

	loaded, err := store.Read(path)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.CountKeyslots())

	recovered, err := loaded.DecryptMasterKeyWithPassword(header.NewProtected([]byte("s3cret")))
	require.NoError(t, err)
	require.Equal(t, masterKey, recovered)
}

func TestWithLockRunsCallbackOnce(t *testing.T) {
	t.Parallel()

	suite := primitives.DefaultSuite()
	store := headerstore.New(fs.NewReal(), suite)

	path := filepath.Join(t.TempDir(), "vault.header")

	var calls int

	require.NoError(t, store.WithLock(path, func() error {
		calls++
		return nil
	}))
	require.Equal(t, 1, calls)
}
