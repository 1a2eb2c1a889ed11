package header_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelfs/iosvault/internal/primitives"
	"github.com/kestrelfs/iosvault/pkg/header"
)

// fastParams keeps Argon2id cheap enough to run in a test binary; production
// code uses header.StandardParams instead.
var fastParams = header.Params{TimeCost: 1, MemoryCostK: 8 * 1024, Threads: 1}

func newTestHeader(t *testing.T) (*header.FileHeaderV1, header.Suite) {
	t.Helper()

	suite := primitives.DefaultSuite()

	h, err := header.New(suite, header.AlgorithmXChaCha20Poly1305)
	require.NoError(t, err)

	return h, suite
}

func randomMasterKey(t *testing.T) header.Key {
	t.Helper()

	raw, err := primitives.Random{}.Random(32)
	require.NoError(t, err)

	var k header.Key
	copy(k[:], raw)

	return k
}

func TestRoundTripSingleKeyslot(t *testing.T) {
	t.Parallel()

	h, suite := newTestHeader(t)
	masterKey := randomMasterKey(t)

	password := header.NewProtected([]byte("correct horse battery staple"))
	hashing := header.HashingAlgorithm{ID: header.HashingAlgorithmArgon2id, Params: fastParams}

	require.NoError(t, h.AddKeyslot(hashing, password, masterKey))
	require.Equal(t, 1, h.CountKeyslots())

	encoded, err := h.Serialize()
	require.NoError(t, err)

	decoded, err := header.Deserialize(suite, encoded)
	require.NoError(t, err)
	require.Equal(t, 1, decoded.CountKeyslots())

	recovered, err := decoded.DecryptMasterKeyWithPassword(header.NewProtected([]byte("correct horse battery staple")))
	require.NoError(t, err)
	require.Equal(t, masterKey, recovered)
}

func TestIncorrectPasswordAfterExhaustingAllSlots(t *testing.T) {
	t.Parallel()

	h, suite := newTestHeader(t)
	masterKey := randomMasterKey(t)
	hashing := header.HashingAlgorithm{ID: header.HashingAlgorithmArgon2id, Params: fastParams}

	require.NoError(t, h.AddKeyslot(hashing, header.NewProtected([]byte("password-one")), masterKey))
	require.NoError(t, h.AddKeyslot(hashing, header.NewProtected([]byte("password-two")), masterKey))

	encoded, err := h.Serialize()
	require.NoError(t, err)

	decoded, err := header.Deserialize(suite, encoded)
	require.NoError(t, err)

	_, err = decoded.DecryptMasterKeyWithPassword(header.NewProtected([]byte("totally-wrong")))
	require.ErrorIs(t, err, header.ErrIncorrectPassword)
}

func TestAddKeyslotRejectsBeyondLimit(t *testing.T) {
	t.Parallel()

	h, _ := newTestHeader(t)
	masterKey := randomMasterKey(t)
	hashing := header.HashingAlgorithm{ID: header.HashingAlgorithmArgon2id, Params: fastParams}

	for i := 0; i < header.KeyslotLimit; i++ {
		require.NoError(t, h.AddKeyslot(hashing, header.NewProtected([]byte("pw")), masterKey))
	}

	err := h.AddKeyslot(hashing, header.NewProtected([]byte("one-too-many")), masterKey)
	require.ErrorIs(t, err, header.ErrTooManyKeyslots)
}

func TestSerializedLengthIsConstantRegardlessOfKeyslotCount(t *testing.T) {
	t.Parallel()

	masterKey := randomMasterKey(t)
	hashing := header.HashingAlgorithm{ID: header.HashingAlgorithmArgon2id, Params: fastParams}

	h1, _ := newTestHeader(t)
	require.NoError(t, h1.AddKeyslot(hashing, header.NewProtected([]byte("only-one")), masterKey))
	encoded1, err := h1.Serialize()
	require.NoError(t, err)

	h2, _ := newTestHeader(t)
	require.NoError(t, h2.AddKeyslot(hashing, header.NewProtected([]byte("first")), masterKey))
	require.NoError(t, h2.AddKeyslot(hashing, header.NewProtected([]byte("second")), masterKey))
	encoded2, err := h2.Serialize()
	require.NoError(t, err)

	require.Equal(t, len(encoded1), len(encoded2))
}

func TestAddObjectAndDecrypt(t *testing.T) {
	t.Parallel()

	h, suite := newTestHeader(t)
	masterKey := randomMasterKey(t)

	require.NoError(t, h.AddObject(header.HeaderObjectTypeMetadata, masterKey, []byte(`{"name":"vault.db"}`)))
	require.Equal(t, 1, h.CountObjects())

	encoded, err := h.Serialize()
	require.NoError(t, err)

	decoded, err := header.Deserialize(suite, encoded)
	require.NoError(t, err)

	plain, err := decoded.DecryptObject(0, masterKey)
	require.NoError(t, err)
	require.Equal(t, `{"name":"vault.db"}`, string(plain.Expose()))

	_, err = decoded.DecryptObject(5, masterKey)
	require.ErrorIs(t, err, header.ErrObjectIndex)
}

func TestAddObjectRejectsBeyondLimit(t *testing.T) {
	t.Parallel()

	h, _ := newTestHeader(t)
	masterKey := randomMasterKey(t)

	for i := 0; i < header.ObjectLimit; i++ {
		require.NoError(t, h.AddObject(header.HeaderObjectTypePreview, masterKey, []byte("x")))
	}

	err := h.AddObject(header.HeaderObjectTypePreview, masterKey, []byte("y"))
	require.ErrorIs(t, err, header.ErrTooManyObjects)
}

// DecryptMasterKey takes already-hashed candidate keys and must try every
// key against every slot (outer loop over keys, inner over slots) rather
// than stopping at the first slot a wrong key fails against.
func TestDecryptMasterKeyTriesAllCandidates(t *testing.T) {
	t.Parallel()

	h, suite := newTestHeader(t)
	masterKey := randomMasterKey(t)
	hashing := header.HashingAlgorithm{ID: header.HashingAlgorithmArgon2id, Params: fastParams}

	require.NoError(t, h.AddKeyslot(hashing, header.NewProtected([]byte("right-password")), masterKey))

	encoded, err := h.Serialize()
	require.NoError(t, err)

	decoded, err := header.Deserialize(suite, encoded)
	require.NoError(t, err)

	salts := decoded.ContentSalts()
	require.Len(t, salts, 1)

	wrongKey, err := suite.KDF.Hash([]byte("wrong-guess"), salts[0], fastParams)
	require.NoError(t, err)

	rightKey, err := suite.KDF.Hash([]byte("right-password"), salts[0], fastParams)
	require.NoError(t, err)

	recovered, err := decoded.DecryptMasterKey([]header.Key{wrongKey, rightKey})
	require.NoError(t, err)
	require.Equal(t, masterKey, recovered)
}

func TestDecryptMasterKeyNoKeyslots(t *testing.T) {
	t.Parallel()

	h, _ := newTestHeader(t)

	_, err := h.DecryptMasterKey([]header.Key{{}})
	require.ErrorIs(t, err, header.ErrNoKeyslots)
}
