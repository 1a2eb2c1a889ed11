package primitives

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/kestrelfs/iosvault/pkg/header"
)

// Argon2id implements header.KDF. Hash runs the expensive, tunable
// password-to-key step; Derive runs a cheap HKDF-SHA256 expansion to bind
// an already-hashed key to a particular keyslot and purpose, mirroring the
// two-stage derivation schema v1 relies on (spec.md §3, §6).
type Argon2id struct{}

var _ header.KDF = Argon2id{}

func (Argon2id) Hash(password []byte, salt header.Salt, params header.Params) (header.Key, error) {
	if params.Threads == 0 {
		return header.Key{}, fmt.Errorf("primitives: argon2id threads must be > 0")
	}

	raw := argon2.IDKey(password, salt[:], params.TimeCost, params.MemoryCostK, params.Threads, 32)

	var key header.Key
	copy(key[:], raw)

	return key, nil
}

func (Argon2id) Derive(key header.Key, salt header.Salt, context string) header.Key {
	reader := hkdf.New(sha256.New, key.Expose(), salt[:], []byte(context))

	var out header.Key
	if _, err := io.ReadFull(reader, out[:]); err != nil {
		// hkdf.New only fails to read when asked for more output than a
		// 255*hash-size expansion allows; out is far smaller than that, so
		// this is unreachable in practice.
		panic(fmt.Sprintf("primitives: hkdf expand: %v", err))
	}

	return out
}
