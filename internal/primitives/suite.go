package primitives

import "github.com/kestrelfs/iosvault/pkg/header"

// DefaultSuite wires the production header.Suite: XChaCha20-Poly1305 AEAD,
// Argon2id password hashing, and crypto/rand randomness. cmd/headerctl and
// internal/headerstore both build headers through this.
func DefaultSuite() header.Suite {
	return header.Suite{
		AEAD: XChaCha20Poly1305{},
		KDF:  Argon2id{},
		RNG:  Random{},
	}
}
