// Package primitives wires the header codec's external cryptographic
// collaborators (spec.md §1) to golang.org/x/crypto: XChaCha20-Poly1305 for
// AEAD, Argon2id for password hashing, and HKDF for cheap KEK expansion.
// Nothing in this package is aware of the header wire format; it only
// implements the small interfaces pkg/header declares.
package primitives

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/kestrelfs/iosvault/pkg/header"
)

// XChaCha20Poly1305 implements header.AEAD using
// golang.org/x/crypto/chacha20poly1305's extended-nonce construction — the
// only algorithm schema v1 headers declare (header.AlgorithmXChaCha20Poly1305).
type XChaCha20Poly1305 struct{}

var _ header.AEAD = XChaCha20Poly1305{}

func (XChaCha20Poly1305) Seal(algorithm header.Algorithm, key header.Key, nonce header.Nonce, aad, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(algorithm, key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("primitives: nonce is %d bytes, want %d", len(nonce), aead.NonceSize())
	}

	return aead.Seal(nil, nonce, plaintext, aad), nil
}

func (XChaCha20Poly1305) Open(algorithm header.Algorithm, key header.Key, nonce header.Nonce, aad, ciphertext []byte) ([]byte, error) {
	aead, err := newAEAD(algorithm, key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("primitives: nonce is %d bytes, want %d", len(nonce), aead.NonceSize())
	}

	plain, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("primitives: open: %w", err)
	}

	return plain, nil
}

func newAEAD(algorithm header.Algorithm, key header.Key) (aeadCipher, error) {
	switch algorithm {
	case header.AlgorithmXChaCha20Poly1305:
		aead, err := chacha20poly1305.NewX(key.Expose())
		if err != nil {
			return nil, fmt.Errorf("primitives: new xchacha20poly1305: %w", err)
		}

		return aead, nil
	default:
		return nil, fmt.Errorf("primitives: unsupported algorithm %d", algorithm)
	}
}

// aeadCipher is the subset of cipher.AEAD this package needs, kept local so
// callers never have to import crypto/cipher directly.
type aeadCipher interface {
	NonceSize() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

// Random implements header.RandomSource using crypto/rand.
type Random struct{}

var _ header.RandomSource = Random{}

func (Random) Random(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("primitives: read random bytes: %w", err)
	}

	return b, nil
}
