// Package header implements the versioned encrypted-file header codec,
// schema v1 (spec.md §§2-4, 6-9): a fixed-layout binary format storing a
// per-file symmetric master key wrapped by one or more password-derived
// KEKs, plus encrypted side-channel objects.
//
// The low-level cryptographic primitives — AEAD encrypt/decrypt,
// password-hashing KDFs, salt/nonce generation — are external collaborators
// per spec.md §1. This package only calls through the [AEAD] and [KDF]
// interfaces; see [github.com/kestrelfs/iosvault/internal/primitives] for
// the concrete implementations wired in by callers.
package header

// Algorithm identifies the AEAD cipher a header (and every keyslot/object
// inside it) is encrypted with.
type Algorithm uint32

const (
	// AlgorithmXChaCha20Poly1305 is the only algorithm schema v1 headers use.
	AlgorithmXChaCha20Poly1305 Algorithm = 1
)

// NonceSize returns the nonce length AEAD implementations must use for a.
// XChaCha20-Poly1305's extended 24-byte nonce is large enough that nonces
// can be generated at random with negligible collision risk (spec.md §9
// "AAD staticness" neighbor note: nonces, unlike AAD, are fresh per call).
func (a Algorithm) NonceSize() int {
	switch a {
	case AlgorithmXChaCha20Poly1305:
		return 24
	default:
		return 24
	}
}

// HeaderObjectType enumerates the kinds of encrypted side-channel data a
// [FileHeaderV1] can carry (spec.md §3 "HeaderObject").
type HeaderObjectType uint32

const (
	HeaderObjectTypePreview HeaderObjectType = iota + 1
	HeaderObjectTypeMetadata
)

// Params carries the tunable cost parameters for a password-hashing KDF run
// (spec.md §3 "hashing_algorithm (identifier + parameters)").
type Params struct {
	TimeCost    uint32
	MemoryCostK uint32 // KiB
	Threads     uint8
}

// StandardParams are the default Argon2id cost parameters new keyslots are
// created with.
var StandardParams = Params{TimeCost: 4, MemoryCostK: 256 * 1024, Threads: 4}

// HashingAlgorithmID identifies which password-hashing KDF a keyslot uses.
type HashingAlgorithmID uint32

const (
	HashingAlgorithmArgon2id HashingAlgorithmID = 1
)

// HashingAlgorithm is a KDF identifier plus its cost parameters, stored
// per-keyslot so two slots in the same header can use different cost
// settings (spec.md §3).
type HashingAlgorithm struct {
	ID     HashingAlgorithmID
	Params Params
}

const (
	saltSize = 16
	aadSize  = 16
	keySize  = 32
)

// Salt is a fixed-size KDF/KEK-derivation salt.
type Salt [saltSize]byte

// Aad is the header's fixed associated-data blob, generated once at
// construction (spec.md §3, §9 "AAD staticness").
type Aad [aadSize]byte

// Nonce is a variable-length AEAD nonce; schema v1 always sizes it per
// [Algorithm.NonceSize].
type Nonce []byte

// EncryptedKey is an AEAD ciphertext wrapping a [Key].
type EncryptedKey []byte
