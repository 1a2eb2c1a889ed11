package header

// AEAD is the external authenticated-encryption collaborator (spec.md §1):
// every keyslot's wrapped master key and every object's encrypted payload
// goes through it. See internal/primitives for the XChaCha20-Poly1305
// implementation wired in by callers.
type AEAD interface {
	// Seal encrypts plaintext under key, authenticating aad, and returns
	// ciphertext with its authentication tag appended.
	Seal(algorithm Algorithm, key Key, nonce Nonce, aad []byte, plaintext []byte) ([]byte, error)

	// Open reverses Seal. A wrong key, nonce, aad, or tampered ciphertext
	// all surface as a single opaque error — schema v1 never distinguishes
	// "wrong key" from "corrupted data" (spec.md §9).
	Open(algorithm Algorithm, key Key, nonce Nonce, aad []byte, ciphertext []byte) ([]byte, error)
}

// KDF is the external password-hashing/key-derivation collaborator
// (spec.md §1). See internal/primitives for the Argon2id implementation.
type KDF interface {
	// Hash turns a low-entropy password into a fixed-size key, salted per
	// content_salt and tuned by params. This is the expensive, tunable
	// step every schema v1 keyslot runs once per unlock attempt.
	Hash(password []byte, salt Salt, params Params) (Key, error)

	// Derive expands an already-hashed key into a context-bound KEK using
	// salt and a short ASCII context string. Unlike Hash, this is a cheap
	// deterministic expansion (HKDF, not Argon2id) — run once per keyslot
	// per unlock attempt, after Hash has already paid the expensive cost.
	Derive(key Key, salt Salt, context string) Key
}

// RandomSource is the external randomness collaborator (spec.md §1): every
// nonce, salt, and disabled-keyslot padding field is generated through it.
type RandomSource interface {
	// Random fills and returns a new byte slice of length n.
	Random(n int) ([]byte, error)
}

const fileKeyContext = "file header v1 master key wrap"
