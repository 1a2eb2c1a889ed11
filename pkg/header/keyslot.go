package header

import "fmt"

// Keyslot holds one password-wrapped copy of a header's master key
// (spec.md §3 "Keyslot"). A serialized header always carries exactly
// KeyslotLimit of these; slots beyond the real count are disabled
// placeholders whose salts, nonce and wrapped key are fresh random bytes, so
// the header's length does not depend on how many passwords unlock the file.
// Each slot's Enabled flag is written in the clear.
type Keyslot struct {
	Enabled          bool
	HashingAlgorithm HashingAlgorithm
	Salt             Salt             // KEK-derivation salt (Keyslot.decrypt's Key.derive salt)
	ContentSalt      Salt             // password-hashing salt
	MasterKey        EncryptedKey     // AEAD-wrapped master key
	Nonce            Nonce
}

// KeyslotLimit is the fixed number of keyslots every schema v1 header
// carries on the wire, enabled or not (spec.md §4 invariant: "Encoded byte
// length is constant in the keyslot area regardless of how many real slots
// exist").
const KeyslotLimit = 2

// newDisabledKeyslot returns a padding slot: same shape and encoded length
// as a real one, with enabled=false, StandardParams hashing, and the salts,
// nonce and wrapped key filled with fresh random bytes. Only its Enabled
// flag sets it apart from a real slot on the wire.
func newDisabledKeyslot(rng RandomSource, algorithm Algorithm) (Keyslot, error) {
	contentSalt, err := randomSalt(rng)
	if err != nil {
		return Keyslot{}, err
	}

	salt, err := randomSalt(rng)
	if err != nil {
		return Keyslot{}, err
	}

	nonce, err := randomNonce(rng, algorithm)
	if err != nil {
		return Keyslot{}, err
	}

	masterKey, err := rng.Random(keySize + 16) // ciphertext + AEAD tag, same shape as a real wrapped key
	if err != nil {
		return Keyslot{}, err
	}

	return Keyslot{
		Enabled:          false,
		HashingAlgorithm: HashingAlgorithm{ID: HashingAlgorithmArgon2id, Params: StandardParams},
		Salt:             salt,
		ContentSalt:      contentSalt,
		MasterKey:        masterKey,
		Nonce:            nonce,
	}, nil
}

// newKeyslot wraps masterKey for one password. hashedKey is the caller's
// already-password-hashed key (spec.md §3: hashing happens once per
// password, the resulting key can be cached by a caller trying several
// headers). content_salt is stored alongside so a future
// DecryptMasterKeyWithPassword call can re-derive the same hashedKey from
// the raw password.
func newKeyslot(
	aead AEAD,
	rng RandomSource,
	algorithm Algorithm,
	hashing HashingAlgorithm,
	contentSalt Salt,
	hashedKey Key,
	masterKey Key,
	kdf KDF,
) (Keyslot, error) {
	nonce, err := randomNonce(rng, algorithm)
	if err != nil {
		return Keyslot{}, err
	}

	salt, err := randomSalt(rng)
	if err != nil {
		return Keyslot{}, err
	}

	kek := kdf.Derive(hashedKey, salt, fileKeyContext)
	defer kek.Zero()

	wrapped, err := aead.Seal(algorithm, kek, nonce, nil, masterKey.Expose())
	if err != nil {
		return Keyslot{}, fmt.Errorf("header: wrap master key: %w", err)
	}

	return Keyslot{
		Enabled:          true,
		HashingAlgorithm: hashing,
		Salt:             salt,
		ContentSalt:      contentSalt,
		MasterKey:        wrapped,
		Nonce:            nonce,
	}, nil
}

// decrypt unwraps the keyslot's master key using an already-derived
// hashedKey. It returns an error whenever the wrong password was used — it
// cannot distinguish that from corruption, by design (spec.md §9).
func (k Keyslot) decrypt(aead AEAD, kdf KDF, algorithm Algorithm, hashedKey Key) (Key, error) {
	kek := kdf.Derive(hashedKey, k.Salt, fileKeyContext)
	defer kek.Zero()

	plain, err := aead.Open(algorithm, kek, k.Nonce, nil, k.MasterKey)
	if err != nil {
		return Key{}, fmt.Errorf("%w", ErrIncorrectPassword)
	}

	if len(plain) != keySize {
		return Key{}, fmt.Errorf("header: unwrapped master key has wrong length: %w", ErrDecode)
	}

	var key Key
	copy(key[:], plain)

	return key, nil
}

func randomSalt(rng RandomSource) (Salt, error) {
	b, err := rng.Random(saltSize)
	if err != nil {
		return Salt{}, fmt.Errorf("header: generate salt: %w", err)
	}

	var s Salt
	copy(s[:], b)

	return s, nil
}

func randomNonce(rng RandomSource, algorithm Algorithm) (Nonce, error) {
	b, err := rng.Random(algorithm.NonceSize())
	if err != nil {
		return nil, fmt.Errorf("header: generate nonce: %w", err)
	}

	return b, nil
}
