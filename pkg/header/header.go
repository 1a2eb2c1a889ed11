package header

import "fmt"

// FileHeaderV1 is schema v1 of the encrypted file header (spec.md §2-4):
// a fixed-size keyslot area wrapping a per-file master key under zero or
// more passwords, plus a small set of objects encrypted with that master
// key.
type FileHeaderV1 struct {
	aad       Aad
	algorithm Algorithm
	nonce     Nonce
	keyslots  []Keyslot // real, enabled slots only; padded to KeyslotLimit on the wire
	objects   []HeaderObject

	aead AEAD
	kdf  KDF
	rng  RandomSource
}

// Suite bundles the external collaborators a header needs (spec.md §1):
// the AEAD cipher, the password-hashing KDF, and a source of randomness.
// Callers construct one from internal/primitives and pass it to every
// constructor and decode in this package.
type Suite struct {
	AEAD AEAD
	KDF  KDF
	RNG  RandomSource
}

// New creates an empty header: a fresh AAD and header-level nonce, no
// keyslots, no objects. Keyslots and objects are added afterward via
// AddKeyslot and AddObject.
func New(suite Suite, algorithm Algorithm) (*FileHeaderV1, error) {
	aadBytes, err := suite.RNG.Random(aadSize)
	if err != nil {
		return nil, fmt.Errorf("header: generate aad: %w", err)
	}

	nonce, err := randomNonce(suite.RNG, algorithm)
	if err != nil {
		return nil, err
	}

	var aad Aad
	copy(aad[:], aadBytes)

	return &FileHeaderV1{
		aad:       aad,
		algorithm: algorithm,
		nonce:     nonce,
		aead:      suite.AEAD,
		kdf:       suite.KDF,
		rng:       suite.RNG,
	}, nil
}

// AddKeyslot derives a content hash key from password (via hashing's KDF
// parameters), wraps masterKey under it, and appends the resulting keyslot.
// It fails once KeyslotLimit real slots already exist (spec.md §4).
func (h *FileHeaderV1) AddKeyslot(hashing HashingAlgorithm, password *Protected, masterKey Key) error {
	if len(h.keyslots)+1 > KeyslotLimit {
		return ErrTooManyKeyslots
	}

	contentSalt, err := randomSalt(h.rng)
	if err != nil {
		return err
	}

	hashedKey, err := h.kdf.Hash(password.Expose(), contentSalt, hashing.Params)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordHash, err)
	}
	defer hashedKey.Zero()

	slot, err := newKeyslot(h.aead, h.rng, h.algorithm, hashing, contentSalt, hashedKey, masterKey, h.kdf)
	if err != nil {
		return err
	}

	h.keyslots = append(h.keyslots, slot)

	return nil
}

// AddObject encrypts data under masterKey and the header's fixed AAD, and
// appends it as a new [HeaderObject]. It fails once ObjectLimit objects
// already exist (spec.md §4).
func (h *FileHeaderV1) AddObject(objectType HeaderObjectType, masterKey Key, data []byte) error {
	if len(h.objects)+1 > ObjectLimit {
		return ErrTooManyObjects
	}

	obj, err := newObject(h.aead, h.rng, h.algorithm, objectType, masterKey, h.aad, data)
	if err != nil {
		return err
	}

	h.objects = append(h.objects, obj)

	return nil
}

// DecryptObject decrypts the object at index using masterKey.
func (h *FileHeaderV1) DecryptObject(index int, masterKey Key) (*Protected, error) {
	if index < 0 || index >= len(h.objects) {
		return nil, ErrObjectIndex
	}

	return h.objects[index].decrypt(h.aead, h.algorithm, h.aad, masterKey)
}

// DecryptMasterKey tries each of keys against each enabled keyslot, in that
// nesting order — outer loop over keys, inner loop over slots — matching
// the order a caller trying several cached password hashes against a
// header expects: the first key that unlocks ANY slot wins, not the first
// slot that ANY key unlocks.
func (h *FileHeaderV1) DecryptMasterKey(keys []Key) (Key, error) {
	if len(h.keyslots) == 0 {
		return Key{}, ErrNoKeyslots
	}

	for _, hashedKey := range keys {
		for _, slot := range h.keyslots {
			key, err := slot.decrypt(h.aead, h.kdf, h.algorithm, hashedKey)
			if err == nil {
				return key, nil
			}
		}
	}

	return Key{}, ErrIncorrectPassword
}

// DecryptMasterKeyWithPassword hashes password against every enabled
// keyslot's own content_salt and hashing parameters (a slot may have been
// added with different cost parameters than another), trying each in turn
// until one unlocks. A slot whose password hash fails is skipped and the
// remaining slots are still tried.
func (h *FileHeaderV1) DecryptMasterKeyWithPassword(password *Protected) (Key, error) {
	if len(h.keyslots) == 0 {
		return Key{}, ErrNoKeyslots
	}

	for _, slot := range h.keyslots {
		hashedKey, err := h.kdf.Hash(password.Expose(), slot.ContentSalt, slot.HashingAlgorithm.Params)
		if err != nil {
			continue
		}

		key, err := slot.decrypt(h.aead, h.kdf, h.algorithm, hashedKey)
		hashedKey.Zero()

		if err == nil {
			return key, nil
		}
	}

	return Key{}, ErrIncorrectPassword
}

// ContentSalts returns the password-hashing salt of every enabled keyslot,
// in slot order. A caller that wants to use DecryptMasterKey (rather than
// DecryptMasterKeyWithPassword) needs these to hash a candidate password
// against each slot before trying it.
func (h *FileHeaderV1) ContentSalts() []Salt {
	salts := make([]Salt, len(h.keyslots))
	for i, slot := range h.keyslots {
		salts[i] = slot.ContentSalt
	}

	return salts
}

func (h *FileHeaderV1) GetAad() Aad             { return h.aad }
func (h *FileHeaderV1) GetNonce() Nonce         { return h.nonce }
func (h *FileHeaderV1) GetAlgorithm() Algorithm { return h.algorithm }
func (h *FileHeaderV1) CountObjects() int       { return len(h.objects) }
func (h *FileHeaderV1) CountKeyslots() int      { return len(h.keyslots) }

// Serialize encodes the header to its schema v1 wire format (spec.md §6).
func (h *FileHeaderV1) Serialize() ([]byte, error) {
	if len(h.keyslots) > KeyslotLimit {
		return nil, ErrTooManyKeyslots
	}

	var w writer

	w.raw(h.aad[:])
	w.u32(uint32(h.algorithm))
	w.bytesLP(h.nonce)

	for _, slot := range h.keyslots {
		writeKeyslot(&w, slot)
	}

	for i := len(h.keyslots); i < KeyslotLimit; i++ {
		padding, err := newDisabledKeyslot(h.rng, h.algorithm)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncode, err)
		}

		writeKeyslot(&w, padding)
	}

	var countBuf [1]byte
	countBuf[0] = uint8(len(h.objects))
	w.raw(countBuf[:])

	for _, obj := range h.objects {
		writeObject(&w, obj)
	}

	return w.bytes(), nil
}

// Deserialize decodes a schema v1 header previously produced by Serialize.
// Disabled keyslots are dropped — callers never see the padding, only the
// real, enabled slots.
func Deserialize(suite Suite, data []byte) (*FileHeaderV1, error) {
	r := newReader(data)

	aadBytes, err := r.raw(aadSize)
	if err != nil {
		return nil, err
	}

	algoRaw, err := r.u32()
	if err != nil {
		return nil, err
	}

	algorithm := Algorithm(algoRaw)

	nonce, err := r.bytesLP()
	if err != nil {
		return nil, err
	}

	keyslots := make([]Keyslot, 0, KeyslotLimit)

	for i := 0; i < KeyslotLimit; i++ {
		slot, err := readKeyslot(r)
		if err != nil {
			// A slot that fails to decode is assumed corrupted padding, not
			// a reason to fail the whole header.
			continue
		}

		if slot.Enabled {
			keyslots = append(keyslots, slot)
		}
	}

	objectCount, err := r.u8()
	if err != nil {
		return nil, err
	}

	objects := make([]HeaderObject, 0, objectCount)

	for i := 0; i < int(objectCount); i++ {
		obj, err := readObject(r)
		if err != nil {
			return nil, err
		}

		objects = append(objects, obj)
	}

	var aad Aad
	copy(aad[:], aadBytes)

	return &FileHeaderV1{
		aad:       aad,
		algorithm: algorithm,
		nonce:     append([]byte(nil), nonce...),
		keyslots:  keyslots,
		objects:   objects,
		aead:      suite.AEAD,
		kdf:       suite.KDF,
		rng:       suite.RNG,
	}, nil
}
