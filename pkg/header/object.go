package header

import "fmt"

// ObjectLimit is the maximum number of [HeaderObject]s a schema v1 header
// can carry (spec.md §4 invariant). Unlike the keyslot area, the object
// area is not padded to a fixed count — object presence and count are not
// part of the header's confidentiality guarantees (spec.md §9).
const ObjectLimit = 2

// HeaderObject is one piece of encrypted side-channel data stored alongside
// a header's keyslots — a thumbnail, a metadata blob (spec.md §3
// "HeaderObject"). Every object is sealed with the header's master key and
// its fixed AAD, each under its own fresh nonce.
type HeaderObject struct {
	Type  HeaderObjectType
	Nonce Nonce
	Data  []byte // ciphertext
}

func newObject(
	aead AEAD,
	rng RandomSource,
	algorithm Algorithm,
	objectType HeaderObjectType,
	masterKey Key,
	aad Aad,
	plaintext []byte,
) (HeaderObject, error) {
	nonce, err := randomNonce(rng, algorithm)
	if err != nil {
		return HeaderObject{}, err
	}

	ciphertext, err := aead.Seal(algorithm, masterKey, nonce, aad[:], plaintext)
	if err != nil {
		return HeaderObject{}, fmt.Errorf("header: seal object: %w", err)
	}

	return HeaderObject{Type: objectType, Nonce: nonce, Data: ciphertext}, nil
}

func (o HeaderObject) decrypt(aead AEAD, algorithm Algorithm, aad Aad, masterKey Key) (*Protected, error) {
	plain, err := aead.Open(algorithm, masterKey, o.Nonce, aad[:], o.Data)
	if err != nil {
		return nil, fmt.Errorf("header: open object: %w", err)
	}

	return NewProtected(plain), nil
}
