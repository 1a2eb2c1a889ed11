package header

import "errors"

var (
	// ErrTooManyKeyslots is returned by AddKeyslot once KeyslotLimit real
	// slots are already occupied (spec.md §4 invariant).
	ErrTooManyKeyslots = errors.New("header: keyslot area is full")

	// ErrTooManyObjects is returned by AddObject once ObjectLimit objects
	// are already stored (spec.md §4 invariant).
	ErrTooManyObjects = errors.New("header: object area is full")

	// ErrNoKeyslots is returned when decrypting a header with zero enabled
	// keyslots.
	ErrNoKeyslots = errors.New("header: no enabled keyslots")

	// ErrIncorrectPassword is returned once every enabled keyslot has been
	// tried against a candidate password and none decrypted.
	ErrIncorrectPassword = errors.New("header: incorrect password")

	// ErrObjectIndex is returned when an object index is out of range or
	// names a slot that is not currently storing an object.
	ErrObjectIndex = errors.New("header: invalid object index")

	// ErrPasswordHash wraps a failure from the password-hashing KDF in
	// AddKeyslot. DecryptMasterKeyWithPassword skips a slot whose hash fails
	// instead of returning it.
	ErrPasswordHash = errors.New("header: password hashing failed")

	// ErrDecode is returned by Deserialize when the byte stream is
	// malformed or its lengths are inconsistent.
	ErrDecode = errors.New("header: decode failed")

	// ErrEncode is returned by Serialize when the random bytes for a
	// padding keyslot cannot be generated.
	ErrEncode = errors.New("header: encode failed")
)
