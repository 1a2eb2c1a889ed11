package header

import "runtime"

// Protected wraps sensitive bytes — a master key, a password, a decrypted
// object payload — that callers must not let leak into logs, error strings,
// or %v formatting. It exposes its contents only through [Protected.Expose]
// and is zeroed as soon as it is no longer needed.
type Protected struct {
	data []byte
}

// NewProtected wraps b. Ownership of b transfers to the returned Protected;
// callers must not retain their own reference to it.
func NewProtected(b []byte) *Protected {
	p := &Protected{data: b}
	runtime.SetFinalizer(p, (*Protected).Zero)

	return p
}

// Expose returns the wrapped bytes. The slice aliases Protected's own
// storage; it becomes invalid after Zero is called.
func (p *Protected) Expose() []byte {
	if p == nil {
		return nil
	}

	return p.data
}

// Zero overwrites the wrapped bytes with zeroes. Safe to call more than
// once and on a nil receiver.
func (p *Protected) Zero() {
	if p == nil {
		return
	}

	for i := range p.data {
		p.data[i] = 0
	}
}

// String never prints the wrapped bytes, so Protected is safe to pass to
// %v/%s formatting by accident.
func (p *Protected) String() string {
	return "header.Protected(redacted)"
}

// Key is a raw symmetric key — a master key or a derived KEK. It is a
// fixed-size array rather than a Protected so it can be copied by value the
// way the AEAD/KDF interfaces need, while still supporting explicit
// zeroing.
type Key [keySize]byte

// Zero overwrites k in place.
func (k *Key) Zero() {
	for i := range k {
		k[i] = 0
	}
}

// Expose returns k's bytes as a slice, for passing to an [AEAD] or [KDF].
func (k *Key) Expose() []byte {
	return k[:]
}

func (k Key) String() string {
	return "header.Key(redacted)"
}
