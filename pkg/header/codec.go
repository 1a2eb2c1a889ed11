package header

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Wire layout (spec.md §6): fields are written in declaration order, fixed-
// width integers little-endian, and every variable-length byte sequence is
// prefixed with its length as a uvarint — the same convention the teacher's
// binary formats use (fixed offsets plus explicit length prefixes, never a
// self-describing encoding). The keyslot area is the one place size is NOT
// data-dependent: it always contains exactly KeyslotLimit entries, encoded
// and decoded unconditionally, so the file's total length never reveals
// how many keyslots are actually enabled.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) bytes() []byte { return w.buf.Bytes() }

func (w *writer) raw(b []byte) { w.buf.Write(b) }

func (w *writer) u8(v uint8) { w.buf.WriteByte(v) }

func (w *writer) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) bytesLP(b []byte) {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(b)))
	w.buf.Write(lenBuf[:n])
	w.buf.Write(b)
}

type reader struct {
	b   []byte
	off int
}

func newReader(b []byte) *reader { return &reader{b: b} }

func (r *reader) need(n int) error {
	if r.off+n > len(r.b) {
		return fmt.Errorf("header: truncated at offset %d wanting %d bytes: %w", r.off, n, ErrDecode)
	}

	return nil
}

func (r *reader) raw(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}

	out := r.b[r.off : r.off+n]
	r.off += n

	return out, nil
}

func (r *reader) u8() (uint8, error) {
	b, err := r.raw(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *reader) boolean() (bool, error) {
	v, err := r.u8()
	if err != nil {
		return false, err
	}

	return v != 0, nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.raw(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) bytesLP() ([]byte, error) {
	n, m := binary.Uvarint(r.b[r.off:])
	if m <= 0 {
		return nil, fmt.Errorf("header: bad length prefix at offset %d: %w", r.off, ErrDecode)
	}

	r.off += m

	return r.raw(int(n))
}

func writeSalt(w *writer, s Salt) { w.raw(s[:]) }

func readSalt(r *reader) (Salt, error) {
	b, err := r.raw(saltSize)
	if err != nil {
		return Salt{}, err
	}

	var s Salt
	copy(s[:], b)

	return s, nil
}

func writeKeyslot(w *writer, k Keyslot) {
	w.bool(k.Enabled)
	w.u32(uint32(k.HashingAlgorithm.ID))
	w.u32(k.HashingAlgorithm.Params.TimeCost)
	w.u32(k.HashingAlgorithm.Params.MemoryCostK)
	w.u8(k.HashingAlgorithm.Params.Threads)
	writeSalt(w, k.Salt)
	writeSalt(w, k.ContentSalt)
	w.bytesLP(k.MasterKey)
	w.bytesLP(k.Nonce)
}

func readKeyslot(r *reader) (Keyslot, error) {
	var k Keyslot

	enabled, err := r.boolean()
	if err != nil {
		return k, err
	}

	algoID, err := r.u32()
	if err != nil {
		return k, err
	}

	timeCost, err := r.u32()
	if err != nil {
		return k, err
	}

	memCost, err := r.u32()
	if err != nil {
		return k, err
	}

	threads, err := r.u8()
	if err != nil {
		return k, err
	}

	salt, err := readSalt(r)
	if err != nil {
		return k, err
	}

	contentSalt, err := readSalt(r)
	if err != nil {
		return k, err
	}

	masterKey, err := r.bytesLP()
	if err != nil {
		return k, err
	}

	nonce, err := r.bytesLP()
	if err != nil {
		return k, err
	}

	k = Keyslot{
		Enabled: enabled,
		HashingAlgorithm: HashingAlgorithm{
			ID:     HashingAlgorithmID(algoID),
			Params: Params{TimeCost: timeCost, MemoryCostK: memCost, Threads: threads},
		},
		Salt:        salt,
		ContentSalt: contentSalt,
		MasterKey:   append([]byte(nil), masterKey...),
		Nonce:       append([]byte(nil), nonce...),
	}

	return k, nil
}

func writeObject(w *writer, o HeaderObject) {
	w.u32(uint32(o.Type))
	w.bytesLP(o.Nonce)
	w.bytesLP(o.Data)
}

func readObject(r *reader) (HeaderObject, error) {
	typ, err := r.u32()
	if err != nil {
		return HeaderObject{}, err
	}

	nonce, err := r.bytesLP()
	if err != nil {
		return HeaderObject{}, err
	}

	data, err := r.bytesLP()
	if err != nil {
		return HeaderObject{}, err
	}

	return HeaderObject{
		Type:  HeaderObjectType(typ),
		Nonce: append([]byte(nil), nonce...),
		Data:  append([]byte(nil), data...),
	}, nil
}
