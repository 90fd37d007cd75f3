// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "encoding/binary"

// MaxMessagePayload is the maximum bytes a single wire-encoded structure
// (a transaction, a block) is allowed to occupy. It bounds the sanity
// checks applied to count and length fields read off the wire so that a
// malformed input cannot force an unbounded allocation.
const MaxMessagePayload = 32 * 1024 * 1024

// MaxBlockBaseSize is the maximum serialized size, excluding witness
// data, of a block (BIP141's base size cap).
const MaxBlockBaseSize = 1_000_000

// MaxBlockWeight is BIP141's block weight cap.
const MaxBlockWeight = 4_000_000

// freeListMaxScriptSize and freeListMaxItems size the pool of reusable
// script buffers used while decoding scripts off the wire, avoiding a
// fresh allocation per input/output/witness-item on the hot decode path.
const (
	freeListMaxScriptSize = 512
	freeListMaxItems      = 12500
)

// scriptFreeList is a free list of byte slices used as scratch space
// while deserializing scripts, to cut down on GC pressure when decoding
// many transactions.
type scriptFreeList chan []byte

func (c scriptFreeList) Borrow(size uint64) []byte {
	if size > freeListMaxScriptSize {
		return make([]byte, size)
	}
	var buf []byte
	select {
	case buf = <-c:
	default:
		buf = make([]byte, freeListMaxScriptSize)
	}
	return buf[:size]
}

func (c scriptFreeList) Return(buf []byte) {
	if cap(buf) != freeListMaxScriptSize {
		return
	}
	select {
	case c <- buf:
	default:
	}
}

var scriptPool scriptFreeList = make(chan []byte, freeListMaxItems)

// Reader is a cursor over an in-memory byte range that tracks whether a
// read has ever run past the end of the range. Once exhausted, every
// subsequent read is a no-op that keeps returning zero values; callers
// check Err (or Exhausted) once at the end of a parse rather than after
// every field.
type Reader struct {
	buf       []byte
	pos       int
	exhausted bool
	err       *Error
}

// NewReader returns a Reader over buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Exhausted reports whether a read has run past the end of the buffer.
func (r *Reader) Exhausted() bool { return r.exhausted }

// Err returns the first error encountered, or nil.
func (r *Reader) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.exhausted {
		return 0
	}
	return len(r.buf) - r.pos
}

func (r *Reader) fail(code ErrorCode, context, message string) {
	if r.exhausted {
		return
	}
	r.exhausted = true
	r.err = newError(code, context, message)
}

// ReadBytes reads exactly n bytes and returns them as a fresh slice.
func (r *Reader) ReadBytes(n int) []byte {
	if r.exhausted || n < 0 || r.pos+n > len(r.buf) {
		r.fail(ErrEOF, "ReadBytes", "not enough bytes remaining")
		return nil
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() byte {
	if r.exhausted || r.pos+1 > len(r.buf) {
		r.fail(ErrEOF, "ReadByte", "not enough bytes remaining")
		return 0
	}
	b := r.buf[r.pos]
	r.pos++
	return b
}

// ReadUint16LE reads a little-endian uint16.
func (r *Reader) ReadUint16LE() uint16 {
	b := r.ReadBytes(2)
	if r.exhausted {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// ReadUint32LE reads a little-endian uint32.
func (r *Reader) ReadUint32LE() uint32 {
	b := r.ReadBytes(4)
	if r.exhausted {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadUint64LE reads a little-endian uint64.
func (r *Reader) ReadUint64LE() uint64 {
	b := r.ReadBytes(8)
	if r.exhausted {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// ReadInt32LE reads a little-endian int32.
func (r *Reader) ReadInt32LE() int32 { return int32(r.ReadUint32LE()) }

// ReadInt64LE reads a little-endian int64.
func (r *Reader) ReadInt64LE() int64 { return int64(r.ReadUint64LE()) }

// ReadVarInt reads the standard Bitcoin variable-length integer: a
// single byte for values below 0xfd, else a prefix byte (0xfd/0xfe/0xff)
// followed by a fixed 2/4/8-byte little-endian value. Non-minimal
// encodings (a prefixed value that would fit in fewer bytes) are
// rejected.
func (r *Reader) ReadVarInt() uint64 {
	prefix := r.ReadByte()
	if r.exhausted {
		return 0
	}
	switch prefix {
	case 0xff:
		v := r.ReadUint64LE()
		if !r.exhausted && v <= 0xffffffff {
			r.fail(ErrVarIntOversize, "ReadVarInt", "8-byte varint below minimal range")
			return 0
		}
		return v
	case 0xfe:
		v := uint64(r.ReadUint32LE())
		if !r.exhausted && v <= 0xffff {
			r.fail(ErrVarIntOversize, "ReadVarInt", "4-byte varint below minimal range")
			return 0
		}
		return v
	case 0xfd:
		v := uint64(r.ReadUint16LE())
		if !r.exhausted && v < 0xfd {
			r.fail(ErrVarIntOversize, "ReadVarInt", "2-byte varint below minimal range")
			return 0
		}
		return v
	default:
		return uint64(prefix)
	}
}

// ReadVarBytes reads a varint length prefix followed by that many
// bytes, failing if the declared length exceeds maxAllowed.
func (r *Reader) ReadVarBytes(maxAllowed uint64, fieldName string) []byte {
	n := r.ReadVarInt()
	if r.exhausted {
		return nil
	}
	if n > maxAllowed {
		r.fail(ErrItemTooLarge, fieldName, "declared length exceeds maximum allowed")
		return nil
	}
	buf := scriptPool.Borrow(n)
	if r.exhausted || r.pos+int(n) > len(r.buf) {
		scriptPool.Return(buf)
		r.fail(ErrEOF, fieldName, "not enough bytes remaining")
		return nil
	}
	copy(buf, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return buf
}

// Writer accumulates an encoded byte stream, optionally bounded by a
// fixed capacity; writing past that capacity fails fast rather than
// growing unbounded.
type Writer struct {
	buf   []byte
	limit int // 0 means unbounded
	err   *Error
}

// NewWriter returns an unbounded Writer.
func NewWriter() *Writer { return &Writer{} }

// NewBoundedWriter returns a Writer that fails once more than limit
// bytes have been written to it.
func NewBoundedWriter(limit int) *Writer { return &Writer{limit: limit} }

// Err returns the first error encountered, or nil.
func (w *Writer) Err() error {
	if w.err == nil {
		return nil
	}
	return w.err
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) WriteBytes(b []byte) {
	if w.err != nil {
		return
	}
	if w.limit != 0 && len(w.buf)+len(b) > w.limit {
		w.err = newError(ErrWriteOverflow, "WriteBytes", "write exceeds bounded writer capacity")
		return
	}
	w.buf = append(w.buf, b...)
}

func (w *Writer) WriteByte(b byte) { w.WriteBytes([]byte{b}) }

func (w *Writer) WriteUint16LE(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.WriteBytes(b[:])
}

func (w *Writer) WriteUint32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.WriteBytes(b[:])
}

func (w *Writer) WriteUint64LE(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.WriteBytes(b[:])
}

func (w *Writer) WriteInt32LE(v int32) { w.WriteUint32LE(uint32(v)) }
func (w *Writer) WriteInt64LE(v int64) { w.WriteUint64LE(uint64(v)) }

// WriteVarInt writes v using the minimal encoding for the standard
// Bitcoin variable-length integer.
func (w *Writer) WriteVarInt(v uint64) {
	switch {
	case v < 0xfd:
		w.WriteByte(byte(v))
	case v <= 0xffff:
		w.WriteByte(0xfd)
		w.WriteUint16LE(uint16(v))
	case v <= 0xffffffff:
		w.WriteByte(0xfe)
		w.WriteUint32LE(uint32(v))
	default:
		w.WriteByte(0xff)
		w.WriteUint64LE(v)
	}
}

// WriteVarBytes writes a varint length prefix followed by b.
func (w *Writer) WriteVarBytes(b []byte) {
	w.WriteVarInt(uint64(len(b)))
	w.WriteBytes(b)
}

// VarIntSerializeSize returns the number of bytes WriteVarInt would
// emit for v, without performing the write.
func VarIntSerializeSize(v uint64) int {
	switch {
	case v < 0xfd:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// VarBytesSerializeSize returns the serialized size of a varint length
// prefix followed by n bytes.
func VarBytesSerializeSize(n int) int {
	return VarIntSerializeSize(uint64(n)) + n
}
