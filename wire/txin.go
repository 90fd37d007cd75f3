// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// MaxTxInSequenceNum is the default, "final" sequence number: a value
// of this at all inputs disables the transaction's absolute locktime.
const MaxTxInSequenceNum uint32 = 0xffffffff

// maxWitnessItemsPerInput and maxWitnessItemSize bound the witness
// stack read off the wire for a single input, guarding against
// memory-exhaustion from a malformed count or length field.
const (
	maxWitnessItemsPerInput = 500_000
	maxWitnessItemSize      = 11_000
)

// maxTxInPerMessage bounds how many inputs a single decoded transaction
// may declare, derived from the smallest possible encoded input size.
const maxTxInPerMessage = MaxMessagePayload/(outpointSerializeSize+5) + 1

// TxIn is a single transaction input: a reference to a previous output,
// the script that satisfies it, an optional segregated witness, and a
// relative-locktime/RBF sequence number.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Witness          TxWitness
	Sequence         uint32
}

// NewTxIn returns a TxIn spending prevOut with the given signature
// script and a default (final) sequence number.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// SerializeSize returns the number of bytes it takes to serialize the
// input, excluding any witness data (which is carried separately in the
// witnessed transaction encoding).
func (t *TxIn) SerializeSize() int {
	return outpointSerializeSize + 4 + VarBytesSerializeSize(len(t.SignatureScript))
}

// TxWitness is the witness stack attached to a TxIn: an ordered list of
// byte-string stack elements that, once the scriptSig/scriptPubKey pair
// has been evaluated, supplies a witness program's initial stack.
type TxWitness [][]byte

// SerializeSize returns the number of bytes it takes to serialize the
// witness: a varint element count followed by each element's own
// varint-length-prefixed bytes.
func (t TxWitness) SerializeSize() int {
	n := VarIntSerializeSize(uint64(len(t)))
	for _, item := range t {
		n += VarBytesSerializeSize(len(item))
	}
	return n
}

func readTxIn(r *Reader) *TxIn {
	ti := &TxIn{}
	ti.PreviousOutPoint = readOutPoint(r)
	ti.SignatureScript = r.ReadVarBytes(MaxMessagePayload, "transaction input signature script")
	ti.Sequence = r.ReadUint32LE()
	return ti
}

func writeTxIn(w *Writer, ti *TxIn) {
	writeOutPoint(w, &ti.PreviousOutPoint)
	w.WriteVarBytes(ti.SignatureScript)
	w.WriteUint32LE(ti.Sequence)
}

func readTxWitness(r *Reader) TxWitness {
	count := r.ReadVarInt()
	if r.Exhausted() {
		return nil
	}
	if count > maxWitnessItemsPerInput {
		r.fail(ErrTooManyItems, "transaction input witness", "too many witness items")
		return nil
	}
	wit := make(TxWitness, count)
	for i := range wit {
		wit[i] = r.ReadVarBytes(maxWitnessItemSize, "script witness item")
		if r.Exhausted() {
			return nil
		}
	}
	return wit
}

func writeTxWitness(w *Writer, wit TxWitness) {
	w.WriteVarInt(uint64(len(wit)))
	for _, item := range wit {
		w.WriteVarBytes(item)
	}
}
