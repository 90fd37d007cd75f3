// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "github.com/wyndcrest/ledgercore/chainhash"

// TxVersion is the default transaction version.
const TxVersion int32 = 2

// witnessMarkerBytes are the two bytes that, read immediately after a
// transaction's version field, mark the witnessed serialization: a
// 0x00 marker (never a valid txin count) followed by a 0x01 flag.
var witnessMarkerBytes = [2]byte{0x00, 0x01}

// defaultTxInOutAlloc sizes the initial backing array for a freshly
// built transaction's input/output slices.
const defaultTxInOutAlloc = 8

// MsgTx is a Bitcoin transaction: a version, a list of inputs each
// optionally carrying a segregated witness, a list of outputs, and a
// locktime.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// NewMsgTx returns an empty transaction with the given version.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{
		Version: version,
		TxIn:    make([]*TxIn, 0, defaultTxInOutAlloc),
		TxOut:   make([]*TxOut, 0, defaultTxInOutAlloc),
	}
}

// AddTxIn appends an input to the transaction.
func (msg *MsgTx) AddTxIn(ti *TxIn) { msg.TxIn = append(msg.TxIn, ti) }

// AddTxOut appends an output to the transaction.
func (msg *MsgTx) AddTxOut(to *TxOut) { msg.TxOut = append(msg.TxOut, to) }

// HasWitness reports whether any input carries witness data.
func (msg *MsgTx) HasWitness() bool {
	for _, ti := range msg.TxIn {
		if len(ti.Witness) != 0 {
			return true
		}
	}
	return false
}

// IsCoinBase reports whether the transaction is a coinbase transaction:
// exactly one input, whose previous outpoint is null.
func (msg *MsgTx) IsCoinBase() bool {
	return len(msg.TxIn) == 1 && msg.TxIn[0].PreviousOutPoint.IsNull()
}

// baseSize is the serialized size excluding witness data and the
// marker/flag bytes.
func (msg *MsgTx) baseSize() int {
	n := 8 + VarIntSerializeSize(uint64(len(msg.TxIn))) + VarIntSerializeSize(uint64(len(msg.TxOut)))
	for _, ti := range msg.TxIn {
		n += ti.SerializeSize()
	}
	for _, to := range msg.TxOut {
		n += to.SerializeSize()
	}
	return n
}

// SerializeSizeStripped returns the nominal (non-witnessed) serialized
// size of the transaction.
func (msg *MsgTx) SerializeSizeStripped() int { return msg.baseSize() }

// SerializeSize returns the serialized size of the transaction,
// including witness data and the marker/flag bytes when present.
func (msg *MsgTx) SerializeSize() int {
	n := msg.baseSize()
	if msg.HasWitness() {
		n += len(witnessMarkerBytes)
		for _, ti := range msg.TxIn {
			n += ti.Witness.SerializeSize()
		}
	}
	return n
}

// Weight computes the BIP141 transaction weight:
// 3*(nominal size) + 1*(witnessed size).
func (msg *MsgTx) Weight() int64 {
	stripped := msg.SerializeSizeStripped()
	total := msg.SerializeSize()
	return int64(3*stripped + total)
}

// VSize returns the virtual size in weight units of 4: ceil(Weight/4).
func (msg *MsgTx) VSize() int64 {
	w := msg.Weight()
	return (w + 3) / 4
}

// serializeNoWitness encodes the transaction using the nominal
// (pre-segwit) wire format regardless of whether any input carries a
// witness.
func (msg *MsgTx) serializeNoWitness(w *Writer) {
	w.WriteInt32LE(msg.Version)
	w.WriteVarInt(uint64(len(msg.TxIn)))
	for _, ti := range msg.TxIn {
		writeTxIn(w, ti)
	}
	w.WriteVarInt(uint64(len(msg.TxOut)))
	for _, to := range msg.TxOut {
		writeTxOut(w, to)
	}
	w.WriteUint32LE(msg.LockTime)
}

// SerializeNoWitness encodes the transaction in the nominal form,
// dropping any witness data, and returns the resulting bytes.
func (msg *MsgTx) SerializeNoWitness() ([]byte, error) {
	w := NewWriter()
	msg.serializeNoWitness(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Serialize encodes the transaction, using the witnessed form (marker,
// flag, and per-input witness stacks) whenever any input has witness
// data, and returns the resulting bytes.
func (msg *MsgTx) Serialize() ([]byte, error) {
	w := NewWriter()
	if !msg.HasWitness() {
		msg.serializeNoWitness(w)
		if err := w.Err(); err != nil {
			return nil, err
		}
		return w.Bytes(), nil
	}

	w.WriteInt32LE(msg.Version)
	w.WriteBytes(witnessMarkerBytes[:])
	w.WriteVarInt(uint64(len(msg.TxIn)))
	for _, ti := range msg.TxIn {
		writeTxIn(w, ti)
	}
	w.WriteVarInt(uint64(len(msg.TxOut)))
	for _, to := range msg.TxOut {
		writeTxOut(w, to)
	}
	for _, ti := range msg.TxIn {
		writeTxWitness(w, ti.Witness)
	}
	w.WriteUint32LE(msg.LockTime)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DeserializeTx decodes a transaction from buf, auto-detecting the
// witnessed encoding via the marker/flag bytes immediately following
// the version field.
func DeserializeTx(buf []byte) (*MsgTx, error) {
	r := NewReader(buf)
	msg := &MsgTx{}

	msg.Version = r.ReadInt32LE()
	count := r.ReadVarInt()

	segwit := false
	if count == 0 && !r.Exhausted() {
		flag := r.ReadByte()
		if flag != witnessMarkerBytes[1] {
			return nil, newError(ErrMalformedWitness, "DeserializeTx", "unexpected flag byte after zero-input marker")
		}
		segwit = true
		count = r.ReadVarInt()
	}
	if r.Exhausted() {
		return nil, r.Err()
	}
	if count > maxTxInPerMessage {
		return nil, newError(ErrTooManyItems, "DeserializeTx", "too many inputs for transaction size")
	}

	msg.TxIn = make([]*TxIn, count)
	for i := range msg.TxIn {
		msg.TxIn[i] = readTxIn(r)
	}
	if r.Exhausted() {
		return nil, r.Err()
	}

	outCount := r.ReadVarInt()
	if r.Exhausted() {
		return nil, r.Err()
	}
	if outCount > maxTxOutPerMessage {
		return nil, newError(ErrTooManyItems, "DeserializeTx", "too many outputs for transaction size")
	}
	msg.TxOut = make([]*TxOut, outCount)
	for i := range msg.TxOut {
		msg.TxOut[i] = readTxOut(r)
	}
	if r.Exhausted() {
		return nil, r.Err()
	}

	if segwit {
		for _, ti := range msg.TxIn {
			ti.Witness = readTxWitness(r)
			if r.Exhausted() {
				return nil, r.Err()
			}
		}
	}

	msg.LockTime = r.ReadUint32LE()
	if r.Exhausted() {
		return nil, r.Err()
	}
	return msg, nil
}

// TxHash returns the transaction's identity hash (txid): the
// double-sha256 of the nominal, non-witnessed serialization. This is
// invariant under any witness data attached to the transaction.
func (msg *MsgTx) TxHash() chainhash.Hash {
	w := NewWriter()
	msg.serializeNoWitness(w)
	return chainhash.HashH(w.Bytes())
}

// WitnessHash returns the transaction's BIP141/BIP144 witness identity
// hash (wtxid): the double-sha256 of the full witnessed serialization.
// For a transaction with no witness data this equals TxHash.
func (msg *MsgTx) WitnessHash() chainhash.Hash {
	if !msg.HasWitness() {
		return msg.TxHash()
	}
	b, err := msg.Serialize()
	if err != nil {
		return chainhash.Hash{}
	}
	return chainhash.HashH(b)
}

// ShallowCopy returns a transaction whose TxIn and TxOut slices hold
// fresh structs (so a caller can rewrite an individual input's
// SignatureScript, zero an output's value, or truncate either slice
// without mutating msg), while the underlying script and witness byte
// slices are shared. This is the allocation-light copy the signature
// hash algorithms need, as opposed to Copy's full deep copy.
func (msg *MsgTx) ShallowCopy() *MsgTx {
	newTx := &MsgTx{
		Version:  msg.Version,
		TxIn:     make([]*TxIn, len(msg.TxIn)),
		TxOut:    make([]*TxOut, len(msg.TxOut)),
		LockTime: msg.LockTime,
	}
	txIns := make([]TxIn, len(msg.TxIn))
	for i, oldTxIn := range msg.TxIn {
		txIns[i] = *oldTxIn
		newTx.TxIn[i] = &txIns[i]
	}
	txOuts := make([]TxOut, len(msg.TxOut))
	for i, oldTxOut := range msg.TxOut {
		txOuts[i] = *oldTxOut
		newTx.TxOut[i] = &txOuts[i]
	}
	return newTx
}

// Copy returns a deep copy of the transaction.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := &MsgTx{
		Version:  msg.Version,
		TxIn:     make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:    make([]*TxOut, 0, len(msg.TxOut)),
		LockTime: msg.LockTime,
	}
	for _, ti := range msg.TxIn {
		newIn := &TxIn{
			PreviousOutPoint: ti.PreviousOutPoint,
			Sequence:         ti.Sequence,
		}
		if len(ti.SignatureScript) > 0 {
			newIn.SignatureScript = append([]byte(nil), ti.SignatureScript...)
		}
		if len(ti.Witness) > 0 {
			newIn.Witness = make(TxWitness, len(ti.Witness))
			for i, item := range ti.Witness {
				newIn.Witness[i] = append([]byte(nil), item...)
			}
		}
		newTx.TxIn = append(newTx.TxIn, newIn)
	}
	for _, to := range msg.TxOut {
		newOut := &TxOut{Value: to.Value}
		if len(to.PkScript) > 0 {
			newOut.PkScript = append([]byte(nil), to.PkScript...)
		}
		newTx.TxOut = append(newTx.TxOut, newOut)
	}
	return newTx
}
