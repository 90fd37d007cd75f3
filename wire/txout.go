// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// MaxSatoshi is the maximum number of satoshis that can exist, used to
// bound a single output's value and a transaction's total output value.
const MaxSatoshi = 21_000_000 * 100_000_000

// maxTxOutPerMessage bounds how many outputs a single decoded
// transaction may declare.
const maxTxOutPerMessage = MaxMessagePayload/9 + 1

// TxOut is a single transaction output: an amount and the script that
// must be satisfied to spend it.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// NewTxOut returns a TxOut with the given value and public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{Value: value, PkScript: pkScript}
}

// SerializeSize returns the number of bytes it takes to serialize the
// output.
func (t *TxOut) SerializeSize() int {
	return 8 + VarBytesSerializeSize(len(t.PkScript))
}

func readTxOut(r *Reader) *TxOut {
	to := &TxOut{}
	to.Value = r.ReadInt64LE()
	to.PkScript = r.ReadVarBytes(MaxMessagePayload, "transaction output public key script")
	return to
}

func writeTxOut(w *Writer, to *TxOut) {
	w.WriteInt64LE(to.Value)
	w.WriteVarBytes(to.PkScript)
}

// WriteTxOut serializes a single output onto w. It is exported for the
// signature-hash algorithms in txscript, which hash individual outputs
// (and the running output-commitment digests of BIP143/BIP341) without
// going through a full MsgTx.
func WriteTxOut(w *Writer, to *TxOut) { writeTxOut(w, to) }
