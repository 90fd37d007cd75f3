// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/wyndcrest/ledgercore/chainhash"
	"github.com/wyndcrest/ledgercore/wire"
)

// SigHashType represents the sighash byte appended to every ECDSA and
// legacy/BIP143 signature, selecting which parts of the transaction the
// signature commits to.
type SigHashType uint32

const (
	SigHashOld          SigHashType = 0x0
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80

	sigHashMask = 0x1f
)

// TxSigHashes caches the three rolling digests BIP143 and BIP341 reuse
// across every input of a transaction, so that verifying N SigHashAll
// inputs costs O(N) hashing instead of O(N^2).
type TxSigHashes struct {
	HashPrevOuts chainhash.Hash
	HashSequence chainhash.Hash
	HashOutputs  chainhash.Hash

	// HashPrevOutsV1/HashSequenceV1/HashOutputsV1 are the BIP341
	// variants, which use a single SHA256 rather than the legacy
	// double-SHA256.
	HashPrevOutsV1 chainhash.Hash
	HashSequenceV1 chainhash.Hash
	HashOutputsV1  chainhash.Hash

	// HashInputAmountsV1 and HashInputScriptsV1 additionally commit to
	// every previous output's value and script, as required by BIP341
	// when SIGHASH_ANYONECANPAY is not set.
	HashInputAmountsV1 chainhash.Hash
	HashInputScriptsV1 chainhash.Hash
}

// PrevOutFetcher resolves the previous output referenced by a transaction
// input, which the BIP341 sighash needs for every input regardless of
// which input is currently being signed.
type PrevOutFetcher interface {
	PrevOut(op wire.OutPoint) (wire.TxOut, bool)
}

// NewTxSigHashes precomputes the rolling digests for tx. fetcher is
// required for the BIP341 digests and may be nil if only legacy/BIP143
// sighashes will be requested.
func NewTxSigHashes(tx *wire.MsgTx, fetcher PrevOutFetcher) *TxSigHashes {
	h := new(TxSigHashes)

	prevOuts := wire.NewWriter()
	sequences := wire.NewWriter()
	for _, in := range tx.TxIn {
		prevOuts.WriteBytes(in.PreviousOutPoint.Hash[:])
		prevOuts.WriteUint32LE(in.PreviousOutPoint.Index)
		sequences.WriteUint32LE(in.Sequence)
	}
	h.HashPrevOuts = chainhash.DoubleHashH(prevOuts.Bytes())
	h.HashSequence = chainhash.DoubleHashH(sequences.Bytes())

	outputs := wire.NewWriter()
	for _, out := range tx.TxOut {
		wire.WriteTxOut(outputs, out)
	}
	h.HashOutputs = chainhash.DoubleHashH(outputs.Bytes())

	h.HashPrevOutsV1 = chainhash.Hash(chainhash.Sum256(prevOuts.Bytes()))
	h.HashSequenceV1 = chainhash.Hash(chainhash.Sum256(sequences.Bytes()))
	h.HashOutputsV1 = chainhash.Hash(chainhash.Sum256(outputs.Bytes()))

	if fetcher != nil {
		amounts := wire.NewWriter()
		scripts := wire.NewWriter()
		for _, in := range tx.TxIn {
			prevOut, _ := fetcher.PrevOut(in.PreviousOutPoint)
			amounts.WriteInt64LE(prevOut.Value)
			scripts.WriteVarBytes(prevOut.PkScript)
		}
		h.HashInputAmountsV1 = chainhash.Hash(chainhash.Sum256(amounts.Bytes()))
		h.HashInputScriptsV1 = chainhash.Hash(chainhash.Sum256(scripts.Bytes()))
	}

	return h
}

// CalcSignatureHash computes the legacy (pre-segwit) signature hash for
// input idx of tx, spending subScript. OP_CODESEPARATOR has already been
// stripped from subScript by the caller's active-codeseparator tracking
// where applicable; this function also strips any remaining instances as
// a defensive measure, matching consensus behavior.
func CalcSignatureHash(subScript []byte, hashType SigHashType, tx *wire.MsgTx, idx int) ([]byte, error) {
	ops, err := ParseScript(subScript)
	if err != nil {
		return nil, scriptError(ErrInternal, "cannot parse subscript for signature hash")
	}
	return calcSignatureHash(ops, hashType, tx, idx), nil
}

func calcSignatureHash(ops []Op, hashType SigHashType, tx *wire.MsgTx, idx int) []byte {
	// A historical bug: SigHashSingle with no corresponding output
	// signs the fixed hash of 1 rather than failing. This is now part
	// of consensus.
	if hashType&sigHashMask == SigHashSingle && idx >= len(tx.TxOut) {
		var h chainhash.Hash
		h[0] = 0x01
		return h[:]
	}

	ops = removeCodeSeparators(ops)

	txCopy := tx.ShallowCopy()
	for i := range txCopy.TxIn {
		if i == idx {
			txCopy.TxIn[i].SignatureScript = unparseScript(ops)
		} else {
			txCopy.TxIn[i].SignatureScript = nil
		}
	}

	switch hashType & sigHashMask {
	case SigHashNone:
		txCopy.TxOut = txCopy.TxOut[:0]
		for i := range txCopy.TxIn {
			if i != idx {
				txCopy.TxIn[i].Sequence = 0
			}
		}

	case SigHashSingle:
		txCopy.TxOut = txCopy.TxOut[:idx+1]
		for i := 0; i < idx; i++ {
			txCopy.TxOut[i].Value = -1
			txCopy.TxOut[i].PkScript = nil
		}
		for i := range txCopy.TxIn {
			if i != idx {
				txCopy.TxIn[i].Sequence = 0
			}
		}

	default:
		// SigHashOld and SigHashAll (and any undefined type, which
		// consensus treats the same as SigHashAll) sign every input
		// and output unmodified.
	}

	if hashType&SigHashAnyOneCanPay != 0 {
		txCopy.TxIn = txCopy.TxIn[idx : idx+1]
	}

	w := wire.NewWriter()
	txCopy.SerializeNoWitness(w)
	w.WriteUint32LE(uint32(hashType))
	return chainhash.DoubleHashB(w.Bytes())
}

// CalcWitnessSignatureHash computes the BIP143 (segwit v0) signature hash
// for input idx of tx, spending a witness program whose script code is
// subScript and whose referenced output carries amt satoshis.
func CalcWitnessSignatureHash(subScript []byte, sigHashes *TxSigHashes, hashType SigHashType, tx *wire.MsgTx, idx int, amt int64) ([]byte, error) {
	if idx >= len(tx.TxIn) {
		return nil, scriptError(ErrInternal, "input index out of range for signature hash")
	}

	w := wire.NewWriter()
	w.WriteInt32LE(tx.Version)

	var zero chainhash.Hash
	if hashType&SigHashAnyOneCanPay == 0 {
		w.WriteBytes(sigHashes.HashPrevOuts[:])
	} else {
		w.WriteBytes(zero[:])
	}

	if hashType&SigHashAnyOneCanPay == 0 &&
		hashType&sigHashMask != SigHashSingle &&
		hashType&sigHashMask != SigHashNone {
		w.WriteBytes(sigHashes.HashSequence[:])
	} else {
		w.WriteBytes(zero[:])
	}

	txIn := tx.TxIn[idx]
	w.WriteBytes(txIn.PreviousOutPoint.Hash[:])
	w.WriteUint32LE(txIn.PreviousOutPoint.Index)

	ops, err := ParseScript(subScript)
	if err != nil {
		return nil, scriptError(ErrInternal, "cannot parse witness script code")
	}
	if isWitnessPubKeyHashScriptCode(ops) {
		w.WriteByte(0x19)
		w.WriteByte(byte(OP_DUP))
		w.WriteByte(byte(OP_HASH160))
		w.WriteByte(0x14)
		w.WriteBytes(ops[1].Data)
		w.WriteByte(byte(OP_EQUALVERIFY))
		w.WriteByte(byte(OP_CHECKSIG))
	} else {
		w.WriteVarBytes(unparseScript(removeCodeSeparators(ops)))
	}

	w.WriteInt64LE(amt)
	w.WriteUint32LE(txIn.Sequence)

	if hashType&sigHashMask != SigHashSingle && hashType&sigHashMask != SigHashNone {
		w.WriteBytes(sigHashes.HashOutputs[:])
	} else if hashType&sigHashMask == SigHashSingle && idx < len(tx.TxOut) {
		out := wire.NewWriter()
		wire.WriteTxOut(out, tx.TxOut[idx])
		w.WriteBytes(chainhash.DoubleHashB(out.Bytes()))
	} else {
		w.WriteBytes(zero[:])
	}

	w.WriteUint32LE(tx.LockTime)
	w.WriteUint32LE(uint32(hashType))

	return chainhash.DoubleHashB(w.Bytes()), nil
}

// isWitnessPubKeyHashScriptCode recognizes the p2wkh script-code shape
// used as the implicit expansion of a v0 P2WKH witness program: OP_0
// followed by a 20-byte push, which BIP143 re-expands into a full P2PKH-shaped script
// code before hashing.
func isWitnessPubKeyHashScriptCode(ops []Op) bool {
	return len(ops) == 2 && ops[0].Code == OP_0 && ops[1].Code == 0x14
}
