// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/wyndcrest/ledgercore/chainhash"
	"github.com/wyndcrest/ledgercore/wire"
)

// SigHashDefault is the implicit BIP341 sighash type: signing everything,
// distinct from SigHashAll only in that the type byte is omitted from the
// serialized signature.
const SigHashDefault SigHashType = 0x0

// TapscriptLeafVersion is the leaf version byte tapscript spends commit
// to in the control block, per BIP342.
const TapscriptLeafVersion byte = 0xc0

// annexTag marks the presence of the optional BIP341 annex as the first
// byte of the final witness stack item when one is present.
const annexTag byte = 0x50

// ExtractAnnex splits the optional BIP341 annex off the end of a witness
// stack. If the last item begins with annexTag and the witness has more
// than one element (key-path) or more than two (script-path, where the
// control block and script also occupy stack slots), it is the annex;
// otherwise annex is nil and witness is returned unchanged.
func ExtractAnnex(witness wire.TxWitness) (stripped wire.TxWitness, annex []byte) {
	if len(witness) < 2 {
		return witness, nil
	}
	last := witness[len(witness)-1]
	if len(last) == 0 || last[0] != annexTag {
		return witness, nil
	}
	return witness[:len(witness)-1], last
}

// TaprootSigHashOpts carries the extra context the BIP341 sighash needs
// beyond a legacy/BIP143 one: the spent prevout's own amount and script
// (committed to directly under ANYONECANPAY), the annex, and, for a
// script-path spend, the tapleaf hash and key version being executed.
type TaprootSigHashOpts struct {
	// ExtFlag is 0 for a key-path spend and 1 for a tapscript
	// (script-path) spend, per BIP341's ext_flag.
	ExtFlag byte

	// TapLeafHash is the tagged hash of the executing leaf script, set
	// only when ExtFlag is 1.
	TapLeafHash chainhash.Hash

	// KeyVersion is always 0 under BIP342; reserved for future leaf
	// versions.
	KeyVersion byte

	// CodeSepPos is the position of the last executed OP_CODESEPARATOR
	// within the tapscript, or 0xffffffff if none executed.
	CodeSepPos uint32

	// Annex, if non-nil, is the raw annex bytes including the leading
	// annexTag byte.
	Annex []byte

	// InputAmount and InputScript are the value and scriptPubKey of
	// the prevout being spent by the input at idx. They are only
	// consulted when hashType carries SIGHASH_ANYONECANPAY, which
	// commits to this single input's prevout data directly rather than
	// through the aggregate HashInputAmountsV1/HashInputScriptsV1.
	InputAmount int64
	InputScript []byte
}

// CalcTaprootSignatureHash computes the BIP341 signature hash for input
// idx of tx. sigHashes must have been built with a non-nil PrevOutFetcher
// so its V1 input-amount and input-script commitments are populated.
func CalcTaprootSignatureHash(tx *wire.MsgTx, sigHashes *TxSigHashes, hashType SigHashType, idx int, opts TaprootSigHashOpts) ([]byte, error) {
	if idx >= len(tx.TxIn) {
		return nil, scriptError(ErrInternal, "input index out of range for taproot signature hash")
	}
	if hashType&sigHashMask == SigHashSingle && idx >= len(tx.TxOut) {
		return nil, scriptError(ErrInvalidSignature, "SIGHASH_SINGLE requires a corresponding output")
	}

	w := wire.NewWriter()
	w.WriteByte(0x00) // epoch, per BIP341
	w.WriteByte(byte(hashType))

	w.WriteInt32LE(tx.Version)
	w.WriteUint32LE(tx.LockTime)

	anyoneCanPay := hashType&SigHashAnyOneCanPay != 0
	if !anyoneCanPay {
		w.WriteBytes(sigHashes.HashPrevOutsV1[:])
		w.WriteBytes(sigHashes.HashInputAmountsV1[:])
		w.WriteBytes(sigHashes.HashInputScriptsV1[:])
		w.WriteBytes(sigHashes.HashSequenceV1[:])
	}

	outType := hashType & sigHashMask
	if outType != SigHashNone && outType != SigHashSingle {
		w.WriteBytes(sigHashes.HashOutputsV1[:])
	}

	spendType := opts.ExtFlag << 1
	if opts.Annex != nil {
		spendType |= 0x1
	}
	w.WriteByte(spendType)

	if anyoneCanPay {
		in := tx.TxIn[idx]
		w.WriteBytes(in.PreviousOutPoint.Hash[:])
		w.WriteUint32LE(in.PreviousOutPoint.Index)
		w.WriteInt64LE(opts.InputAmount)
		w.WriteVarBytes(opts.InputScript)
		w.WriteUint32LE(in.Sequence)
	} else {
		w.WriteUint32LE(uint32(idx))
	}

	if opts.Annex != nil {
		annexHash := chainhash.HashH(encodeVarBytes(opts.Annex))
		w.WriteBytes(annexHash[:])
	}

	if outType == SigHashSingle {
		out := wire.NewWriter()
		wire.WriteTxOut(out, tx.TxOut[idx])
		outHash := chainhash.HashH(out.Bytes())
		w.WriteBytes(outHash[:])
	}

	if opts.ExtFlag == 1 {
		w.WriteBytes(opts.TapLeafHash[:])
		w.WriteByte(opts.KeyVersion)
		w.WriteUint32LE(opts.CodeSepPos)
	}

	return chainhash.TaggedHash("TapSighash", w.Bytes())[:], nil
}

// encodeVarBytes mirrors wire's varint-length-prefixed byte encoding for
// the annex commitment, which hashes the annex together with its own
// length prefix per BIP341.
func encodeVarBytes(b []byte) []byte {
	w := wire.NewWriter()
	w.WriteVarBytes(b)
	return w.Bytes()
}

// TapLeafHash computes the tagged hash BIP341 uses to commit to a single
// tapscript leaf: its leaf version byte followed by its length-prefixed
// script.
func TapLeafHash(leafVersion byte, script []byte) chainhash.Hash {
	w := wire.NewWriter()
	w.WriteByte(leafVersion)
	w.WriteVarBytes(script)
	return chainhash.TaggedHash("TapLeaf", w.Bytes())
}

// TapBranchHash computes the tagged hash combining two sibling nodes in a
// taproot script tree, per BIP341's lexicographic-ordering rule.
func TapBranchHash(a, b chainhash.Hash) chainhash.Hash {
	if lexCompare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return chainhash.TaggedHash("TapBranch", a[:], b[:])
}

func lexCompare(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}
