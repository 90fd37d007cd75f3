// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"fmt"

	"github.com/wyndcrest/ledgercore/chainhash"
	"github.com/wyndcrest/ledgercore/txscript"
	"github.com/wyndcrest/ledgercore/wire"
)

const (
	// CoinbaseWitnessDataLen is the required length of the coinbase's
	// witness commitment nonce.
	CoinbaseWitnessDataLen = 32

	// CoinbaseWitnessPkScriptLength is the length of a coinbase output
	// script carrying a witness commitment: OP_RETURN, the magic
	// bytes, and the 32-byte commitment itself.
	CoinbaseWitnessPkScriptLength = 38
)

// WitnessMagicBytes prefixes the coinbase output script that carries a
// block's witness commitment.
var WitnessMagicBytes = []byte{
	byte(txscript.OP_RETURN), 0x24, // push the following 36 bytes
	0xaa, 0x21, 0xa9, 0xed,
}

// txLeafHashes returns the ordered leaf hashes used as the base row of
// a block's transaction Merkle tree: txids, or (for the witness tree)
// wtxids with the coinbase's wtxid forced to the zero hash per BIP141.
func txLeafHashes(transactions []*wire.MsgTx, witness bool) []chainhash.Hash {
	leaves := make([]chainhash.Hash, len(transactions))
	for i, tx := range transactions {
		switch {
		case witness && i == 0:
			leaves[i] = chainhash.Hash{}
		case witness:
			leaves[i] = tx.WitnessHash()
		default:
			leaves[i] = tx.TxHash()
		}
	}
	return leaves
}

// BuildMerkleTreeStore builds the full Merkle tree over a block's
// transactions and returns it as a linear array: leaves first, then
// each successive level, with the root as the final element. The
// witness flag selects between the txid tree and the BIP141 wtxid
// tree. The returned mutated flag reports whether the tree exhibits
// the CVE-2012-2459 tail-duplication construction, per
// chainhash.MerkleRootMutated.
func BuildMerkleTreeStore(transactions []*wire.MsgTx, witness bool) (store []chainhash.Hash, mutated bool) {
	leaves := txLeafHashes(transactions, witness)
	if len(leaves) == 0 {
		return nil, false
	}

	level := leaves
	store = append(store, level...)
	for len(level) > 1 {
		for i := 0; i+1 < len(level); i += 2 {
			if level[i] == level[i+1] {
				mutated = true
			}
		}
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, len(level)/2)
		for i := range next {
			next[i] = chainhash.HashMerkleBranches(&level[2*i], &level[2*i+1])
		}
		store = append(store, next...)
		level = next
	}
	return store, mutated
}

// CalcMerkleRoot computes a block's transaction Merkle root directly,
// without retaining the interior nodes BuildMerkleTreeStore returns.
// The mutated return carries the same CVE-2012-2459 tail-duplication
// signal as BuildMerkleTreeStore.
func CalcMerkleRoot(transactions []*wire.MsgTx, witness bool) (root chainhash.Hash, mutated bool) {
	return chainhash.MerkleRootMutated(txLeafHashes(transactions, witness))
}

// ExtractWitnessCommitment locates the witness commitment output
// within a coinbase transaction, scanning from the last output since
// that is where implementations conventionally place it. It reports
// false if none is present.
func ExtractWitnessCommitment(coinbase *wire.MsgTx) ([]byte, bool) {
	for i := len(coinbase.TxOut) - 1; i >= 0; i-- {
		pkScript := coinbase.TxOut[i].PkScript
		if len(pkScript) >= CoinbaseWitnessPkScriptLength &&
			bytes.HasPrefix(pkScript, WitnessMagicBytes) {
			start := len(WitnessMagicBytes)
			return pkScript[start:CoinbaseWitnessPkScriptLength], true
		}
	}
	return nil, false
}

// ValidateWitnessCommitment checks a block's witness commitment, if
// any, against the witness Merkle root computed from its own
// transactions. A block whose transactions carry no witness data is
// valid without a commitment; one with witness data and no commitment
// is not.
func ValidateWitnessCommitment(block *wire.MsgBlock) error {
	if len(block.Transactions) == 0 {
		return ruleError(ErrNoTransactions, "cannot validate witness commitment of block without transactions")
	}
	coinbase := block.Transactions[0]
	if len(coinbase.TxIn) == 0 {
		return ruleError(ErrNoTxInputs, "coinbase transaction has no inputs")
	}

	commitment, found := ExtractWitnessCommitment(coinbase)
	if !found {
		for _, tx := range block.Transactions {
			if tx.HasWitness() {
				return ruleError(ErrUnexpectedWitness, "block contains transaction with witness data, yet no witness commitment present")
			}
		}
		return nil
	}

	witness := coinbase.TxIn[0].Witness
	if len(witness) != 1 {
		return ruleError(ErrInvalidWitnessCommitment, fmt.Sprintf(
			"the coinbase transaction has %d items in its witness stack when only one is allowed", len(witness)))
	}
	nonce := witness[0]
	if len(nonce) != CoinbaseWitnessDataLen {
		return ruleError(ErrInvalidWitnessCommitment, fmt.Sprintf(
			"the coinbase transaction witness nonce has %d bytes when it must be %d bytes", len(nonce), CoinbaseWitnessDataLen))
	}

	witnessRoot, _ := CalcMerkleRoot(block.Transactions, true)
	var preimage [chainhash.HashSize * 2]byte
	copy(preimage[:chainhash.HashSize], witnessRoot[:])
	copy(preimage[chainhash.HashSize:], nonce)
	computed := chainhash.DoubleHashB(preimage[:])

	if !bytes.Equal(computed, commitment) {
		return ruleError(ErrWitnessCommitmentMismatch, fmt.Sprintf(
			"witness commitment does not match: computed %x, coinbase includes %x", computed, commitment))
	}
	return nil
}
