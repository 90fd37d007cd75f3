// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"github.com/wyndcrest/ledgercore/chaincfg"
	"github.com/wyndcrest/ledgercore/chainhash"
	"github.com/wyndcrest/ledgercore/wire"
)

// LockTimeThreshold is the boundary between a locktime interpreted as
// a block height and one interpreted as a Unix timestamp: values below
// it are heights, values at or above it are times.
const LockTimeThreshold = 500_000_000

// WitnessScaleFactor is BIP141's discount applied to witness bytes
// when computing a transaction's weight.
const WitnessScaleFactor = 4

// minTxOutputWeight is the minimal weight of a valid transaction
// output, used to derive a cheap upper bound on how many outputs a
// serialized transaction of a given size could possibly declare.
const minTxOutputWeight = WitnessScaleFactor * 9

// CheckTransactionSanity performs context-free structural checks on a
// transaction: those that do not require chain state, the containing
// block, or the set of outputs it spends. This is the "check" stage of
// the validation pipeline and is safe to run on a transaction the
// moment it is received.
func CheckTransactionSanity(tx *wire.MsgTx) error {
	if len(tx.TxIn) == 0 {
		return ruleError(ErrNoTxInputs, "transaction has no inputs")
	}
	if len(tx.TxOut) == 0 {
		return ruleError(ErrNoTxOutputs, "transaction has no outputs")
	}

	if sz := tx.SerializeSize(); sz > wire.MaxBlockBaseSize {
		return ruleError(ErrTxTooBig, fmt.Sprintf(
			"serialized transaction is too big: %d bytes, max %d", sz, wire.MaxBlockBaseSize))
	}

	var totalSatoshi int64
	for _, txOut := range tx.TxOut {
		if txOut.Value < 0 {
			return ruleError(ErrBadTxOutValue, fmt.Sprintf(
				"transaction output has negative value of %d", txOut.Value))
		}
		if txOut.Value > wire.MaxSatoshi {
			return ruleError(ErrBadTxOutValue, fmt.Sprintf(
				"transaction output value of %d is higher than max allowed value of %d",
				txOut.Value, wire.MaxSatoshi))
		}
		totalSatoshi += txOut.Value
		if totalSatoshi < 0 {
			return ruleError(ErrBadTxOutValue, "total value of all transaction outputs overflows an int64")
		}
		if totalSatoshi > wire.MaxSatoshi {
			return ruleError(ErrBadTxOutValue, fmt.Sprintf(
				"total value of all transaction outputs is %d which is higher than max allowed value of %d",
				totalSatoshi, wire.MaxSatoshi))
		}
	}

	existingOutpoints := make(map[wire.OutPoint]struct{}, len(tx.TxIn))
	for _, txIn := range tx.TxIn {
		if _, exists := existingOutpoints[txIn.PreviousOutPoint]; exists {
			return ruleError(ErrDuplicateTxInputs, "transaction contains duplicate inputs")
		}
		existingOutpoints[txIn.PreviousOutPoint] = struct{}{}
	}

	if tx.IsCoinBase() {
		slen := len(tx.TxIn[0].SignatureScript)
		if slen < 2 || slen > 100 {
			return ruleError(ErrBadCoinbaseScriptLen, fmt.Sprintf(
				"coinbase transaction script length of %d is out of range (min: 2, max: 100)", slen))
		}
	} else {
		for _, txIn := range tx.TxIn {
			if txIn.PreviousOutPoint.IsNull() {
				return ruleError(ErrInvalidTxInput, "transaction input refers to previous output that is null")
			}
		}
	}

	return nil
}

// CheckTransactionContext performs the context-dependent checks that
// still do not require the set of outputs a transaction spends: the
// absolute locktime (BIP113-aware) and, for a coinbase, the BIP34
// height push.
func CheckTransactionContext(tx *wire.MsgTx, ctx chaincfg.Context) error {
	if !IsFinalizedTransaction(tx, ctx.Height, ctx.LockTimeCutoff()) {
		return ruleError(ErrUnfinalizedTx, fmt.Sprintf(
			"transaction %s is not finalized", tx.TxHash()))
	}

	if ctx.Flags.Has(chaincfg.FlagBIP34) && tx.IsCoinBase() {
		script := tx.TxIn[0].SignatureScript
		height, ok := decodeCoinbaseHeight(script)
		if !ok || height != ctx.Height {
			return ruleError(ErrBadCoinbaseHeight, fmt.Sprintf(
				"coinbase height mismatch: script does not push expected height %d", ctx.Height))
		}
	}

	return nil
}

// decodeCoinbaseHeight extracts the height pushed by a coinbase's
// signature script under BIP34: the script's first push, minimally
// encoded as a ScriptNum.
func decodeCoinbaseHeight(script []byte) (int32, bool) {
	if len(script) == 0 {
		return 0, false
	}
	n := int(script[0])
	switch {
	case n >= 1 && n <= 75:
		if len(script) < n+1 {
			return 0, false
		}
		return scriptNumToInt32(script[1 : n+1]), true
	default:
		return 0, false
	}
}

// scriptNumToInt32 decodes a minimally-encoded, little-endian,
// sign-magnitude ScriptNum into an int32.
func scriptNumToInt32(b []byte) int32 {
	if len(b) == 0 {
		return 0
	}
	var result int64
	for i, v := range b {
		result |= int64(v) << uint8(8*i)
	}
	if b[len(b)-1]&0x80 != 0 {
		result &^= 0x80 << uint8(8*(len(b)-1))
		result = -result
	}
	return int32(result)
}

// IsFinalizedTransaction reports whether a transaction is finalized
// relative to the given block height and median-time-past/timestamp
// cutoff. A zero locktime, or every input sequence at the max value,
// always finalizes a transaction regardless of the cutoff.
func IsFinalizedTransaction(tx *wire.MsgTx, blockHeight int32, cutoff uint32) bool {
	if tx.LockTime == 0 {
		return true
	}

	var blockTimeOrHeight uint32
	if tx.LockTime < LockTimeThreshold {
		blockTimeOrHeight = uint32(blockHeight)
	} else {
		blockTimeOrHeight = cutoff
	}
	if tx.LockTime < blockTimeOrHeight {
		return true
	}

	for _, txIn := range tx.TxIn {
		if txIn.Sequence != wire.MaxTxInSequenceNum {
			return false
		}
	}
	return true
}

// CheckBlockSanity performs context-free structural checks on a block:
// a non-empty transaction list headed by exactly one coinbase, no
// serialized-size overrun, and a Merkle root matching its transactions.
func CheckBlockSanity(block *wire.MsgBlock) error {
	transactions := block.Transactions
	if len(transactions) == 0 {
		return ruleError(ErrNoTransactions, "block does not contain any transactions")
	}
	if len(transactions) > maxTxPerBlock(block) {
		return ruleError(ErrBlockTooBig, "block contains too many transactions")
	}

	if !transactions[0].IsCoinBase() {
		return ruleError(ErrFirstTxNotCoinbase, "first transaction in block is not a coinbase")
	}
	for i, tx := range transactions[1:] {
		if tx.IsCoinBase() {
			return ruleError(ErrMultipleCoinbases, fmt.Sprintf(
				"block contains second coinbase at index %d", i+1))
		}
	}

	for _, tx := range transactions {
		if err := CheckTransactionSanity(tx); err != nil {
			return err
		}
	}

	calculatedRoot, mutated := CalcMerkleRoot(transactions, false)
	if mutated {
		log.Warnf("block Merkle tree contains duplicate adjacent hashes, rejecting as CVE-2012-2459 malleation")
		return ruleError(ErrBadMerkleRoot, "block contains duplicate transactions that malleate the Merkle root (CVE-2012-2459)")
	}
	if calculatedRoot != block.Header.MerkleRoot {
		return ruleError(ErrBadMerkleRoot, fmt.Sprintf(
			"block merkle root is invalid - block header indicates %s, but calculated value is %s",
			block.Header.MerkleRoot, calculatedRoot))
	}

	seen := make(map[chainhash.Hash]struct{}, len(transactions))
	for _, tx := range transactions {
		h := tx.TxHash()
		if _, ok := seen[h]; ok {
			return ruleError(ErrDuplicateTx, fmt.Sprintf("block contains duplicate transaction %s", h))
		}
		seen[h] = struct{}{}
	}

	if err := ValidateWitnessCommitment(block); err != nil {
		return err
	}

	return nil
}

// GuardCheck runs the context-free and context-dependent "check" stage
// checks a mempool-admission caller can perform without access to a
// containing block or the UTXO set a transaction spends.
func GuardCheck(tx *wire.MsgTx, ctx chaincfg.Context) error {
	if err := CheckTransactionSanity(tx); err != nil {
		return err
	}
	return CheckTransactionContext(tx, ctx)
}

// maxTxPerBlock bounds the number of transactions any block could
// contain: the maximum block weight divided by minTxOutputWeight, the
// weight of the smallest possible output. The block argument is not
// consulted.
func maxTxPerBlock(block *wire.MsgBlock) int {
	return wire.MaxBlockWeight/minTxOutputWeight + 1
}
