// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"github.com/wyndcrest/ledgercore/chaincfg"
	"github.com/wyndcrest/ledgercore/wire"
)

// sequenceLockTimeDisabled, when set in an input's sequence number,
// opts that input out of BIP68 relative-locktime enforcement entirely.
const sequenceLockTimeDisabled = 1 << 31

// sequenceLockTimeIsSeconds distinguishes a relative lock expressed in
// units of 512 seconds (set) from one expressed in blocks (unset).
const sequenceLockTimeIsSeconds = 1 << 22

// sequenceLockTimeMask extracts the relative lock value, once the type
// bit above has been consulted.
const sequenceLockTimeMask = 0x0000ffff

// sequenceLockTimeGranularity is the power-of-two scaling a
// seconds-denominated relative lock is shifted by.
const sequenceLockTimeGranularity = 9

// SequenceLock is the resolved minimum height and median-time-past a
// transaction's relative locktimes (BIP68) demand before it may be
// included in a block. A value of -1 for either field means that
// dimension imposes no constraint.
type SequenceLock struct {
	MinHeight int32
	MinTime   int64
}

// CalcSequenceLock resolves tx's BIP68 relative locktimes against the
// heights and median-times-past of the outputs it spends, returning
// the tightest (latest) height and time bound across every input. It
// is unconstrained for a pre-BIP68 transaction version, when BIP68
// is not active, or for a coinbase (which has no inputs to lock).
func CalcSequenceLock(tx *wire.MsgTx, entries []UTXOEntry, flags chaincfg.Flags) SequenceLock {
	lock := SequenceLock{MinHeight: -1, MinTime: -1}
	if tx.Version < 2 || !flags.Has(chaincfg.FlagBIP68) || tx.IsCoinBase() {
		return lock
	}

	for i, txIn := range tx.TxIn {
		if txIn.Sequence&sequenceLockTimeDisabled != 0 {
			continue
		}
		entry := entries[i]

		if txIn.Sequence&sequenceLockTimeIsSeconds != 0 {
			relativeSeconds := int64(txIn.Sequence&sequenceLockTimeMask) << sequenceLockTimeGranularity
			minTime := entry.BlockMedianTimePast + relativeSeconds - 1
			if minTime > lock.MinTime {
				lock.MinTime = minTime
			}
		} else {
			minHeight := entry.BlockHeight + int32(txIn.Sequence&sequenceLockTimeMask) - 1
			if minHeight > lock.MinHeight {
				lock.MinHeight = minHeight
			}
		}
	}
	return lock
}

// SatisfiesSequenceLock reports whether a resolved SequenceLock has
// been met by the given block's height and median-time-past.
func SatisfiesSequenceLock(lock SequenceLock, height int32, medianTimePast int64) bool {
	return lock.MinHeight < height && lock.MinTime < medianTimePast
}

// ConfirmTransaction performs the "confirm" stage: checks that require
// confirmation metadata beyond the prevouts themselves — coinbase
// maturity and BIP68 relative-locktime satisfaction.
func ConfirmTransaction(tx *wire.MsgTx, entries []UTXOEntry, params *chaincfg.Params, ctx chaincfg.Context) error {
	for i, entry := range entries {
		if !entry.IsCoinBase {
			continue
		}
		blocksSinceCreation := ctx.Height - entry.BlockHeight
		if int64(blocksSinceCreation) < int64(params.CoinbaseMaturity) {
			return ruleError(ErrImmatureSpend, fmt.Sprintf(
				"tried to spend coinbase transaction output %s from height %d at height %d before required maturity of %d blocks",
				tx.TxIn[i].PreviousOutPoint, entry.BlockHeight, ctx.Height, params.CoinbaseMaturity))
		}
	}

	if ctx.Flags.Has(chaincfg.FlagBIP68) {
		lock := CalcSequenceLock(tx, entries, ctx.Flags)
		if !SatisfiesSequenceLock(lock, ctx.Height, int64(ctx.MedianTimePast)) {
			return ruleError(ErrUnsatisfiedLockTime, fmt.Sprintf(
				"transaction %s sequence locks on input have not been met", tx.TxHash()))
		}
	}

	return nil
}

// EnsureNoDuplicateTx guards against a block including a transaction
// whose txid duplicates that of an existing, unspent transaction,
// per BIP30: allowing it would let a second, distinct coinbase or
// transaction silently overwrite the first's outputs.
func EnsureNoDuplicateTx(tx *wire.MsgTx, unspentOutputExists func(wire.OutPoint) bool) error {
	h := tx.TxHash()
	if unspentOutputExists(wire.OutPoint{Hash: h, Index: 0}) {
		return ruleError(ErrOverwriteTx, fmt.Sprintf("tried to overwrite transaction %s", h))
	}
	return nil
}
