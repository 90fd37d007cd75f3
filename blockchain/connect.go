// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"github.com/wyndcrest/ledgercore/chaincfg"
	"github.com/wyndcrest/ledgercore/txscript"
	"github.com/wyndcrest/ledgercore/wire"
)

// Prepare populates the per-transaction caches the connect stage's
// repeated calls into txscript rely on: the BIP143/BIP341 sighash
// midstate cache. Callers running connect for a transaction's inputs
// across a worker pool should call Prepare once, single-threaded,
// before fanning out: TxSigHashes is safe to read concurrently once
// built, but must not be built concurrently with those reads.
func Prepare(tx *wire.MsgTx, view UTXOView) *txscript.TxSigHashes {
	return txscript.NewTxSigHashes(tx, prevOutFetcher{view: view})
}

// ConnectTransaction runs the "connect" stage: the actual script and
// witness program for every input, against the resolved prevouts entries
// supplies (in input order, as returned by AcceptTransaction). sigHashes
// must come from Prepare for this same transaction.
func ConnectTransaction(tx *wire.MsgTx, entries []UTXOEntry, flags chaincfg.Flags, checker txscript.SigChecker, sigHashes *txscript.TxSigHashes) error {
	if len(entries) != len(tx.TxIn) {
		return ruleError(ErrMissingTxOut, "resolved prevout count does not match transaction input count")
	}
	for i := range tx.TxIn {
		if err := ConnectInput(tx, i, entries[i], flags, checker, sigHashes); err != nil {
			return err
		}
	}
	return nil
}

// ConnectInput runs the script program for a single input. It is
// exposed separately from ConnectTransaction so a caller can verify a
// transaction's inputs concurrently across a worker pool, since each
// input's program is independent given a shared, already-built
// TxSigHashes.
func ConnectInput(tx *wire.MsgTx, txIdx int, entry UTXOEntry, flags chaincfg.Flags, checker txscript.SigChecker, sigHashes *txscript.TxSigHashes) error {
	prevOut := entry.Output
	if err := txscript.VerifyInput(flags, checker, tx, txIdx, &prevOut, sigHashes); err != nil {
		log.Debugf("script validation failed for input %d of %s: %v", txIdx, tx.TxHash(), err)
		return ruleError(ErrScriptValidation, fmt.Sprintf(
			"signature validation failed for input %d of transaction %s: %s", txIdx, tx.TxHash(), err))
	}
	return nil
}
