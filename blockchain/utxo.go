// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/wyndcrest/ledgercore/wire"

// UTXOEntry describes a single unspent transaction output as the
// validation pipeline needs to see it: the output itself, plus the
// confirmation metadata (originating height, coinbase-ness) the
// confirm stage consults for maturity and relative-locktime checks.
type UTXOEntry struct {
	Output wire.TxOut

	// BlockHeight is the height of the block that confirmed the
	// output; BlockMedianTimePast is that block's median-time-past.
	// Both anchor BIP68 relative-locktime resolution and coinbase
	// maturity.
	BlockHeight         int32
	BlockMedianTimePast int64

	IsCoinBase bool
}

// UTXOView resolves the outputs a transaction's inputs spend. A caller
// supplies its own implementation backed by whatever UTXO set it
// maintains; this package only consumes the interface.
type UTXOView interface {
	// Get returns the entry for op, and false if op is unknown (not
	// unspent, or never existed).
	Get(op wire.OutPoint) (UTXOEntry, bool)
}

// prevOutFetcher adapts a UTXOView to txscript.PrevOutFetcher, the
// narrower view the script engine needs: the output being spent,
// without the confirmation metadata.
type prevOutFetcher struct {
	view UTXOView
}

// PrevOut implements txscript.PrevOutFetcher.
func (f prevOutFetcher) PrevOut(op wire.OutPoint) (wire.TxOut, bool) {
	entry, ok := f.view.Get(op)
	if !ok {
		return wire.TxOut{}, false
	}
	return entry.Output, true
}

// fetchInputs resolves every input of tx against view, failing closed
// if any input's prevout is missing.
func fetchInputs(tx *wire.MsgTx, view UTXOView) ([]UTXOEntry, error) {
	entries := make([]UTXOEntry, len(tx.TxIn))
	for i, txIn := range tx.TxIn {
		entry, ok := view.Get(txIn.PreviousOutPoint)
		if !ok {
			return nil, ruleError(ErrMissingTxOut, "unable to find unspent output "+
				txIn.PreviousOutPoint.String()+" referenced from transaction")
		}
		entries[i] = entry
	}
	return entries, nil
}
