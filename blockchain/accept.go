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

// MaxBlockSigOpsCost is the maximum accumulated sigop cost a block may
// carry, per BIP141. Legacy sigops count at WitnessScaleFactor (4);
// witness-program sigops count at 1.
const MaxBlockSigOpsCost = 80_000

// AcceptTransaction performs the prevout-dependent "accept" stage: it
// resolves a transaction's inputs against view, checks it is not
// overspent, and bounds its signature-operation cost. It returns the
// resolved entries (in input order) for the connect stage to reuse,
// alongside the transaction's fee.
func AcceptTransaction(tx *wire.MsgTx, view UTXOView, flags chaincfg.Flags) ([]UTXOEntry, int64, error) {
	entries, err := fetchInputs(tx, view)
	if err != nil {
		return nil, 0, err
	}

	var totalIn int64
	for _, entry := range entries {
		if entry.Output.Value < 0 || entry.Output.Value > wire.MaxSatoshi {
			return nil, 0, ruleError(ErrBadTxOutValue, "transaction output value out of range")
		}
		totalIn += entry.Output.Value
		if totalIn > wire.MaxSatoshi {
			return nil, 0, ruleError(ErrBadTxOutValue, "total input value exceeds max allowed value")
		}
	}

	var totalOut int64
	for _, txOut := range tx.TxOut {
		totalOut += txOut.Value
	}
	if totalIn < totalOut {
		return nil, 0, ruleError(ErrSpendTooHigh, fmt.Sprintf(
			"total value of all transaction inputs for transaction %s is %d which is less than the amount spent of %d",
			tx.TxHash(), totalIn, totalOut))
	}
	fee := totalIn - totalOut

	cost, err := sigOpCost(tx, entries, flags)
	if err != nil {
		return nil, 0, err
	}
	if cost > MaxBlockSigOpsCost {
		return nil, 0, ruleError(ErrTooManySigOps, fmt.Sprintf(
			"transaction %s sigop cost is too high: %d, max allowed is %d", tx.TxHash(), cost, MaxBlockSigOpsCost))
	}

	return entries, fee, nil
}

// GuardAccept runs the accept-stage checks a mempool-admission caller
// can perform once it has resolved a transaction's prevouts, without
// requiring a containing block.
func GuardAccept(tx *wire.MsgTx, view UTXOView, flags chaincfg.Flags) (int64, error) {
	_, fee, err := AcceptTransaction(tx, view, flags)
	return fee, err
}

// sigOpCost computes a transaction's accumulated signature-operation
// cost: legacy (including BIP16 P2SH redeem-script) sigops at
// WitnessScaleFactor weight, plus BIP141 witness-program sigops at
// unit weight. Mirrors Bitcoin Core's GetTransactionSigOpCost.
func sigOpCost(tx *wire.MsgTx, entries []UTXOEntry, flags chaincfg.Flags) (int64, error) {
	var cost int64
	for i, txIn := range tx.TxIn {
		pkScript := entries[i].Output.PkScript

		legacy, err := countLegacySigOps(pkScript, txIn.SignatureScript, flags)
		if err != nil {
			return 0, err
		}
		cost += int64(legacy) * WitnessScaleFactor

		if !flags.Has(chaincfg.FlagBIP141) {
			continue
		}
		witnessProgram := pkScript
		if flags.Has(chaincfg.FlagBIP16) && txscript.IsPayToScriptHash(pkScript) {
			redeemScript, ok := extractP2SHRedeemScript(txIn.SignatureScript)
			if ok {
				witnessProgram = redeemScript
			}
		}
		cost += int64(countWitnessSigOps(witnessProgram, txIn.Witness))
	}
	return cost, nil
}

// countLegacySigOps counts the sigops of pkScript, plus (when BIP16 is
// active and pkScript is a P2SH output) the precise sigop count of the
// redeem script the signature script supplies.
func countLegacySigOps(pkScript, sigScript []byte, flags chaincfg.Flags) (int, error) {
	count := txscript.GetSigOpCount(pkScript, false)

	if flags.Has(chaincfg.FlagBIP16) && txscript.IsPayToScriptHash(pkScript) {
		redeemScript, ok := extractP2SHRedeemScript(sigScript)
		if ok {
			count += txscript.GetSigOpCount(redeemScript, true)
		}
	}
	return count, nil
}

// extractP2SHRedeemScript returns the redeem script a P2SH signature
// script supplies: the final data push of a push-only script.
func extractP2SHRedeemScript(sigScript []byte) ([]byte, bool) {
	ops, err := txscript.ParseScript(sigScript)
	if err != nil || !txscript.IsPushOnly(ops) || len(ops) == 0 {
		return nil, false
	}
	return ops[len(ops)-1].Data, true
}

// countWitnessSigOps counts the sigops a witness program contributes:
// 1 for P2WPKH, the precise count of the witness script for P2WSH, and
// 0 for anything else (including Taproot, which BIP341/342 exempt from
// the legacy sigop-cost accounting in favor of the per-input tapscript
// signature-operation budget the engine itself enforces).
func countWitnessSigOps(program []byte, witness wire.TxWitness) int {
	if !txscript.IsWitnessProgram(program) {
		return 0
	}
	switch {
	case txscript.IsPayToWitnessPubKeyHash(program):
		return 1
	case txscript.IsPayToWitnessScriptHash(program):
		if len(witness) == 0 {
			return 0
		}
		witnessScript := witness[len(witness)-1]
		return txscript.GetSigOpCount(witnessScript, true)
	default:
		return 0
	}
}
