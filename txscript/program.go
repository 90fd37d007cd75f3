// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"

	"github.com/wyndcrest/ledgercore/chaincfg"
	"github.com/wyndcrest/ledgercore/chainhash"
	"github.com/wyndcrest/ledgercore/ecc"
	"github.com/wyndcrest/ledgercore/wire"
)

// VerifyInput runs the full four-layer script program for a single
// transaction input: the legacy scriptSig/pkScript pair, its optional
// BIP16 P2SH redeem script, and the witness v0/v1 program a native or
// P2SH-wrapped segwit or Taproot output may carry. It reports nil only
// if every layer that applies evaluates to a clean true.
func VerifyInput(flags chaincfg.Flags, checker SigChecker, tx *wire.MsgTx, txIdx int, prevOut *wire.TxOut, sigHashes *TxSigHashes) error {
	if txIdx < 0 || txIdx >= len(tx.TxIn) {
		return scriptError(ErrInternal, "input index out of range")
	}
	txIn := tx.TxIn[txIdx]

	sigOps, err := ParseScript(txIn.SignatureScript)
	if err != nil {
		return scriptError(ErrMalformedPush, "signature script fails to parse")
	}
	pkOps, err := ParseScript(prevOut.PkScript)
	if err != nil {
		return scriptError(ErrMalformedPush, "public key script fails to parse")
	}

	engine := NewEngine(flags, checker, tx, txIdx, prevOut.Value, sigHashes)

	if err := engine.Execute(sigOps); err != nil {
		return err
	}
	stackAfterSig := cloneStack(engine.Stack.items)

	if err := engine.Execute(pkOps); err != nil {
		return err
	}
	if ok, err := engine.Success(); err != nil || !ok {
		if err != nil {
			return err
		}
		return scriptError(ErrEvalFalse, "script did not evaluate to true")
	}

	witnessProgram := prevOut.PkScript
	witness := txIn.Witness

	// BIP16: a P2SH pkScript additionally requires the scriptSig be
	// push-only and its final element, the redeem script, to itself
	// evaluate to true against the remainder of the stack.
	if flags.Has(chaincfg.FlagBIP16) && IsPayToScriptHash(prevOut.PkScript) {
		if !IsPushOnly(sigOps) {
			return scriptError(ErrInvalidStackOperation, "P2SH signature script must be push-only")
		}
		if len(stackAfterSig) == 0 {
			return scriptError(ErrEvalFalse, "P2SH signature script left no redeem script on the stack")
		}
		redeemScript := stackAfterSig[len(stackAfterSig)-1]
		redeemOps, err := ParseScript(redeemScript)
		if err != nil {
			return scriptError(ErrMalformedPush, "P2SH redeem script fails to parse")
		}

		engine = NewEngine(flags, checker, tx, txIdx, prevOut.Value, sigHashes)
		engine.Stack.items = cloneStack(stackAfterSig[:len(stackAfterSig)-1])
		if err := engine.Execute(redeemOps); err != nil {
			return err
		}
		if ok, err := engine.Success(); err != nil || !ok {
			if err != nil {
				return err
			}
			return scriptError(ErrEvalFalse, "P2SH redeem script did not evaluate to true")
		}
		witnessProgram = redeemScript
	}

	if !flags.Has(chaincfg.FlagBIP141) {
		return nil
	}
	if !IsWitnessProgram(witnessProgram) {
		return nil
	}
	return verifyWitnessProgram(flags, checker, tx, txIdx, prevOut, sigHashes, witnessProgram, witness)
}

func cloneStack(items [][]byte) [][]byte {
	out := make([][]byte, len(items))
	copy(out, items)
	return out
}

func verifyWitnessProgram(flags chaincfg.Flags, checker SigChecker, tx *wire.MsgTx, txIdx int, prevOut *wire.TxOut, sigHashes *TxSigHashes, program []byte, witness wire.TxWitness) error {
	version, hash, err := ExtractWitnessProgram(program)
	if err != nil {
		return err
	}

	switch version {
	case 0:
		return verifyWitnessV0(flags, checker, tx, txIdx, prevOut, sigHashes, hash, witness)
	case 1:
		if len(hash) != 32 || !flags.Has(chaincfg.FlagBIP341) {
			break
		}
		return verifyTaproot(flags, checker, tx, txIdx, prevOut, sigHashes, hash, witness)
	}

	if flags.Has(chaincfg.FlagBIP342) {
		return scriptError(ErrDiscourageUpgradableWitnessProgram, "unknown witness program version")
	}
	return nil
}

// maxWitnessStackItems bounds the number of items a v0 witness may
// carry before execution, per BIP141.
const maxWitnessStackItems = 100

// validateWitnessStack enforces BIP141's v0 witness limits that must
// hold before the stack is ever handed to the interpreter: at most
// maxWitnessStackItems items, each no larger than maxScriptElementSize.
// Items loaded this way bypass execPush's own per-push size check, so
// it must be applied explicitly here.
func validateWitnessStack(witness wire.TxWitness) error {
	if len(witness) > maxWitnessStackItems {
		return scriptError(ErrWitnessProgramMismatch, "witness stack exceeds maximum allowed items")
	}
	for _, item := range witness {
		if len(item) > maxScriptElementSize {
			return scriptError(ErrElementTooBig, "witness stack item exceeds maximum allowed size")
		}
	}
	return nil
}

func verifyWitnessV0(flags chaincfg.Flags, checker SigChecker, tx *wire.MsgTx, txIdx int, prevOut *wire.TxOut, sigHashes *TxSigHashes, hash []byte, witness wire.TxWitness) error {
	if err := validateWitnessStack(witness); err != nil {
		return err
	}

	engine := NewEngine(flags, checker, tx, txIdx, prevOut.Value, sigHashes)
	engine.segwit = true

	switch len(hash) {
	case 20: // P2WPKH
		if len(witness) != 2 {
			return scriptError(ErrWitnessProgramMismatch, "P2WPKH witness must have exactly 2 items")
		}
		scriptCode := p2pkhScriptCode(hash)
		engine.segwitScriptCode = scriptCode
		engine.Stack.items = cloneStack(witness)
		ops, err := ParseScript(scriptCode)
		if err != nil {
			return err
		}
		if err := engine.Execute(ops); err != nil {
			return err
		}

	case 32: // P2WSH
		if len(witness) == 0 {
			return scriptError(ErrWitnessProgramEmpty, "P2WSH witness is empty")
		}
		witnessScript := witness[len(witness)-1]
		gotHash := chainhash.HashH(witnessScript)
		if !bytes.Equal(gotHash[:], hash) {
			return scriptError(ErrWitnessProgramMismatch, "witness script does not match P2WSH commitment")
		}
		engine.segwitScriptCode = witnessScript
		engine.Stack.items = cloneStack(witness[:len(witness)-1])
		ops, err := ParseScript(witnessScript)
		if err != nil {
			return scriptError(ErrMalformedPush, "witness script fails to parse")
		}
		if err := engine.Execute(ops); err != nil {
			return err
		}

	default:
		return scriptError(ErrWitnessProgramWrongLength, "witness program length matches neither P2WPKH nor P2WSH")
	}

	ok, err := engine.Success()
	if err != nil {
		return err
	}
	if !ok {
		return scriptError(ErrEvalFalse, "witness script did not evaluate to true")
	}
	return nil
}

// p2pkhScriptCode re-expands a 20-byte P2WKH program into the script
// code BIP143 commits to: the bare pay-to-pubkey-hash script that
// program implicitly stands for.
func p2pkhScriptCode(hash []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(OP_DUP))
	buf.WriteByte(byte(OP_HASH160))
	buf.WriteByte(0x14)
	buf.Write(hash)
	buf.WriteByte(byte(OP_EQUALVERIFY))
	buf.WriteByte(byte(OP_CHECKSIG))
	return buf.Bytes()
}

// controlBlockBaseSize is the fixed-size prefix of a Taproot control
// block: the leaf-version/parity byte followed by the 32-byte internal
// key. Every subsequent 32 bytes is one more Merkle path node.
const controlBlockBaseSize = 33

// verifyTaproot dispatches a v1 witness program to either a key-path
// spend (a single Schnorr signature verified directly against the
// output key) or a script-path spend (a tapscript executed under a
// control block proving its inclusion in the output key's script
// tree), per BIP341/342.
func verifyTaproot(flags chaincfg.Flags, checker SigChecker, tx *wire.MsgTx, txIdx int, prevOut *wire.TxOut, sigHashes *TxSigHashes, outputKey []byte, witness wire.TxWitness) error {
	stack, annex := ExtractAnnex(witness)
	if annex != nil && !flags.Has(chaincfg.FlagBIP341) {
		return scriptError(ErrTaprootAnnexInvalid, "annex present without Taproot active")
	}

	if len(stack) == 1 {
		sigHash, err := CalcTaprootSignatureHash(tx, sigHashes, sigHashTypeFromKeyPathSig(stack[0]), txIdx, TaprootSigHashOpts{
			ExtFlag:     0,
			InputAmount: prevOut.Value,
			InputScript: prevOut.PkScript,
			Annex:       annex,
		})
		if err != nil {
			return err
		}
		sig := stack[0]
		if len(sig) == 65 {
			sig = sig[:64]
		}
		ok, err := checker.CheckSchnorrSignature(sig, outputKey, sigHash)
		if err != nil {
			return err
		}
		if !ok {
			return scriptError(ErrTaprootSigInvalid, "Taproot key-path signature verification failed")
		}
		return nil
	}

	if len(stack) < 2 {
		return scriptError(ErrWitnessProgramMismatch, "Taproot script-path witness too short")
	}
	controlBlock := stack[len(stack)-1]
	script := stack[len(stack)-2]
	stack = stack[:len(stack)-2]

	if len(controlBlock) < controlBlockBaseSize || (len(controlBlock)-controlBlockBaseSize)%32 != 0 {
		return scriptError(ErrTaprootControlBlockInvalid, "malformed Taproot control block")
	}
	leafVersion := controlBlock[0] &^ 1
	parityBit := controlBlock[0] & 1
	internalKey := controlBlock[1:33]

	leafHash := TapLeafHash(leafVersion, script)
	node := leafHash
	for i := controlBlockBaseSize; i+32 <= len(controlBlock); i += 32 {
		var sibling chainhash.Hash
		copy(sibling[:], controlBlock[i:i+32])
		node = TapBranchHash(node, sibling)
	}

	tweakedKey, outParity, err := ecc.TweakPubKey(internalKey, node[:])
	if err != nil {
		return scriptError(ErrTaprootControlBlockInvalid, "failed to re-derive Taproot output key")
	}
	if !bytes.Equal(tweakedKey, outputKey) {
		return scriptError(ErrTaprootOutputKeyMismatch, "Taproot control block does not commit to output key")
	}
	if boolToBit(outParity) != parityBit {
		return scriptError(ErrTaprootOutputKeyMismatch, "Taproot output key parity mismatch")
	}

	if leafVersion != TapscriptLeafVersion {
		if flags.Has(chaincfg.FlagBIP342) {
			return scriptError(ErrDiscourageUpgradableTaproot, "unrecognized tapscript leaf version")
		}
		return nil
	}

	engine := NewEngine(flags, checker, tx, txIdx, prevOut.Value, sigHashes)
	engine.taproot = true
	engine.tapLeafHash = leafHash
	engine.sigOpBudget = witnessByteLen(witness) / tapscriptSigOpBudgetDivisor
	engine.Stack.items = cloneStack(stack)

	ops, err := ParseScript(script)
	if err != nil {
		return scriptError(ErrMalformedPush, "tapscript fails to parse")
	}
	if err := engine.Execute(ops); err != nil {
		return err
	}
	ok, err := engine.Success()
	if err != nil {
		return err
	}
	if !ok {
		return scriptError(ErrEvalFalse, "tapscript did not evaluate to true")
	}
	return nil
}

// tapscriptSigOpBudgetDivisor derives a tapscript's initial signature-
// operations budget from the spending input's total witness byte
// length: the budget is that length divided by this value.
const tapscriptSigOpBudgetDivisor = 50

func witnessByteLen(witness wire.TxWitness) int {
	n := 0
	for _, item := range witness {
		n += len(item)
	}
	return n
}

func boolToBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func sigHashTypeFromKeyPathSig(sig []byte) SigHashType {
	if len(sig) == 65 {
		return SigHashType(sig[64])
	}
	return SigHashDefault
}
