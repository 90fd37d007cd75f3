// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/davecgh/go-spew/spew"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyndcrest/ledgercore/chaincfg"
	"github.com/wyndcrest/ledgercore/chainhash"
	"github.com/wyndcrest/ledgercore/ecc"
	"github.com/wyndcrest/ledgercore/wire"
)

// multisigRedeemScript builds an m-of-n bare CHECKMULTISIG script.
func multisigRedeemScript(m int, pubKeys [][]byte) []byte {
	var b []byte
	b = append(b, byte(smallIntOp(m)))
	for _, pk := range pubKeys {
		b = append(b, pushData(pk)...)
	}
	b = append(b, byte(smallIntOp(len(pubKeys))))
	b = append(b, byte(OP_CHECKMULTISIG))
	return b
}

// --- scenario a: P2PKH -----------------------------------------------------

func TestVerifyInputP2PKH(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	pubBytes := priv.PubKey().SerializeCompressed()
	hash := chainhash.Hash160(pubBytes)

	pkScript := p2pkhScriptCode(hash)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, nil))
	tx.AddTxOut(wire.NewTxOut(49000, []byte{byte(OP_RETURN)}))

	prevOut := &wire.TxOut{Value: 50000, PkScript: pkScript}

	sigHash, err := CalcSignatureHash(pkScript, SigHashAll, tx, 0)
	require.NoError(t, err)

	sig := append(btcecdsa.Sign(priv, sigHash).Serialize(), byte(SigHashAll))
	tx.TxIn[0].SignatureScript = append(pushData(sig), pushData(pubBytes)...)

	flags := chaincfg.FlagBIP66
	checker := NewDefaultChecker(flags)
	sigHashes := NewTxSigHashes(tx, nil)

	err = VerifyInput(flags, checker, tx, 0, prevOut, sigHashes)
	assert.NoError(t, err)
}

// --- scenario b: P2SH 2-of-3 CHECKMULTISIG ---------------------------------

func TestVerifyInputP2SHMultisig(t *testing.T) {
	var privs [3]*btcec.PrivateKey
	pubs := make([][]byte, 3)
	for i := range privs {
		p, err := btcec.NewPrivateKey()
		require.NoError(t, err)
		privs[i] = p
		pubs[i] = p.PubKey().SerializeCompressed()
	}

	redeem := multisigRedeemScript(2, pubs)
	redeemHash := chainhash.Hash160(redeem)
	var pkScript []byte
	pkScript = append(pkScript, byte(OP_HASH160))
	pkScript = append(pkScript, pushData(redeemHash)...)
	pkScript = append(pkScript, byte(OP_EQUAL))

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, nil))
	tx.AddTxOut(wire.NewTxOut(9000, []byte{byte(OP_RETURN)}))

	prevOut := &wire.TxOut{Value: 10000, PkScript: pkScript}

	sigHash, err := CalcSignatureHash(redeem, SigHashAll, tx, 0)
	require.NoError(t, err)

	sig0 := append(btcecdsa.Sign(privs[0], sigHash).Serialize(), byte(SigHashAll))
	sig1 := append(btcecdsa.Sign(privs[1], sigHash).Serialize(), byte(SigHashAll))

	var scriptSig []byte
	scriptSig = append(scriptSig, pushData(nil)...) // historical CHECKMULTISIG dummy
	scriptSig = append(scriptSig, pushData(sig0)...)
	scriptSig = append(scriptSig, pushData(sig1)...)
	scriptSig = append(scriptSig, pushData(redeem)...)
	tx.TxIn[0].SignatureScript = scriptSig

	flags := chaincfg.FlagBIP16 | chaincfg.FlagBIP66
	checker := NewDefaultChecker(flags)
	sigHashes := NewTxSigHashes(tx, nil)

	err = VerifyInput(flags, checker, tx, 0, prevOut, sigHashes)
	assert.NoError(t, err)
}

// --- scenario c: P2WPKH / BIP143 -------------------------------------------

func TestVerifyInputP2WPKH(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	pubBytes := priv.PubKey().SerializeCompressed()
	hash := chainhash.Hash160(pubBytes)

	witnessProgram := append([]byte{byte(OP_0)}, pushData(hash)...)
	scriptCode := p2pkhScriptCode(hash)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, nil))
	tx.AddTxOut(wire.NewTxOut(9000, []byte{byte(OP_RETURN)}))

	prevOut := &wire.TxOut{Value: 10000, PkScript: witnessProgram}

	sigHashes := NewTxSigHashes(tx, nil)
	sigHash, err := CalcWitnessSignatureHash(scriptCode, sigHashes, SigHashAll, tx, 0, prevOut.Value)
	require.NoError(t, err)

	sig := append(btcecdsa.Sign(priv, sigHash).Serialize(), byte(SigHashAll))
	tx.TxIn[0].Witness = wire.TxWitness{sig, pubBytes}

	flags := chaincfg.FlagBIP141 | chaincfg.FlagBIP143 | chaincfg.FlagBIP66
	checker := NewDefaultChecker(flags)

	err = VerifyInput(flags, checker, tx, 0, prevOut, sigHashes)
	assert.NoError(t, err)
}

// --- scenario d: CLTV, including the 5-byte boundary -----------------------

func TestVerifyInputCLTV(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	pubBytes := priv.PubKey().SerializeCompressed()

	// A post-2038 timestamp, which only the BIP65 5-byte allowance (not
	// the ordinary 4-byte arithmetic limit) can represent unambiguously.
	lockTimeValue := ScriptNum(1 << 31)

	var pkScript []byte
	pkScript = append(pkScript, pushData(lockTimeValue.Bytes())...)
	pkScript = append(pkScript, byte(OP_CHECKLOCKTIMEVERIFY), byte(OP_DROP))
	pkScript = append(pkScript, pushData(pubBytes)...)
	pkScript = append(pkScript, byte(OP_CHECKSIG))

	tx := wire.NewMsgTx(wire.TxVersion)
	txIn := wire.NewTxIn(&wire.OutPoint{Index: 0}, nil)
	txIn.Sequence = 0xfffffffe // non-final: CLTV must actually be enforced
	tx.AddTxIn(txIn)
	tx.AddTxOut(wire.NewTxOut(9000, []byte{byte(OP_RETURN)}))
	tx.LockTime = uint32(lockTimeValue)

	prevOut := &wire.TxOut{Value: 10000, PkScript: pkScript}

	sigHash, err := CalcSignatureHash(pkScript, SigHashAll, tx, 0)
	require.NoError(t, err)
	sig := append(btcecdsa.Sign(priv, sigHash).Serialize(), byte(SigHashAll))
	tx.TxIn[0].SignatureScript = pushData(sig)

	flags := chaincfg.FlagBIP65 | chaincfg.FlagBIP66
	checker := NewDefaultChecker(flags)
	sigHashes := NewTxSigHashes(tx, nil)

	err = VerifyInput(flags, checker, tx, 0, prevOut, sigHashes)
	assert.NoError(t, err)
}

// --- scenario e: Taproot key-path spend (BIP341) ---------------------------

func TestVerifyInputTaprootKeyPath(t *testing.T) {
	base, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	internalKey := schnorr.SerializePubKey(base.PubKey())

	// The signing scalar must correspond to the even-y lift of
	// internalKey, per BIP340/341; negate if the generated key's actual
	// public point has an odd y.
	d := base.Key
	if base.PubKey().Y().IsOdd() {
		d.Negate()
	}

	tagged := chainhash.TaggedHash("TapTweak", internalKey)
	var tScalar secp256k1.ModNScalar
	overflow := tScalar.SetByteSlice(tagged[:])
	require.False(t, overflow)

	var tweakedScalar secp256k1.ModNScalar
	tweakedScalar.Set(&d)
	tweakedScalar.Add(&tScalar)
	tweakedPriv := secp256k1.NewPrivateKey(&tweakedScalar)

	outputKey, _, err := ecc.TweakPubKey(internalKey, nil)
	require.NoError(t, err)

	pkScript := append([]byte{byte(OP_1)}, pushData(outputKey)...)

	tx := wire.NewMsgTx(wire.TxVersion)
	prevOutPoint := wire.OutPoint{Index: 0}
	tx.AddTxIn(wire.NewTxIn(&prevOutPoint, nil))
	tx.AddTxOut(wire.NewTxOut(9000, []byte{byte(OP_RETURN)}))

	prevOut := wire.TxOut{Value: 10000, PkScript: pkScript}
	fetcher := newFetcherStub()
	fetcher.set(prevOutPoint, prevOut)

	sigHashes := NewTxSigHashes(tx, fetcher)
	sigHash, err := CalcTaprootSignatureHash(tx, sigHashes, SigHashDefault, 0, TaprootSigHashOpts{
		InputAmount: prevOut.Value,
		InputScript: prevOut.PkScript,
	})
	require.NoError(t, err)

	sig, err := schnorr.Sign(tweakedPriv, sigHash)
	require.NoError(t, err)
	tx.TxIn[0].Witness = wire.TxWitness{sig.Serialize()}

	flags := chaincfg.FlagBIP141 | chaincfg.FlagBIP341
	checker := NewDefaultChecker(flags)

	err = VerifyInput(flags, checker, tx, 0, &prevOut, sigHashes)
	assert.NoError(t, err)
}

// --- BIP141 witness-stack validation caps -----------------------------------

func TestVerifyInputRejectsOversizedWitnessStackItemCount(t *testing.T) {
	witnessScript := []byte{byte(OP_1)}
	hash := chainhash.HashH(witnessScript)
	program := append([]byte{byte(OP_0)}, pushData(hash[:])...)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, nil))
	tx.AddTxOut(wire.NewTxOut(900, []byte{byte(OP_RETURN)}))

	witness := make(wire.TxWitness, maxWitnessStackItems+1)
	for i := range witness {
		witness[i] = []byte{0x01}
	}
	witness[len(witness)-1] = witnessScript
	tx.TxIn[0].Witness = witness

	prevOut := &wire.TxOut{Value: 1000, PkScript: program}
	flags := chaincfg.FlagBIP141 | chaincfg.FlagBIP143
	checker := NewDefaultChecker(flags)
	sigHashes := NewTxSigHashes(tx, nil)

	err := VerifyInput(flags, checker, tx, 0, prevOut, sigHashes)
	require.Error(t, err)
	var scriptErr Error
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, ErrWitnessProgramMismatch, scriptErr.Code)
}

func TestVerifyInputRejectsOversizedWitnessStackItem(t *testing.T) {
	oversized := make([]byte, maxScriptElementSize+1)
	witnessScript := []byte{byte(OP_1)}
	hash := chainhash.HashH(witnessScript)
	program := append([]byte{byte(OP_0)}, pushData(hash[:])...)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, nil))
	tx.AddTxOut(wire.NewTxOut(900, []byte{byte(OP_RETURN)}))
	tx.TxIn[0].Witness = wire.TxWitness{oversized, witnessScript}

	prevOut := &wire.TxOut{Value: 1000, PkScript: program}
	flags := chaincfg.FlagBIP141 | chaincfg.FlagBIP143
	checker := NewDefaultChecker(flags)
	sigHashes := NewTxSigHashes(tx, nil)

	err := VerifyInput(flags, checker, tx, 0, prevOut, sigHashes)
	require.Error(t, err)
	var scriptErr Error
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, ErrElementTooBig, scriptErr.Code)
}

// --- BIP342 tapscript signature-operations budget ---------------------------

// tapscriptWithFillerAndSigOps builds a tapscript that pushes fillerLen
// bytes of padding (to size the witness, and so the budget, independent
// of sigOps) then executes sigOps harmless (empty-signature) CHECKSIGs.
func tapscriptWithFillerAndSigOps(fillerLen, sigOps int) []byte {
	var b []byte
	b = append(b, pushData(bytes.Repeat([]byte{0x01}, fillerLen))...)
	b = append(b, byte(OP_DROP))
	for i := 0; i < sigOps; i++ {
		b = append(b, byte(OP_0), byte(OP_0), byte(OP_CHECKSIG), byte(OP_DROP))
	}
	b = append(b, byte(OP_1))
	return b
}

func buildTaprootScriptPathOutput(t *testing.T, script []byte) (pkScript, controlBlock []byte) {
	t.Helper()
	internalPriv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	internalKey := schnorr.SerializePubKey(internalPriv.PubKey())

	leafHash := TapLeafHash(TapscriptLeafVersion, script)
	outputKey, parity, err := ecc.TweakPubKey(internalKey, leafHash[:])
	require.NoError(t, err)

	pkScript = append([]byte{byte(OP_1)}, pushData(outputKey)...)
	controlByte := TapscriptLeafVersion
	if parity {
		controlByte |= 1
	}
	controlBlock = append([]byte{controlByte}, internalKey...)
	return pkScript, controlBlock
}

func TestVerifyInputTapscriptSigOpBudgetSufficient(t *testing.T) {
	script := tapscriptWithFillerAndSigOps(200, 1)
	pkScript, controlBlock := buildTaprootScriptPathOutput(t, script)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, nil))
	tx.AddTxOut(wire.NewTxOut(900, []byte{byte(OP_RETURN)}))
	tx.TxIn[0].Witness = wire.TxWitness{script, controlBlock}

	prevOut := &wire.TxOut{Value: 1000, PkScript: pkScript}
	flags := chaincfg.FlagBIP141 | chaincfg.FlagBIP341 | chaincfg.FlagBIP342
	checker := NewDefaultChecker(flags)
	sigHashes := NewTxSigHashes(tx, nil)

	err := VerifyInput(flags, checker, tx, 0, prevOut, sigHashes)
	assert.NoError(t, err)
}

func TestVerifyInputTapscriptSigOpBudgetExceeded(t *testing.T) {
	script := tapscriptWithFillerAndSigOps(200, 20)
	pkScript, controlBlock := buildTaprootScriptPathOutput(t, script)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, nil))
	tx.AddTxOut(wire.NewTxOut(900, []byte{byte(OP_RETURN)}))
	tx.TxIn[0].Witness = wire.TxWitness{script, controlBlock}

	prevOut := &wire.TxOut{Value: 1000, PkScript: pkScript}
	flags := chaincfg.FlagBIP141 | chaincfg.FlagBIP341 | chaincfg.FlagBIP342
	checker := NewDefaultChecker(flags)
	sigHashes := NewTxSigHashes(tx, nil)

	err := VerifyInput(flags, checker, tx, 0, prevOut, sigHashes)
	require.Error(t, err)
	var scriptErr Error
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, ErrTooManySigOps, scriptErr.Code)

	t.Logf("tapscript budget exhausted as expected: %s", spew.Sdump(scriptErr))
}
