// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/wyndcrest/ledgercore/chaincfg"
	"github.com/wyndcrest/ledgercore/ecc"
	"github.com/wyndcrest/ledgercore/sigcache"
)

// defaultChecker is the production SigChecker, verifying ECDSA
// signatures with ecc.VerifyECDSA (strict-DER-gated by BIP66) and
// Schnorr signatures with ecc.VerifySchnorr.
type defaultChecker struct {
	strictDER bool
}

func (c defaultChecker) CheckECDSASignature(sig, pubKey, sigHash []byte) (bool, error) {
	pub, err := ecc.ParsePubKey(pubKey)
	if err != nil {
		return false, nil
	}
	return ecc.VerifyECDSA(sig, sigHash, pub, c.strictDER)
}

func (c defaultChecker) CheckSchnorrSignature(sig, pubKey, sigHash []byte) (bool, error) {
	return ecc.VerifySchnorr(sig, sigHash, pubKey)
}

// NewDefaultChecker returns the production SigChecker for the given
// fork flags.
func NewDefaultChecker(flags chaincfg.Flags) SigChecker {
	return defaultChecker{strictDER: flags.Has(chaincfg.FlagBIP66)}
}

// cachingChecker wraps a SigChecker with a SignatureCache, skipping
// re-verification of a (signature, pubkey, digest) triple already
// proven valid by an earlier call anywhere in the chain's lifetime.
type cachingChecker struct {
	inner SigChecker
	cache *sigcache.SignatureCache
}

// NewCachingChecker wraps checker with cache, so that repeated
// verification of the same signature across mempool acceptance and
// block connection is not repeated.
func NewCachingChecker(checker SigChecker, cache *sigcache.SignatureCache) SigChecker {
	return cachingChecker{inner: checker, cache: cache}
}

func (c cachingChecker) CheckECDSASignature(sig, pubKey, sigHash []byte) (bool, error) {
	if c.cache.Exists(sig, pubKey, sigHash) {
		return true, nil
	}
	ok, err := c.inner.CheckECDSASignature(sig, pubKey, sigHash)
	if err == nil && ok {
		c.cache.Add(sig, pubKey, sigHash)
	}
	return ok, err
}

func (c cachingChecker) CheckSchnorrSignature(sig, pubKey, sigHash []byte) (bool, error) {
	if c.cache.Exists(sig, pubKey, sigHash) {
		return true, nil
	}
	ok, err := c.inner.CheckSchnorrSignature(sig, pubKey, sigHash)
	if err == nil && ok {
		c.cache.Add(sig, pubKey, sigHash)
	}
	return ok, err
}

// activeSubScript returns the portion of the executing script from
// just after the last executed OP_CODESEPARATOR to the end, with every
// remaining OP_CODESEPARATOR stripped, per the legacy and BIP143
// signature hash algorithms.
func (e *Engine) activeSubScript() []Op {
	start := 0
	if e.lastCodeSep >= 0 {
		start = e.lastCodeSep + 1
	}
	if start > len(e.ops) {
		start = len(e.ops)
	}
	return removeCodeSeparators(e.ops[start:])
}

// computeSigHash derives the signature hash a CHECKSIG-family opcode
// verifies against. deletes is the set of literal signature byte
// strings consensus requires find_and_delete'd from the subscript
// before hashing in the legacy algorithm; BIP143 and BIP341/342 never
// perform this step, so deletes is ignored in those branches.
func (e *Engine) computeSigHash(hashType SigHashType, deletes [][]byte) ([]byte, error) {
	sub := e.activeSubScript()
	switch {
	case e.taproot:
		return CalcTaprootSignatureHash(e.tx, e.sigHashes, hashType, e.txIdx, TaprootSigHashOpts{
			ExtFlag:     1,
			TapLeafHash: e.tapLeafHash,
			CodeSepPos:  codeSepPosition(e.lastCodeSep),
			InputAmount: e.inputAmount,
		})
	case e.segwit:
		return CalcWitnessSignatureHash(unparseScript(sub), e.sigHashes, hashType, e.tx, e.txIdx, e.inputAmount)
	default:
		for _, sig := range deletes {
			sub = findAndDelete(sub, sig)
		}
		return calcSignatureHash(sub, hashType, e.tx, e.txIdx), nil
	}
}

func codeSepPosition(lastCodeSep int) uint32 {
	if lastCodeSep < 0 {
		return 0xffffffff
	}
	return uint32(lastCodeSep)
}

// execCheckSig implements OP_CHECKSIG / OP_CHECKSIGVERIFY for legacy
// and BIP143 contexts. Tapscript's CHECKSIG uses the same mechanics but
// a 64 or 65-byte Schnorr signature and an x-only pubkey.
func (e *Engine) execCheckSig(verify bool) error {
	if e.taproot {
		if err := e.spendSigOp(); err != nil {
			return err
		}
	}

	pubKeyBytes, err := e.Stack.Pop()
	if err != nil {
		return err
	}
	sigBytes, err := e.Stack.Pop()
	if err != nil {
		return err
	}

	ok, err := e.verifySignature(sigBytes, pubKeyBytes, [][]byte{sigBytes})
	if err != nil {
		return err
	}
	if verify {
		if !ok {
			return scriptError(ErrCheckSigVerify, "OP_CHECKSIGVERIFY failed")
		}
		return nil
	}
	e.Stack.PushBool(ok)
	return nil
}

// execCheckSigAdd implements Tapscript's OP_CHECKSIGADD: pop pubkey,
// n, sig; push n+1 if the signature (or an empty signature, which
// always fails without erroring) verifies, else n.
func (e *Engine) execCheckSigAdd() error {
	if !e.taproot {
		return scriptError(ErrDisabledOpcode, "OP_CHECKSIGADD outside tapscript")
	}
	if err := e.spendSigOp(); err != nil {
		return err
	}
	pubKeyBytes, err := e.Stack.Pop()
	if err != nil {
		return err
	}
	n, err := e.Stack.PopInt(e.requireMinimal())
	if err != nil {
		return err
	}
	sigBytes, err := e.Stack.Pop()
	if err != nil {
		return err
	}

	ok, err := e.verifySignature(sigBytes, pubKeyBytes, nil)
	if err != nil {
		return err
	}
	if ok {
		n++
	}
	e.Stack.PushInt(n)
	return nil
}

// verifySignature validates a signature against a public key under the
// engine's current execution context (legacy, BIP143, or BIP341/342),
// treating an empty signature as a NULLFAIL-clean false rather than an
// error, per standard CHECKSIG semantics. deletes is forwarded to
// computeSigHash for the legacy find_and_delete step and ignored
// outside that context.
func (e *Engine) verifySignature(sigBytes, pubKeyBytes []byte, deletes [][]byte) (bool, error) {
	if len(sigBytes) == 0 {
		return false, nil
	}

	if e.taproot {
		hashType := SigHashDefault
		sig := sigBytes
		if len(sigBytes) == 65 {
			hashType = SigHashType(sigBytes[64])
			sig = sigBytes[:64]
		} else if len(sigBytes) != 64 {
			return false, scriptError(ErrTaprootSigInvalid, "invalid Schnorr signature length")
		}
		sigHash, err := e.computeSigHash(hashType, nil)
		if err != nil {
			return false, err
		}
		return e.sigChecker.CheckSchnorrSignature(sig, pubKeyBytes, sigHash)
	}

	hashType := SigHashType(sigBytes[len(sigBytes)-1])
	sig := sigBytes[:len(sigBytes)-1]
	sigHash, err := e.computeSigHash(hashType, deletes)
	if err != nil {
		return false, err
	}
	return e.sigChecker.CheckECDSASignature(sig, pubKeyBytes, sigHash)
}

// spendSigOp decrements the tapscript signature-operations budget
// (BIP342), failing once it is exhausted. Outside tapscript execution
// the budget is unused and this is never called.
func (e *Engine) spendSigOp() error {
	e.sigOpBudget--
	if e.sigOpBudget < 0 {
		return scriptError(ErrTooManySigOps, "tapscript signature operations exceed budget")
	}
	return nil
}

// execCheckMultiSig implements the historically awkward
// OP_CHECKMULTISIG / OP_CHECKMULTISIGVERIFY: n pubkeys, m signatures
// (m <= n), and a dummy element consumed for an off-by-one bug that
// became consensus. Signatures must appear in the same order as their
// corresponding pubkeys but may skip pubkeys; every popped signature
// must match some not-yet-matched pubkey or the whole operation fails.
func (e *Engine) execCheckMultiSig(verify bool) error {
	nKeys, err := e.Stack.PopInt(e.requireMinimal())
	if err != nil {
		return err
	}
	if nKeys < 0 || nKeys > maxPubKeysPerMultisig {
		return scriptError(ErrInvalidStackOperation, "OP_CHECKMULTISIG pubkey count out of range")
	}
	pubKeys, err := e.Stack.PopN(int(nKeys))
	if err != nil {
		return err
	}

	nSigs, err := e.Stack.PopInt(e.requireMinimal())
	if err != nil {
		return err
	}
	if nSigs < 0 || nSigs > nKeys {
		return scriptError(ErrInvalidStackOperation, "OP_CHECKMULTISIG signature count out of range")
	}
	sigs, err := e.Stack.PopN(int(nSigs))
	if err != nil {
		return err
	}

	dummy, err := e.Stack.Pop()
	if err != nil {
		return err
	}
	if e.flags.Has(chaincfg.FlagBIP147) && len(dummy) != 0 {
		return scriptError(ErrSigNullDummy, "OP_CHECKMULTISIG dummy element must be empty")
	}

	// sigs and pubKeys were popped top-first, which is the reverse of
	// script order; restore script order so both advance forward.
	reverse(sigs)
	reverse(pubKeys)

	keyIdx := 0
	ok := true
	for _, sig := range sigs {
		if len(sig) == 0 {
			ok = false
			break
		}
		matched := false
		for keyIdx < len(pubKeys) {
			pub := pubKeys[keyIdx]
			keyIdx++
			// Every signature consumed by this CHECKMULTISIG is
			// find_and_delete'd from the scriptCode before any of
			// them are verified, not just the one being checked.
			valid, err := e.verifySignature(sig, pub, sigs)
			if err != nil {
				return err
			}
			if valid {
				matched = true
				break
			}
		}
		if !matched {
			ok = false
			break
		}
	}

	if verify {
		if !ok {
			return scriptError(ErrCheckMultiSigVerify, "OP_CHECKMULTISIGVERIFY failed")
		}
		return nil
	}
	e.Stack.PushBool(ok)
	return nil
}

func reverse(s [][]byte) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// lockTimeThreshold is the boundary below which an nLockTime or CLTV
// operand is interpreted as a block height, and at or above which it
// is interpreted as a Unix timestamp.
const lockTimeThreshold = 500000000

// execCheckLockTimeVerify implements BIP65: the top stack element must
// be a non-negative locktime of the same type (height or time) as the
// transaction's nLockTime, no greater than it, and the current input
// must not have final sequence (which would make nLockTime inert).
func (e *Engine) execCheckLockTimeVerify() error {
	if !e.flags.Has(chaincfg.FlagBIP65) {
		return nil
	}
	v, err := e.Stack.PopLockTimeInt(e.requireMinimal())
	if err != nil {
		return err
	}
	e.Stack.PushInt(v) // CLTV does not consume its operand

	if v < 0 {
		return scriptError(ErrNegativeLockTime, "negative locktime")
	}
	lockTime := int64(v)

	txLockTime := int64(e.tx.LockTime)
	if (lockTime < lockTimeThreshold) != (txLockTime < lockTimeThreshold) {
		return scriptError(ErrUnsatisfiedLockTime, "locktime type mismatch")
	}
	if lockTime > txLockTime {
		return scriptError(ErrUnsatisfiedLockTime, "locktime requirement not satisfied")
	}
	if e.tx.TxIn[e.txIdx].Sequence == 0xffffffff {
		return scriptError(ErrUnsatisfiedLockTime, "locktime is disabled by final sequence number")
	}
	return nil
}

// sequenceLockTimeDisableFlag, sequenceLockTimeTypeFlag, and
// sequenceLockTimeMask are the BIP68 bit layout of a relative locktime
// encoded into a transaction input's sequence number.
const (
	sequenceLockTimeDisableFlag = 1 << 31
	sequenceLockTimeTypeFlag    = 1 << 22
	sequenceLockTimeMask        = 0x0000ffff
)

// execCheckSequenceVerify implements BIP112: the top stack element is
// interpreted as a BIP68-encoded relative locktime and compared
// against the current input's own sequence number, which must encode
// a compatible (height or time based) and at-least-as-large relative
// lock for this check to pass.
func (e *Engine) execCheckSequenceVerify() error {
	if !e.flags.Has(chaincfg.FlagBIP112) {
		return nil
	}
	v, err := e.Stack.PopLockTimeInt(e.requireMinimal())
	if err != nil {
		return err
	}
	e.Stack.PushInt(v)

	if v < 0 {
		return scriptError(ErrNegativeLockTime, "negative relative locktime")
	}
	sequence := int64(v)

	if sequence&sequenceLockTimeDisableFlag != 0 {
		return nil
	}
	if !e.flags.Has(chaincfg.FlagBIP68) {
		return scriptError(ErrUnsatisfiedLockTime, "relative locktime rules not active")
	}

	txSequence := int64(e.tx.TxIn[e.txIdx].Sequence)
	if txSequence&sequenceLockTimeDisableFlag != 0 {
		return scriptError(ErrUnsatisfiedLockTime, "relative locktime is disabled for this input")
	}
	if (sequence&sequenceLockTimeTypeFlag != 0) != (txSequence&sequenceLockTimeTypeFlag != 0) {
		return scriptError(ErrUnsatisfiedLockTime, "relative locktime type mismatch")
	}
	if sequence&sequenceLockTimeMask > txSequence&sequenceLockTimeMask {
		return scriptError(ErrUnsatisfiedLockTime, "relative locktime requirement not satisfied")
	}
	return nil
}
