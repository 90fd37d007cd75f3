// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"

	"github.com/wyndcrest/ledgercore/chaincfg"
	"github.com/wyndcrest/ledgercore/chainhash"
	"github.com/wyndcrest/ledgercore/wire"
)

// condState tracks the three-valued state of one level of IF/NOTIF
// nesting: whether its branch is currently executing, was skipped
// because the condition was false, or is being skipped because an
// enclosing branch is not executing at all.
type condState byte

const (
	condExecuting condState = iota
	condFalseBranch
	condSkip
)

// SigChecker abstracts signature verification so the engine can be
// wired to either a real ecc.VerifyECDSA/VerifySchnorr pair or, in
// tests, a stub. The production implementation lives in checker.go.
type SigChecker interface {
	CheckECDSASignature(sig, pubKey, sigHash []byte) (bool, error)
	CheckSchnorrSignature(sig, pubKey, sigHash []byte) (bool, error)
}

// Engine executes a single script segment (the signature script, the
// public key script, a P2SH redeem script, or a witness/tapscript
// script) against a shared stack, carrying the consensus-flag-gated
// behavior switches and the per-input signature-hash context CHECKSIG
// and the locktime opcodes need.
type Engine struct {
	Stack    stack
	altStack stack

	flags chaincfg.Flags
	sigChecker SigChecker

	tx          *wire.MsgTx
	txIdx       int
	inputAmount int64
	sigHashes   *TxSigHashes

	// segwit selects the BIP143 signature hash; segwitScriptCode records
	// the P2WPKH/P2WSH script code when segwit is true. The BIP143 hash
	// itself is computed from activeSubScript and inputAmount.
	segwit           bool
	segwitScriptCode []byte

	// taproot indicates tapscript (BIP342) execution context: BIP342
	// CHECKSIG uses the BIP341 digest directly rather than re-deriving
	// a script code, OP_SUCCESSx short-circuits the whole script to
	// success, and CHECKSIGADD is available.
	taproot     bool
	tapLeafHash chainhash.Hash

	// sigOpBudget is the remaining BIP342 signature-operations budget
	// for a tapscript execution, spent by execCheckSig/execCheckSigAdd.
	// Meaningless (and left zero) outside tapscript.
	sigOpBudget int

	condStack  []condState
	numOps     int
	lastCodeSep int

	// ops is the currently executing script with everything before the
	// last executed OP_CODESEPARATOR still attached; activeSubScript
	// derives the signature-hash subscript from it on demand.
	ops []Op
}

// NewEngine returns an Engine sharing no state with any prior
// execution; Stack/altStack start empty and must be seeded by the
// caller (program.go) with the signature script's resulting stack
// before the public key script runs.
func NewEngine(flags chaincfg.Flags, checker SigChecker, tx *wire.MsgTx, txIdx int, inputAmount int64, sigHashes *TxSigHashes) *Engine {
	return &Engine{
		flags:       flags,
		sigChecker:  checker,
		tx:          tx,
		txIdx:       txIdx,
		inputAmount: inputAmount,
		sigHashes:   sigHashes,
		lastCodeSep: -1,
	}
}

// executing reports whether the current position is inside only
// actively-taken conditional branches.
func (e *Engine) executing() bool {
	for _, c := range e.condStack {
		if c != condExecuting {
			return false
		}
	}
	return true
}

// Execute runs ops against the engine's current stack, continuing the
// numOps budget and condStack from any prior segment run on this
// Engine (as program.go does from the scriptSig to the pkScript; the
// P2SH redeem script runs on a fresh Engine). The OP_CODESEPARATOR
// position is reset, since it indexes into ops.
func (e *Engine) Execute(ops []Op) error {
	e.ops = ops
	e.lastCodeSep = -1
	baseCondDepth := len(e.condStack)

	for idx := 0; idx < len(ops); idx++ {
		op := ops[idx]

		if len(op.Data) > maxScriptElementSize {
			return scriptError(ErrElementTooBig, "element exceeds maximum allowed size")
		}

		executing := e.executing()

		if e.taproot && executing && isSuccessOpcode(op.Code) {
			// OP_SUCCESSx terminates the whole script as valid the
			// instant it is reached while executing, per BIP342.
			e.Stack.items = nil
			e.Stack.Push([]byte{1})
			return nil
		}

		if isDisabledOpcode(op.Code) {
			return scriptError(ErrDisabledOpcode, "attempt to execute disabled opcode")
		}
		if op.Code == OP_VERIF || op.Code == OP_VERNOTIF {
			return scriptError(ErrReservedOpcode, "attempt to execute OP_VERIF/OP_VERNOTIF")
		}

		if !isPushOpcode(op.Code) {
			if isCountedOpcode(op.Code) {
				e.numOps++
				if e.numOps > maxOpsPerScript {
					return scriptError(ErrTooManyOperations, "exceeded maximum allowed operations")
				}
			}
		}

		if !executing && !isConditionalOpcode(op.Code) {
			continue
		}

		if err := e.step(op, idx); err != nil {
			log.Tracef("script execution failed at op %d (opcode %#x): %v", idx, byte(op.Code), err)
			return err
		}

		if e.Stack.Depth()+e.altStack.Depth() > maxStackSize {
			return scriptError(ErrStackSize, "combined stack size exceeds maximum")
		}
	}

	if len(e.condStack) != baseCondDepth {
		return scriptError(ErrUnbalancedConditional, "unbalanced conditional at end of script")
	}
	return nil
}

// Success reports whether the engine's stack evaluates to script-true
// by the single-element truthiness test used at the end of the final
// script segment.
func (e *Engine) Success() (bool, error) {
	if e.Stack.Depth() < 1 {
		return false, scriptError(ErrEvalFalse, "script evaluated without error but left stack empty")
	}
	top, err := e.Stack.Peek(0)
	if err != nil {
		return false, err
	}
	return asBool(top), nil
}

func (e *Engine) step(op Op, idx int) error {
	switch {
	case op.Code <= OP_16 && op.Code != OP_RESERVED:
		return e.execPush(op)
	case isConditionalOpcode(op.Code):
		return e.execConditional(op)
	}

	executing := e.executing()
	if !executing {
		return nil
	}

	switch op.Code {
	case OP_NOP:
		return nil
	case OP_VERIFY:
		ok, err := e.Stack.PopBool()
		if err != nil {
			return err
		}
		if !ok {
			return scriptError(ErrVerify, "OP_VERIFY failed")
		}
		return nil
	case OP_RETURN:
		return scriptError(ErrEarlyReturn, "OP_RETURN encountered")
	case OP_RESERVED, OP_VER, OP_RESERVED1, OP_RESERVED2:
		return scriptError(ErrReservedOpcode, "attempt to execute reserved opcode")

	case OP_TOALTSTACK:
		v, err := e.Stack.Pop()
		if err != nil {
			return err
		}
		e.altStack.Push(v)
		return nil
	case OP_FROMALTSTACK:
		v, err := e.altStack.Pop()
		if err != nil {
			return scriptError(ErrInvalidStackOperation, "alt stack is empty")
		}
		e.Stack.Push(v)
		return nil
	case OP_2DROP:
		return e.Stack.DropN(2)
	case OP_2DUP:
		return e.Stack.DupN(2)
	case OP_3DUP:
		return e.Stack.DupN(3)
	case OP_2OVER:
		return e.Stack.overN(2)
	case OP_2ROT:
		return e.Stack.rotN(2)
	case OP_2SWAP:
		return e.Stack.swapN(2)
	case OP_IFDUP:
		v, err := e.Stack.Peek(0)
		if err != nil {
			return err
		}
		if asBool(v) {
			e.Stack.Push(v)
		}
		return nil
	case OP_DEPTH:
		e.Stack.PushInt(ScriptNum(e.Stack.Depth()))
		return nil
	case OP_DROP:
		_, err := e.Stack.Pop()
		return err
	case OP_DUP:
		return e.Stack.DupN(1)
	case OP_NIP:
		return e.Stack.NipN(1)
	case OP_OVER:
		return e.Stack.overN(1)
	case OP_PICK, OP_ROLL:
		n, err := e.Stack.PopInt(e.requireMinimal())
		if err != nil {
			return err
		}
		if n < 0 || int(n) >= e.Stack.Depth() {
			return scriptError(ErrInvalidStackOperation, "pick/roll index out of range")
		}
		v, err := e.Stack.Peek(int(n))
		if err != nil {
			return err
		}
		if op.Code == OP_ROLL {
			idx := e.Stack.Depth() - 1 - int(n)
			e.Stack.items = append(e.Stack.items[:idx], e.Stack.items[idx+1:]...)
		}
		e.Stack.Push(v)
		return nil
	case OP_ROT:
		return e.Stack.rotN(1)
	case OP_SWAP:
		return e.Stack.swapN(1)
	case OP_TUCK:
		return e.Stack.Tuck()
	case OP_SIZE:
		v, err := e.Stack.Peek(0)
		if err != nil {
			return err
		}
		e.Stack.PushInt(ScriptNum(len(v)))
		return nil

	case OP_EQUAL, OP_EQUALVERIFY:
		b, err := e.Stack.PopN(2)
		if err != nil {
			return err
		}
		eq := bytes.Equal(b[0], b[1])
		if op.Code == OP_EQUALVERIFY {
			if !eq {
				return scriptError(ErrEqualVerify, "OP_EQUALVERIFY failed")
			}
			return nil
		}
		e.Stack.PushBool(eq)
		return nil

	case OP_1ADD, OP_1SUB, OP_NEGATE, OP_ABS, OP_NOT, OP_0NOTEQUAL:
		return e.execUnaryArith(op.Code)
	case OP_ADD, OP_SUB, OP_BOOLAND, OP_BOOLOR, OP_NUMEQUAL, OP_NUMEQUALVERIFY,
		OP_NUMNOTEQUAL, OP_LESSTHAN, OP_GREATERTHAN, OP_LESSTHANOREQUAL,
		OP_GREATERTHANOREQUAL, OP_MIN, OP_MAX:
		return e.execBinaryArith(op.Code)
	case OP_WITHIN:
		return e.execWithin()

	case OP_RIPEMD160:
		v, err := e.Stack.Pop()
		if err != nil {
			return err
		}
		h := chainhash.Ripemd160(v)
		e.Stack.Push(h[:])
		return nil
	case OP_SHA1:
		v, err := e.Stack.Pop()
		if err != nil {
			return err
		}
		h := sha1.Sum(v)
		e.Stack.Push(h[:])
		return nil
	case OP_SHA256:
		v, err := e.Stack.Pop()
		if err != nil {
			return err
		}
		h := sha256.Sum256(v)
		e.Stack.Push(h[:])
		return nil
	case OP_HASH160:
		v, err := e.Stack.Pop()
		if err != nil {
			return err
		}
		e.Stack.Push(chainhash.Hash160(v))
		return nil
	case OP_HASH256:
		v, err := e.Stack.Pop()
		if err != nil {
			return err
		}
		e.Stack.Push(chainhash.DoubleHashB(v))
		return nil
	case OP_CODESEPARATOR:
		e.lastCodeSep = idx
		return nil

	case OP_CHECKSIG, OP_CHECKSIGVERIFY:
		return e.execCheckSig(op.Code == OP_CHECKSIGVERIFY)
	case OP_CHECKMULTISIG, OP_CHECKMULTISIGVERIFY:
		return e.execCheckMultiSig(op.Code == OP_CHECKMULTISIGVERIFY)
	case OP_CHECKSIGADD:
		return e.execCheckSigAdd()

	case OP_CHECKLOCKTIMEVERIFY:
		return e.execCheckLockTimeVerify()
	case OP_CHECKSEQUENCEVERIFY:
		return e.execCheckSequenceVerify()

	case OP_NOP1, OP_NOP4, OP_NOP5, OP_NOP6, OP_NOP7, OP_NOP8, OP_NOP9, OP_NOP10:
		// Reserved for future soft-fork upgrade; a plain no-op until
		// such time as consensus assigns them meaning. Discouraging
		// their use ahead of redefinition is a mempool-policy concern,
		// not a consensus one, so it is not enforced here.
		return nil

	default:
		return scriptError(ErrInternal, "unrecognized opcode")
	}
}

// requireMinimal reports whether numeric stack operands must use their
// minimal encoding: always true for post-BIP68/segwit-era scripts in
// this implementation, matching standard mempool-policy-turned-
// consensus behavior for witness and tapscript execution.
func (e *Engine) requireMinimal() bool { return true }

func (e *Engine) execPush(op Op) error {
	if !e.executing() {
		return nil
	}
	switch op.Code {
	case OP_0:
		e.Stack.Push([]byte{})
	case OP_1NEGATE:
		e.Stack.PushInt(-1)
	default:
		if isPositiveOpcode(op.Code) {
			e.Stack.PushInt(ScriptNum(smallIntValue(op.Code)))
			return nil
		}
		e.Stack.Push(op.Data)
	}
	return nil
}

func (e *Engine) execConditional(op Op) error {
	switch op.Code {
	case OP_IF, OP_NOTIF:
		cond := condSkip
		if e.executing() {
			v, err := e.Stack.PopBool()
			if err != nil {
				return err
			}
			if op.Code == OP_NOTIF {
				v = !v
			}
			if v {
				cond = condExecuting
			} else {
				cond = condFalseBranch
			}
		}
		e.condStack = append(e.condStack, cond)
	case OP_ELSE:
		if len(e.condStack) == 0 {
			return scriptError(ErrUnbalancedConditional, "OP_ELSE without matching OP_IF")
		}
		top := len(e.condStack) - 1
		switch e.condStack[top] {
		case condExecuting:
			e.condStack[top] = condFalseBranch
		case condFalseBranch:
			e.condStack[top] = condExecuting
		case condSkip:
			// stays skipped: an enclosing branch is inactive
		}
	case OP_ENDIF:
		if len(e.condStack) == 0 {
			return scriptError(ErrUnbalancedConditional, "OP_ENDIF without matching OP_IF")
		}
		e.condStack = e.condStack[:len(e.condStack)-1]
	}
	return nil
}
