// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Op is a single decoded script operation: an opcode together with any
// data it pushes. Data is nil for opcodes that push nothing.
type Op struct {
	Code Opcode
	Data []byte
}

// ParseScript decodes a raw script into its sequence of operations. It
// returns the operations successfully parsed before any error, mirroring
// the consensus behavior that script introspection (signature-hashing,
// sigop counting, standardness) operates on the parsed-so-far prefix even
// when the full script does not decode.
func ParseScript(script []byte) ([]Op, error) {
	var ops []Op
	for i := 0; i < len(script); {
		op := Opcode(script[i])
		i++

		switch {
		case op <= 0x4b: // direct data push
			n := int(op)
			if i+n > len(script) {
				return ops, scriptError(ErrMalformedPush,
					"opcode requires more data than available")
			}
			ops = append(ops, Op{Code: op, Data: script[i : i+n]})
			i += n

		case op == OP_PUSHDATA1:
			if i+1 > len(script) {
				return ops, scriptError(ErrMalformedPush, "OP_PUSHDATA1 missing length byte")
			}
			n := int(script[i])
			i++
			if i+n > len(script) {
				return ops, scriptError(ErrMalformedPush, "OP_PUSHDATA1 requires more data than available")
			}
			ops = append(ops, Op{Code: op, Data: script[i : i+n]})
			i += n

		case op == OP_PUSHDATA2:
			if i+2 > len(script) {
				return ops, scriptError(ErrMalformedPush, "OP_PUSHDATA2 missing length bytes")
			}
			n := int(script[i]) | int(script[i+1])<<8
			i += 2
			if i+n > len(script) {
				return ops, scriptError(ErrMalformedPush, "OP_PUSHDATA2 requires more data than available")
			}
			ops = append(ops, Op{Code: op, Data: script[i : i+n]})
			i += n

		case op == OP_PUSHDATA4:
			if i+4 > len(script) {
				return ops, scriptError(ErrMalformedPush, "OP_PUSHDATA4 missing length bytes")
			}
			n := int(script[i]) | int(script[i+1])<<8 | int(script[i+2])<<16 | int(script[i+3])<<24
			i += 4
			if i+n > len(script) {
				return ops, scriptError(ErrMalformedPush, "OP_PUSHDATA4 requires more data than available")
			}
			ops = append(ops, Op{Code: op, Data: script[i : i+n]})
			i += n

		default:
			ops = append(ops, Op{Code: op})
		}
	}
	return ops, nil
}

// IsPushOnly reports whether every operation in ops is a push (including
// OP_RESERVED, which pushes nothing onto an executing stack but is
// nonetheless in the push range); this is the standardness precondition for
// a valid scriptSig ahead of P2SH and witness programs.
func IsPushOnly(ops []Op) bool {
	for _, op := range ops {
		if !isRelaxedPushOpcode(op.Code) {
			return false
		}
	}
	return true
}

// isCanonicalPush reports whether op used the shortest possible opcode to
// push its data, the form the BIP62/minimal-push consensus rules (enforced
// inside P2SH and witness programs) require.
func isCanonicalPush(op Op) bool {
	code, data := op.Code, op.Data
	dataLen := len(data)

	if code > OP_16 {
		return true
	}
	if code < OP_PUSHDATA1 && code > OP_0 && dataLen == 1 && data[0] <= 16 {
		return false
	}
	if code == OP_PUSHDATA1 && dataLen < int(OP_PUSHDATA1) {
		return false
	}
	if code == OP_PUSHDATA2 && dataLen <= 0xff {
		return false
	}
	if code == OP_PUSHDATA4 && dataLen <= 0xffff {
		return false
	}
	return true
}

// unparseScript is the inverse of ParseScript: it re-serializes a sequence
// of operations back into raw script bytes, using the same encoding each
// operation was decoded with.
func unparseScript(ops []Op) []byte {
	var buf bytes.Buffer
	for _, op := range ops {
		switch {
		case op.Code <= 0x4b:
			buf.WriteByte(byte(op.Code))
			buf.Write(op.Data)
		case op.Code == OP_PUSHDATA1:
			buf.WriteByte(byte(op.Code))
			buf.WriteByte(byte(len(op.Data)))
			buf.Write(op.Data)
		case op.Code == OP_PUSHDATA2:
			buf.WriteByte(byte(op.Code))
			buf.WriteByte(byte(len(op.Data)))
			buf.WriteByte(byte(len(op.Data) >> 8))
			buf.Write(op.Data)
		case op.Code == OP_PUSHDATA4:
			n := len(op.Data)
			buf.WriteByte(byte(op.Code))
			buf.WriteByte(byte(n))
			buf.WriteByte(byte(n >> 8))
			buf.WriteByte(byte(n >> 16))
			buf.WriteByte(byte(n >> 24))
			buf.Write(op.Data)
		default:
			buf.WriteByte(byte(op.Code))
		}
	}
	return buf.Bytes()
}

// removeCodeSeparators returns script with every OP_CODESEPARATOR
// operation removed, per the pre-segwit signature hash algorithm.
func removeCodeSeparators(ops []Op) []Op {
	out := make([]Op, 0, len(ops))
	for _, op := range ops {
		if op.Code != OP_CODESEPARATOR {
			out = append(out, op)
		}
	}
	return out
}

// findAndDelete returns ops with every canonical push of exactly
// sigBytes removed, mirroring consensus's FindAndDelete(CScript() <<
// vchSig) step performed on the subscript before hashing for legacy
// OP_CHECKSIG and OP_CHECKMULTISIG. Non-push occurrences of the same
// bytes (e.g. inside a larger push) are left alone.
func findAndDelete(ops []Op, sigBytes []byte) []Op {
	if len(sigBytes) == 0 {
		return ops
	}
	out := make([]Op, 0, len(ops))
	for _, op := range ops {
		if isCanonicalPush(op) && bytes.Equal(op.Data, sigBytes) {
			continue
		}
		out = append(out, op)
	}
	return out
}

// DisasmString renders a human-readable disassembly of a raw script, for
// diagnostics and logging. A parse failure is indicated with a trailing
// "[error]" token, matching the prefix-disassembly the consensus layer
// exposes for malformed scripts.
func DisasmString(script []byte) string {
	ops, err := ParseScript(script)
	var buf bytes.Buffer
	for i, op := range ops {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if op.Data != nil {
			fmt.Fprintf(&buf, "%s", hex.EncodeToString(op.Data))
		} else {
			fmt.Fprintf(&buf, "OP_%02x", byte(op.Code))
		}
	}
	if err != nil {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString("[error]")
	}
	return buf.String()
}

// --- Standard pattern recognizers ---------------------------------------

// IsPayToScriptHash reports whether script is the standard P2SH pattern:
// OP_HASH160 <20-byte hash> OP_EQUAL.
func IsPayToScriptHash(script []byte) bool {
	ops, err := ParseScript(script)
	if err != nil {
		return false
	}
	return len(ops) == 3 &&
		ops[0].Code == OP_HASH160 &&
		ops[1].Code == 0x14 && len(ops[1].Data) == 20 &&
		ops[2].Code == OP_EQUAL
}

// IsPayToPubKeyHash reports whether script is the standard P2PKH pattern:
// OP_DUP OP_HASH160 <20-byte hash> OP_EQUALVERIFY OP_CHECKSIG.
func IsPayToPubKeyHash(script []byte) bool {
	ops, err := ParseScript(script)
	if err != nil {
		return false
	}
	return len(ops) == 5 &&
		ops[0].Code == OP_DUP &&
		ops[1].Code == OP_HASH160 &&
		ops[2].Code == 0x14 && len(ops[2].Data) == 20 &&
		ops[3].Code == OP_EQUALVERIFY &&
		ops[4].Code == OP_CHECKSIG
}

// IsPayToPubKey reports whether script is the bare pubkey pattern:
// <33 or 65-byte pubkey> OP_CHECKSIG.
func IsPayToPubKey(script []byte) bool {
	ops, err := ParseScript(script)
	if err != nil {
		return false
	}
	if len(ops) != 2 || ops[1].Code != OP_CHECKSIG {
		return false
	}
	n := len(ops[0].Data)
	return n == 33 || n == 65
}

// IsWitnessProgram reports whether script is a valid witness program: a
// single small-integer version push followed by a 2-to-40 byte canonical
// data push.
func IsWitnessProgram(script []byte) bool {
	if len(script) < 4 || len(script) > 42 {
		return false
	}
	ops, err := ParseScript(script)
	if err != nil {
		return false
	}
	return isWitnessProgramOps(ops)
}

func isWitnessProgramOps(ops []Op) bool {
	if len(ops) != 2 {
		return false
	}
	if !isNumericWitnessVersion(ops[0].Code) {
		return false
	}
	if !isCanonicalPush(ops[1]) {
		return false
	}
	n := len(ops[1].Data)
	return n >= 2 && n <= 40
}

func isNumericWitnessVersion(op Opcode) bool {
	return op == OP_0 || (op >= OP_1 && op <= OP_16)
}

// ExtractWitnessProgram returns the version and program bytes of script,
// which must already be known to satisfy IsWitnessProgram.
func ExtractWitnessProgram(script []byte) (version int, program []byte, err error) {
	ops, parseErr := ParseScript(script)
	if parseErr != nil || !isWitnessProgramOps(ops) {
		return 0, nil, fmt.Errorf("script is not a witness program")
	}
	if ops[0].Code == OP_0 {
		return 0, ops[1].Data, nil
	}
	return smallIntValue(ops[0].Code), ops[1].Data, nil
}

// IsPayToWitnessPubKeyHash reports whether script is a v0 witness program
// carrying a 20-byte hash (P2WPKH).
func IsPayToWitnessPubKeyHash(script []byte) bool {
	v, p, err := ExtractWitnessProgram(script)
	return err == nil && v == 0 && len(p) == 20
}

// IsPayToWitnessScriptHash reports whether script is a v0 witness program
// carrying a 32-byte hash (P2WSH).
func IsPayToWitnessScriptHash(script []byte) bool {
	v, p, err := ExtractWitnessProgram(script)
	return err == nil && v == 0 && len(p) == 32
}

// IsPayToTaproot reports whether script is a v1 witness program carrying a
// 32-byte x-only output key.
func IsPayToTaproot(script []byte) bool {
	v, p, err := ExtractWitnessProgram(script)
	return err == nil && v == 1 && len(p) == 32
}

// IsUnspendable reports whether script can never be satisfied: it begins
// with OP_RETURN, or fails to parse at all.
func IsUnspendable(script []byte) bool {
	ops, err := ParseScript(script)
	if err != nil {
		return true
	}
	return len(ops) > 0 && ops[0].Code == OP_RETURN
}

// isMultisigScript reports whether ops form a bare m-of-n
// CHECKMULTISIG or CHECKMULTISIGVERIFY script, returning m and n.
func isMultisigScript(ops []Op) (m, n int, ok bool) {
	if len(ops) < 4 {
		return 0, 0, false
	}
	last := ops[len(ops)-1]
	if last.Code != OP_CHECKMULTISIG && last.Code != OP_CHECKMULTISIGVERIFY {
		return 0, 0, false
	}
	nOp := ops[len(ops)-2]
	if !isNumericOpcode(nOp.Code) || nOp.Code == OP_1NEGATE {
		return 0, 0, false
	}
	pubkeyCount := smallIntValue(nOp.Code)
	if len(ops) != pubkeyCount+3 {
		return 0, 0, false
	}
	for i := 0; i < pubkeyCount; i++ {
		d := ops[1+i].Data
		if len(d) != 33 && len(d) != 65 {
			return 0, 0, false
		}
	}
	mOp := ops[0]
	if !isNumericOpcode(mOp.Code) || mOp.Code == OP_1NEGATE {
		return 0, 0, false
	}
	return smallIntValue(mOp.Code), pubkeyCount, true
}

// IsMultisigScript reports whether script is a bare m-of-n multisig script,
// returning the m and n values on success.
func IsMultisigScript(script []byte) (m, n int, ok bool) {
	ops, err := ParseScript(script)
	if err != nil {
		return 0, 0, false
	}
	return isMultisigScript(ops)
}

// GetSigOpCount returns an upper-bound estimate of the signature
// operations in script: CHECKSIG variants count 1, CHECKMULTISIG variants
// count 20, except that when precise is set and the opcode is preceded by
// a small-int pubkey-count literal, that literal's value is used.
func GetSigOpCount(script []byte, precise bool) int {
	ops, _ := ParseScript(script)
	return countSigOps(ops, precise)
}

func countSigOps(ops []Op, precise bool) int {
	count := 0
	for i, op := range ops {
		switch op.Code {
		case OP_CHECKSIG, OP_CHECKSIGVERIFY:
			count++
		case OP_CHECKMULTISIG, OP_CHECKMULTISIGVERIFY:
			if precise && i > 0 && isPositiveOpcode(ops[i-1].Code) {
				count += smallIntValue(ops[i-1].Code)
			} else {
				count += maxPubKeysPerMultisig
			}
		}
	}
	return count
}
