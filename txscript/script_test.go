// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindAndDeleteRemovesExactMatch(t *testing.T) {
	sig := []byte{0xde, 0xad, 0xbe, 0xef}
	ops := []Op{
		{Code: Opcode(len(sig)), Data: sig},
		{Code: OP_CHECKSIG},
		{Code: Opcode(3), Data: []byte{0x01, 0x02, 0x03}},
	}

	out := findAndDelete(ops, sig)
	if assert.Len(t, out, 2) {
		assert.Equal(t, OP_CHECKSIG, out[0].Code)
		assert.Equal(t, []byte{0x01, 0x02, 0x03}, out[1].Data)
	}
}

func TestFindAndDeleteRemovesEveryOccurrence(t *testing.T) {
	sig := []byte{0x01, 0x02}
	ops := []Op{
		{Code: Opcode(len(sig)), Data: sig},
		{Code: OP_DROP},
		{Code: Opcode(len(sig)), Data: sig},
		{Code: OP_CHECKSIG},
	}

	out := findAndDelete(ops, sig)
	assert.Len(t, out, 2)
	assert.Equal(t, OP_DROP, out[0].Code)
	assert.Equal(t, OP_CHECKSIG, out[1].Code)
}

func TestFindAndDeleteLeavesNonMatchingPushesAlone(t *testing.T) {
	ops := []Op{{Code: Opcode(2), Data: []byte{0x01, 0x02}}}
	out := findAndDelete(ops, []byte{0xaa})
	assert.Equal(t, ops, out)
}

func TestFindAndDeleteEmptySigBytesIsNoop(t *testing.T) {
	ops := []Op{{Code: OP_CHECKSIG}}
	out := findAndDelete(ops, nil)
	assert.Equal(t, ops, out)
}

func TestFindAndDeleteIgnoresNonCanonicalEncodingOfSameBytes(t *testing.T) {
	// A push using OP_PUSHDATA1 for data short enough to use a direct
	// push opcode is not canonical, so it is left alone even when its
	// bytes match sigBytes exactly.
	sig := []byte{0x01, 0x02}
	ops := []Op{{Code: OP_PUSHDATA1, Data: sig}}
	out := findAndDelete(ops, sig)
	assert.Equal(t, ops, out)
}
