// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestScriptNumRoundTripProperty checks that every ScriptNum within the
// 4-byte-representable range survives an encode/decode round trip,
// which is the property the arithmetic opcodes rely on.
func TestScriptNumRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := ScriptNum(rapid.Int64Range(-2147483647, 2147483647).Draw(rt, "n"))
		encoded := n.Bytes()

		got, err := makeScriptNum(encoded, true, defaultScriptNumLen)
		if err != nil {
			rt.Fatalf("decode %v: %v", encoded, err)
		}
		if got != n {
			rt.Fatalf("round trip mismatch: got %d want %d", got, n)
		}
	})
}

func TestPopIntRejectsFiveByteValue(t *testing.T) {
	s := &stack{}
	v := ScriptNum(1 << 31) // 2147483648, needs the 5th disambiguating byte
	s.Push(v.Bytes())

	_, err := s.PopInt(true)
	require.Error(t, err)
	var scriptErr Error
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, ErrNumberTooBig, scriptErr.Code)
}

func TestPopLockTimeIntAllowsFiveByteValue(t *testing.T) {
	s := &stack{}
	v := ScriptNum(1 << 31)
	s.Push(v.Bytes())

	got, err := s.PopLockTimeInt(true)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestPopLockTimeIntStillRejectsSixByteValue(t *testing.T) {
	s := &stack{}
	s.Push([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x01})

	_, err := s.PopLockTimeInt(true)
	require.Error(t, err)
	var scriptErr Error
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, ErrNumberTooBig, scriptErr.Code)
}
