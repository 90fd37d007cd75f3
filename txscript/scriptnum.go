// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// defaultScriptNumLen is the default number of bytes data being interpreted
// as an integer may be.
const defaultScriptNumLen = 4

// lockTimeScriptNumLen is the widened byte allowance CHECKLOCKTIMEVERIFY
// and CHECKSEQUENCEVERIFY operands get over ordinary arithmetic, per
// BIP65/BIP112.
const lockTimeScriptNumLen = 5

// ScriptNum represents the number used in script arithmetic and comparison
// opcodes. It wraps an int64 but serializes to and parses from the
// minimally-encoded, sign-magnitude, little-endian byte representation the
// consensus rules require of every numeric operand on the stack.
type ScriptNum int64

// checkMinimalDataEncoding returns whether the given byte array adheres to
// the minimal encoding requirements: no unnecessary zero padding, and the
// high bit of the last byte is only set when an extra zero byte was needed
// to disambiguate it from the sign bit.
func checkMinimalDataEncoding(v []byte) error {
	if len(v) == 0 {
		return nil
	}

	if v[len(v)-1]&0x7f == 0 {
		if len(v) == 1 || v[len(v)-2]&0x80 == 0 {
			return scriptError(ErrMinimalData,
				"numeric value encoded with unnecessary leading zero bytes")
		}
	}
	return nil
}

// makeScriptNum interprets a byte slice as a little-endian, sign-magnitude
// number, returning the result as a ScriptNum. Strict minimal-encoding
// enforcement is gated by requireMinimal. scriptNumLen bounds the number of
// bytes that may be interpreted; scripts are not allowed to use numbers
// larger than this by default.
func makeScriptNum(v []byte, requireMinimal bool, scriptNumLen int) (ScriptNum, error) {
	if len(v) > scriptNumLen {
		return 0, scriptError(ErrNumberTooBig,
			"numeric value encoded exceeds maximum allowed length")
	}
	if requireMinimal {
		if err := checkMinimalDataEncoding(v); err != nil {
			return 0, err
		}
	}
	if len(v) == 0 {
		return 0, nil
	}

	var result int64
	for i, b := range v {
		result |= int64(b) << uint8(8*i)
	}

	if v[len(v)-1]&0x80 != 0 {
		result &= ^(int64(0x80) << uint8(8*(len(v)-1)))
		return ScriptNum(-result), nil
	}
	return ScriptNum(result), nil
}

// Bytes returns the minimally-encoded, sign-magnitude, little-endian
// serialization of the number.
func (n ScriptNum) Bytes() []byte {
	if n == 0 {
		return nil
	}

	isNegative := n < 0
	absoluteValue := n
	if isNegative {
		absoluteValue = -n
	}

	var result []byte
	for absoluteValue > 0 {
		result = append(result, byte(absoluteValue&0xff))
		absoluteValue >>= 8
	}

	if result[len(result)-1]&0x80 != 0 {
		extraByte := byte(0x00)
		if isNegative {
			extraByte = 0x80
		}
		result = append(result, extraByte)
	} else if isNegative {
		result[len(result)-1] |= 0x80
	}
	return result
}

// Int32 returns the 32-bit integer value of the script number, saturating
// to the int32 range.
func (n ScriptNum) Int32() int32 {
	if n > ScriptNum(2147483647) {
		return 2147483647
	}
	if n < ScriptNum(-2147483648) {
		return -2147483648
	}
	return int32(n)
}
