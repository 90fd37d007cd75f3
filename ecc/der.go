// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ecc wraps the secp256k1 elliptic-curve primitives the script
// interpreter needs: public key parsing, ECDSA verification (with the
// BIP66 strict-DER gate), BIP340 Schnorr verification, and the BIP341
// key-tweaking used by Taproot output-key derivation.
package ecc

import "fmt"

// derSignature is a parsed, not-yet-curve-validated DER signature: the
// raw r and s integers as big-endian byte strings with any DER padding
// already stripped.
type derSignature struct {
	r []byte
	s []byte
}

// ParseSignatureLoose parses a DER-encoded ECDSA signature tolerating
// the historical non-canonical encodings (BIP62-violating but
// pre-BIP66-valid) that pre-strict-DER consensus accepted. This is
// used when bip66 is not active for the signature's input.
func ParseSignatureLoose(sig []byte) (r, s []byte, err error) {
	return parseDER(sig, false)
}

// ParseSignatureStrict parses a DER-encoded ECDSA signature under the
// BIP66 strict encoding rules: an exact 0x30 sequence tag, minimal
// length bytes, minimally encoded non-negative integers for r and s,
// and no trailing bytes beyond the signature itself (the caller
// strips the trailing sighash-type byte before calling this).
func ParseSignatureStrict(sig []byte) (r, s []byte, err error) {
	return parseDER(sig, true)
}

// parseDER implements the BIP66 strict-encoding grammar check
// (grounded on the consensus rule's own description: a correctly
// formed DER signature has a fixed, minimal byte layout). When strict
// is false the same shape is parsed but minimality and sign checks are
// relaxed to match pre-BIP66 acceptance.
func parseDER(sig []byte, strict bool) (r, s []byte, err error) {
	const (
		sequenceTag = 0x30
		integerTag  = 0x02
	)

	if strict {
		if len(sig) < 9 {
			return nil, nil, fmt.Errorf("signature too short: %d bytes", len(sig))
		}
		if len(sig) > 73 {
			return nil, nil, fmt.Errorf("signature too long: %d bytes", len(sig))
		}
	}
	if len(sig) < 2 {
		return nil, nil, fmt.Errorf("signature too short")
	}
	if sig[0] != sequenceTag {
		return nil, nil, fmt.Errorf("signature does not start with sequence tag")
	}
	totalLen := int(sig[1])
	if strict && totalLen != len(sig)-2 {
		return nil, nil, fmt.Errorf("sequence length does not match remaining data")
	}
	if totalLen+2 > len(sig) {
		return nil, nil, fmt.Errorf("sequence length exceeds available data")
	}

	offset := 2
	r, offset, err = parseDERInteger(sig, offset, strict)
	if err != nil {
		return nil, nil, fmt.Errorf("r: %w", err)
	}
	s, offset, err = parseDERInteger(sig, offset, strict)
	if err != nil {
		return nil, nil, fmt.Errorf("s: %w", err)
	}
	if strict && offset != len(sig) {
		return nil, nil, fmt.Errorf("trailing bytes after signature")
	}
	return r, s, nil
}

func parseDERInteger(sig []byte, offset int, strict bool) (value []byte, next int, err error) {
	if offset+2 > len(sig) {
		return nil, offset, fmt.Errorf("truncated integer header")
	}
	if sig[offset] != 0x02 {
		return nil, offset, fmt.Errorf("expected integer tag")
	}
	offset++
	length := int(sig[offset])
	offset++
	if offset+length > len(sig) {
		return nil, offset, fmt.Errorf("integer length exceeds available data")
	}
	if strict && length == 0 {
		return nil, offset, fmt.Errorf("zero-length integer")
	}
	value = sig[offset : offset+length]
	offset += length

	if strict {
		if len(value) > 0 && value[0]&0x80 != 0 {
			return nil, offset, fmt.Errorf("negative integer")
		}
		if len(value) > 1 && value[0] == 0x00 && value[1]&0x80 == 0 {
			return nil, offset, fmt.Errorf("excess leading zero byte")
		}
	}
	return value, offset, nil
}
