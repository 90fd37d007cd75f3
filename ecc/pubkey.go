// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// PubKeyBytesLenUncompressed is the maximum size of an encoded public key this package
// accepts: a 65-byte uncompressed point.
const PubKeyBytesLenUncompressed = 65

// ParsePubKey parses a compressed (33-byte) or uncompressed (65-byte)
// secp256k1 public key for use with ECDSA verification.
func ParsePubKey(data []byte) (*btcec.PublicKey, error) {
	switch len(data) {
	case 33, PubKeyBytesLenUncompressed:
	default:
		return nil, fmt.Errorf("invalid public key length %d", len(data))
	}
	pub, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return pub, nil
}

// ParseXOnly parses a BIP340 x-only public key: the 32-byte x
// coordinate of a point with an implicitly even y coordinate.
func ParseXOnly(data []byte) (*btcec.PublicKey, error) {
	if len(data) != schnorr.PubKeyBytesLen {
		return nil, fmt.Errorf("invalid x-only public key length %d", len(data))
	}
	pub, err := schnorr.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("parse x-only public key: %w", err)
	}
	return pub, nil
}

// SerializeXOnly returns the 32-byte x-only encoding of pub, as used
// in a Taproot output key or an internal key.
func SerializeXOnly(pub *btcec.PublicKey) []byte {
	return schnorr.SerializePubKey(pub)
}
