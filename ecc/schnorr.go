// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// VerifySchnorr verifies a BIP340 Schnorr signature: a 64-byte
// signature, a 32-byte x-only public key, and a 32-byte message.
func VerifySchnorr(sig, msg, xOnlyPubKey []byte) (bool, error) {
	if len(sig) != schnorr.SignatureSize {
		return false, fmt.Errorf("invalid schnorr signature length %d", len(sig))
	}
	if len(msg) != 32 {
		return false, fmt.Errorf("invalid message length %d", len(msg))
	}

	pub, err := ParseXOnly(xOnlyPubKey)
	if err != nil {
		return false, err
	}
	parsed, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false, fmt.Errorf("parse schnorr signature: %w", err)
	}
	return parsed.Verify(msg, pub), nil
}
