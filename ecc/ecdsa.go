// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// VerifyECDSA verifies a DER-encoded ECDSA signature over hash (a
// 32-byte sighash) against pubKey. When strictDER is true (bip66
// active for this input), sig is parsed under BIP66's strict grammar;
// otherwise the historical loose grammar is used. Either way, the
// parsed (r, s) pair is validated against the secp256k1 group order
// before the point-multiplication check runs.
func VerifyECDSA(sig, hash []byte, pubKey *btcec.PublicKey, strictDER bool) (bool, error) {
	var rBytes, sBytes []byte
	var err error
	if strictDER {
		rBytes, sBytes, err = ParseSignatureStrict(sig)
	} else {
		rBytes, sBytes, err = ParseSignatureLoose(sig)
	}
	if err != nil {
		return false, fmt.Errorf("parse signature: %w", err)
	}

	r := new(big.Int).SetBytes(rBytes)
	s := new(big.Int).SetBytes(sBytes)
	if r.Sign() == 0 || s.Sign() == 0 {
		return false, fmt.Errorf("zero-valued signature component")
	}
	if r.Cmp(btcec.S256().N) >= 0 || s.Cmp(btcec.S256().N) >= 0 {
		return false, fmt.Errorf("signature component exceeds curve order")
	}

	signature := ecdsa.NewSignature(modNScalarFromBigInt(r), modNScalarFromBigInt(s))
	return signature.Verify(hash, pubKey), nil
}

// modNScalarFromBigInt converts a big.Int already known to be in
// [1, N) into the scalar type the ecdsa package's Signature
// constructor expects.
func modNScalarFromBigInt(v *big.Int) *btcec.ModNScalar {
	var scalar btcec.ModNScalar
	scalar.SetByteSlice(v.Bytes())
	return &scalar
}
