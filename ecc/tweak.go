// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/wyndcrest/ledgercore/chainhash"
)

// TweakPubKey implements the BIP341 output-key derivation: given an
// internal x-only public key and an optional Merkle root (nil for a
// key-path-only output), it computes
//
//	t      := tagged_hash("TapTweak", internalKey || merkleRoot)
//	Q       = P + t*G
//
// where P is the even-y lift of internalKey, and returns Q's x-only
// encoding along with the parity bit of Q's actual y coordinate
// (needed by the control-block verification in tapscript spends).
func TweakPubKey(internalKey []byte, merkleRoot []byte) (outputKey []byte, parity bool, err error) {
	if len(internalKey) != 32 {
		return nil, false, fmt.Errorf("invalid internal key length %d", len(internalKey))
	}

	var xField secp256k1.FieldVal
	if overflow := xField.SetByteSlice(internalKey); overflow {
		return nil, false, fmt.Errorf("internal key x-coordinate overflows field")
	}
	p, err := liftX(&xField)
	if err != nil {
		return nil, false, fmt.Errorf("lift internal key: %w", err)
	}

	tagged := chainhash.TaggedHash("TapTweak", append(append([]byte(nil), internalKey...), merkleRoot...))
	var t secp256k1.ModNScalar
	if overflow := t.SetByteSlice(tagged[:]); overflow {
		return nil, false, fmt.Errorf("tweak scalar overflows group order")
	}

	var tG, q secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&t, &tG)
	secp256k1.AddNonConst(p, &tG, &q)
	q.ToAffine()

	if q.X.IsZero() && q.Y.IsZero() {
		return nil, false, fmt.Errorf("tweaked point is the point at infinity")
	}

	outX := q.X.Bytes()
	return outX[:], q.Y.IsOdd(), nil
}

// liftX implements BIP340's lift_x: given an x coordinate, returns the
// unique point on the curve with that x and an even y.
func liftX(x *secp256k1.FieldVal) (*secp256k1.JacobianPoint, error) {
	var p secp256k1.JacobianPoint
	p.X.Set(x)
	if !secp256k1.DecompressY(x, false, &p.Y) {
		return nil, fmt.Errorf("x-coordinate is not on the curve")
	}
	p.X.Normalize()
	p.Y.Normalize()
	p.Z.SetInt(1)
	return &p, nil
}
