// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyECDSAValidSignature(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	hash := sha256.Sum256([]byte("message"))

	sig := ecdsa.Sign(priv, hash[:])

	ok, err := VerifyECDSA(sig.Serialize(), hash[:], priv.PubKey(), true)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyECDSARejectsWrongKey(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	other, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	hash := sha256.Sum256([]byte("message"))

	sig := ecdsa.Sign(priv, hash[:])

	ok, err := VerifyECDSA(sig.Serialize(), hash[:], other.PubKey(), true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyECDSARejectsMalformedSignature(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	hash := sha256.Sum256([]byte("message"))

	_, err = VerifyECDSA([]byte{0x01, 0x02}, hash[:], priv.PubKey(), true)
	assert.Error(t, err)
}

func TestVerifyECDSAStrictRejectsTrailingGarbage(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	hash := sha256.Sum256([]byte("message"))

	sig := append(ecdsa.Sign(priv, hash[:]).Serialize(), 0xff)

	_, err = VerifyECDSA(sig, hash[:], priv.PubKey(), true)
	assert.Error(t, err)

	// The loose grammar tolerates the same trailing byte.
	ok, err := VerifyECDSA(sig, hash[:], priv.PubKey(), false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParsePubKeyRoundTrip(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	compressed := priv.PubKey().SerializeCompressed()
	got, err := ParsePubKey(compressed)
	require.NoError(t, err)
	assert.True(t, got.IsEqual(priv.PubKey()))

	uncompressed := priv.PubKey().SerializeUncompressed()
	got, err = ParsePubKey(uncompressed)
	require.NoError(t, err)
	assert.True(t, got.IsEqual(priv.PubKey()))
}

func TestParsePubKeyRejectsBadLength(t *testing.T) {
	_, err := ParsePubKey(make([]byte, 10))
	assert.Error(t, err)
}

func TestParseXOnlyRoundTrip(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	xonly := SerializeXOnly(priv.PubKey())
	got, err := ParseXOnly(xonly)
	require.NoError(t, err)
	assert.Equal(t, xonly, SerializeXOnly(got))
}

func TestVerifySchnorrValidSignature(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	msg := sha256.Sum256([]byte("tapscript sighash"))

	sig, err := schnorr.Sign(priv, msg[:])
	require.NoError(t, err)

	xonly := schnorr.SerializePubKey(priv.PubKey())
	ok, err := VerifySchnorr(sig.Serialize(), msg[:], xonly)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifySchnorrRejectsTamperedMessage(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	msg := sha256.Sum256([]byte("tapscript sighash"))

	sig, err := schnorr.Sign(priv, msg[:])
	require.NoError(t, err)

	wrongMsg := sha256.Sum256([]byte("different message"))
	xonly := schnorr.SerializePubKey(priv.PubKey())
	ok, err := VerifySchnorr(sig.Serialize(), wrongMsg[:], xonly)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifySchnorrRejectsBadLengths(t *testing.T) {
	_, err := VerifySchnorr(make([]byte, 10), make([]byte, 32), make([]byte, 32))
	assert.Error(t, err)

	_, err = VerifySchnorr(make([]byte, schnorr.SignatureSize), make([]byte, 10), make([]byte, 32))
	assert.Error(t, err)
}

func TestTweakPubKeyDeterministic(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	internal := schnorr.SerializePubKey(priv.PubKey())

	out1, parity1, err := TweakPubKey(internal, nil)
	require.NoError(t, err)
	out2, parity2, err := TweakPubKey(internal, nil)
	require.NoError(t, err)

	assert.Equal(t, out1, out2)
	assert.Equal(t, parity1, parity2)
	assert.Len(t, out1, 32)

	merkleRoot := sha256.Sum256([]byte("leaf"))
	outWithRoot, _, err := TweakPubKey(internal, merkleRoot[:])
	require.NoError(t, err)
	assert.NotEqual(t, out1, outWithRoot)
}
