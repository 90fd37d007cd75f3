// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashStringRoundTrip(t *testing.T) {
	h := HashH([]byte("round trip me"))
	got, err := NewHashFromStr(h.String())
	require.NoError(t, err)
	assert.True(t, got.IsEqual(&h))
}

func TestHashSetBytesRejectsWrongLength(t *testing.T) {
	var h Hash
	err := h.SetBytes(make([]byte, HashSize-1))
	assert.Error(t, err)
}

func TestIsEqualNilHandling(t *testing.T) {
	var a, b *Hash
	assert.True(t, a.IsEqual(b))

	h := HashH([]byte("x"))
	assert.False(t, a.IsEqual(&h))
	assert.False(t, h.IsEqual(nil))
}

func TestHashHIsDoubleSHA256(t *testing.T) {
	data := []byte("consensus")
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])

	got := HashH(data)
	assert.Equal(t, Hash(second), got)
	assert.Equal(t, DoubleHashH(data), got)
}

func TestHash160MatchesRipemdOfSha256(t *testing.T) {
	data := []byte("pubkey bytes")
	sha := sha256.Sum256(data)
	want := Ripemd160(sha[:])

	got := Hash160(data)
	assert.Equal(t, want[:], got)
}

func TestTaggedHashDomainSeparation(t *testing.T) {
	data := []byte("leaf script bytes")
	leaf := TaggedHash("TapLeaf", data)
	branch := TaggedHash("TapBranch", data)
	assert.NotEqual(t, leaf, branch)

	// Deterministic: same tag and data always reduces to the same hash.
	again := TaggedHash("TapLeaf", data)
	assert.Equal(t, leaf, again)
}

func TestDecodeRejectsOversizedString(t *testing.T) {
	var h Hash
	over := make([]byte, MaxHashStringSize+2)
	for i := range over {
		over[i] = 'a'
	}
	err := Decode(&h, string(over))
	assert.ErrorIs(t, err, ErrHashStrSize)
}
