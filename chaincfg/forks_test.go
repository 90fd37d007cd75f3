// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForksReduceSetsOnlyActiveFlags(t *testing.T) {
	f := Forks{BIP16: true, BIP141: true, BIP341: true}
	flags := f.Reduce()

	assert.True(t, flags.Has(FlagBIP16))
	assert.True(t, flags.Has(FlagBIP141))
	assert.True(t, flags.Has(FlagBIP341))
	assert.False(t, flags.Has(FlagBIP65))
	assert.False(t, flags.Has(FlagBIP342))
}

func TestForksReduceEmpty(t *testing.T) {
	var f Forks
	assert.Equal(t, Flags(0), f.Reduce())
}

func TestForksReduceAll(t *testing.T) {
	f := Forks{
		BIP16: true, BIP30: true, BIP30Deactivate: true, BIP30Reactivate: true,
		BIP34: true, BIP42: true, BIP65: true, BIP66: true, BIP68: true,
		BIP90: true, BIP112: true, BIP113: true, BIP141: true, BIP143: true,
		BIP147: true, BIP341: true, BIP342: true,
	}
	flags := f.Reduce()

	all := []Flags{
		FlagBIP16, FlagBIP30, FlagBIP30Deactivate, FlagBIP30Reactivate,
		FlagBIP34, FlagBIP42, FlagBIP65, FlagBIP66, FlagBIP68, FlagBIP90,
		FlagBIP112, FlagBIP113, FlagBIP141, FlagBIP143, FlagBIP147,
		FlagBIP341, FlagBIP342,
	}
	for _, want := range all {
		assert.True(t, flags.Has(want))
	}
}

func TestFlagsHasRequiresEveryBit(t *testing.T) {
	flags := FlagBIP16 | FlagBIP141
	assert.True(t, flags.Has(FlagBIP16))
	assert.True(t, flags.Has(FlagBIP16|FlagBIP141))
	assert.False(t, flags.Has(FlagBIP16|FlagBIP65))
	assert.False(t, flags.Has(FlagBIP342))
}
