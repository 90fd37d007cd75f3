// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sigcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureCacheAddThenExists(t *testing.T) {
	c := New(10)
	sig, pub, hash := []byte("sig"), []byte("pub"), []byte("hash")

	assert.False(t, c.Exists(sig, pub, hash))
	c.Add(sig, pub, hash)
	assert.True(t, c.Exists(sig, pub, hash))
}

func TestSignatureCacheDistinguishesTriples(t *testing.T) {
	c := New(10)
	c.Add([]byte("sig1"), []byte("pub"), []byte("hash"))

	assert.False(t, c.Exists([]byte("sig2"), []byte("pub"), []byte("hash")))
	assert.False(t, c.Exists([]byte("sig1"), []byte("pub2"), []byte("hash")))
	assert.False(t, c.Exists([]byte("sig1"), []byte("pub"), []byte("hash2")))
}

func TestSignatureCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(1)
	c.Add([]byte("sig1"), []byte("pub"), []byte("hash"))
	c.Add([]byte("sig2"), []byte("pub"), []byte("hash"))

	assert.False(t, c.Exists([]byte("sig1"), []byte("pub"), []byte("hash")))
	assert.True(t, c.Exists([]byte("sig2"), []byte("pub"), []byte("hash")))
}
