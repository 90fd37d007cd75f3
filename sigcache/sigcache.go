// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sigcache caches the result of signature verifications already
// performed by the script interpreter, so that a transaction seen again
// in a different block template or re-announced over the network does
// not pay the cost of re-verifying every ECDSA and Schnorr signature it
// carries.
package sigcache

import (
	"github.com/decred/dcrd/lru"

	"github.com/wyndcrest/ledgercore/chainhash"
)

// SignatureCache is a concurrency-safe, bounded set of signature
// verifications already known to be valid. It never records failures:
// an absent entry means "not yet proven valid", not "invalid", so a
// cache miss always falls through to a real verification.
type SignatureCache struct {
	valid *lru.Cache[chainhash.Hash]
}

// New returns a SignatureCache that holds at most maxEntries proven
// signatures before evicting the least recently used.
func New(maxEntries uint) *SignatureCache {
	return &SignatureCache{valid: lru.NewCache[chainhash.Hash](maxEntries)}
}

// Exists reports whether sig, pubKey, and sigHash have already been
// proven to form a valid signature.
func (c *SignatureCache) Exists(sig, pubKey, sigHash []byte) bool {
	return c.valid.Contains(entryKey(sig, pubKey, sigHash))
}

// Add records that sig, pubKey, and sigHash form a proven-valid
// signature, so a future Exists call for the same triple can skip
// re-verification.
func (c *SignatureCache) Add(sig, pubKey, sigHash []byte) {
	c.valid.Add(entryKey(sig, pubKey, sigHash))
}

// entryKey collapses a (signature, public key, signature hash) triple
// into the single hash used as the cache's lookup key.
func entryKey(sig, pubKey, sigHash []byte) chainhash.Hash {
	buf := make([]byte, 0, len(sig)+len(pubKey)+len(sigHash))
	buf = append(buf, sig...)
	buf = append(buf, pubKey...)
	buf = append(buf, sigHash...)
	return chainhash.HashH(buf)
}
