// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the 32-byte and 20-byte digest types used
// throughout the chain data model along with the compound hash functions
// (HASH160, HASH256, BIP340 tagged hashes) and Merkle reduction consensus
// relies on.
package chainhash

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/ripemd160"
)

// HashSize is the number of bytes in a double-sha256 hash.
const HashSize = 32

// ShortHashSize is the number of bytes in a HASH160 output.
const ShortHashSize = 20

// MaxHashStringSize is the maximum length of a Hash hash string.
const MaxHashStringSize = HashSize * 2

// ErrHashStrSize describes an error that indicates the caller specified
// a hash string that has too many characters.
var ErrHashStrSize = fmt.Errorf("max hash string length is %v bytes", MaxHashStringSize)

// Hash is used in several of the bitcoin messages and common structures. It
// typically represents the double sha256 of data.
type Hash [HashSize]byte

// ShortHash represents a HASH160 digest (RIPEMD160(SHA256(x))), used for
// P2PKH and P2SH script commitments.
type ShortHash [ShortHashSize]byte

// String returns the Hash as the hexadecimal string of the byte-reversed
// hash, matching Bitcoin's conventional display order.
func (h Hash) String() string {
	for i := 0; i < HashSize/2; i++ {
		h[i], h[HashSize-1-i] = h[HashSize-1-i], h[i]
	}
	return hex.EncodeToString(h[:])
}

// CloneBytes returns a copy of the bytes which make up the hash.
func (h *Hash) CloneBytes() []byte {
	newHash := make([]byte, HashSize)
	copy(newHash, h[:])
	return newHash
}

// SetBytes sets the bytes which represent the hash. An error is returned if
// the number of bytes passed in is not HashSize.
func (h *Hash) SetBytes(newHash []byte) error {
	nhlen := len(newHash)
	if nhlen != HashSize {
		return fmt.Errorf("invalid hash length of %v, want %v", nhlen, HashSize)
	}
	copy(h[:], newHash)
	return nil
}

// IsEqual returns true if the hash equals the target hash.
func (h *Hash) IsEqual(target *Hash) bool {
	if h == nil && target == nil {
		return true
	}
	if h == nil || target == nil {
		return false
	}
	return *h == *target
}

// NewHash returns a new Hash from a byte slice. An error is returned if
// the number of bytes passed in is not HashSize.
func NewHash(newHash []byte) (*Hash, error) {
	var sh Hash
	err := sh.SetBytes(newHash)
	if err != nil {
		return nil, err
	}
	return &sh, err
}

// NewHashFromStr creates a Hash from a hash string. The string should be
// the hexadecimal string of a byte-reversed hash, but any missing
// characters result in zero padding at the end of the Hash.
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	err := Decode(ret, hash)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the byte-reversed hexadecimal string encoding of a Hash to
// a destination.
func Decode(dst *Hash, src string) error {
	// Return error if hash string is too long.
	if len(src) > MaxHashStringSize {
		return ErrHashStrSize
	}

	// Hex decoder expects the hash to be a multiple of two. When not, pad
	// with a leading zero.
	var srcBytes []byte
	if len(src)%2 == 0 {
		srcBytes = []byte(src)
	} else {
		srcBytes = make([]byte, 1+len(src))
		srcBytes[0] = '0'
		copy(srcBytes[1:], src)
	}

	var reversedHash Hash
	_, err := hex.Decode(reversedHash[HashSize-hex.DecodedLen(len(srcBytes)):], srcBytes)
	if err != nil {
		return err
	}

	// Reverse copy from the temporary hash to destination because Decode
	// leaves the bytes in big-endian order, but a Hash is stored in
	// little-endian order.
	for i, b := range reversedHash[:HashSize/2] {
		dst[i], dst[HashSize-1-i] = reversedHash[HashSize-1-i], b
	}
	return nil
}

// String returns the ShortHash as a hexadecimal string.
func (h ShortHash) String() string {
	return hex.EncodeToString(h[:])
}

// Sha1 calculates sha1(b) and returns the resulting bytes.
func Sha1(b []byte) [20]byte {
	return sha1.Sum(b)
}

// Sum256 calculates sha256(b) and returns the resulting bytes.
func Sum256(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// Sum512 calculates sha512(b) and returns the resulting bytes.
func Sum512(b []byte) [64]byte {
	return sha512.Sum512(b)
}

// Ripemd160 calculates ripemd160(b) and returns the resulting bytes.
func Ripemd160(b []byte) [20]byte {
	h := ripemd160.New()
	// ripemd160.New never returns an error, and Write on a hash.Hash
	// never returns an error either.
	_, _ = h.Write(b)
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// HashB calculates hash256(b) (double sha256) and returns the resulting
// bytes as a slice.
func HashB(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// HashH calculates hash256(b) (double sha256) and returns the resulting
// bytes as a Hash.
func HashH(b []byte) Hash {
	first := sha256.Sum256(b)
	return Hash(sha256.Sum256(first[:]))
}

// DoubleHashB is an alias retained for the common "hash256" naming used
// throughout the consensus literature.
func DoubleHashB(b []byte) []byte {
	return HashB(b)
}

// DoubleHashH is an alias retained for the common "hash256" naming used
// throughout the consensus literature.
func DoubleHashH(b []byte) Hash {
	return HashH(b)
}

// Hash160 calculates hash160(b) := ripemd160(sha256(b)) and returns the
// resulting bytes.
func Hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	r := Ripemd160(sha[:])
	out := make([]byte, ShortHashSize)
	copy(out, r[:])
	return out
}

// Hash160Short behaves like Hash160 but returns a fixed-size ShortHash.
func Hash160Short(b []byte) ShortHash {
	sha := sha256.Sum256(b)
	return ShortHash(Ripemd160(sha[:]))
}

// TaggedHash implements the BIP340 tagged-hash construction:
//
//	tagged(tag, x) := sha256(sha256(tag) || sha256(tag) || x)
//
// used to domain-separate hashes across the Taproot/Tapscript signature
// algorithms ("TapLeaf", "TapBranch", "TapTweak", "TapSighash").
func TaggedHash(tag string, data ...[]byte) Hash {
	tagHash := sha256.Sum256([]byte(tag))
	h := sha256.New()
	h.Write(tagHash[:])
	h.Write(tagHash[:])
	for _, d := range data {
		h.Write(d)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}
