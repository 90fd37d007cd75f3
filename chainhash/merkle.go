// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

// HashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash256 of their concatenation. This is the pairing
// primitive used throughout Merkle reduction.
func HashMerkleBranches(left, right *Hash) Hash {
	var buf [HashSize * 2]byte
	copy(buf[:HashSize], left[:])
	copy(buf[HashSize:], right[:])
	return HashH(buf[:])
}

// MerkleRoot reduces a slice of leaf hashes to a single root by recursively
// pairing and hashing adjacent leaves. When a level has an odd number of
// elements, its last element is duplicated before pairing, per the
// consensus Merkle-tree construction. The empty input reduces to the
// zero hash.
func MerkleRoot(leaves []Hash) Hash {
	root, _ := MerkleRootMutated(leaves)
	return root
}

// MerkleRootMutated computes the Merkle root the same way MerkleRoot does,
// and additionally reports whether the tree is "mutated": whether any
// level of the reduction pairs two adjacent, equal-valued nodes before
// that level's own odd-count duplication step runs. An equal adjacent
// pair at that point proves the leaf set contains a duplicated
// transaction (or a duplicated subtree) positioned so that appending it
// reproduces an existing node, which is the CVE-2012-2459 tail-duplication
// construction: the attacker extends a block's transaction list with a
// copy of an existing transaction (typically the last) and the Merkle
// root does not change, while the transaction list itself does. A block
// exhibiting this must be rejected even though its root validates,
// because two distinct transaction lists hash to the same commitment.
func MerkleRootMutated(leaves []Hash) (root Hash, mutated bool) {
	if len(leaves) == 0 {
		return Hash{}, false
	}
	level := make([]Hash, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		for i := 0; i+1 < len(level); i += 2 {
			if level[i] == level[i+1] {
				mutated = true
			}
		}
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]Hash, len(level)/2)
		for i := 0; i < len(next); i++ {
			next[i] = HashMerkleBranches(&level[2*i], &level[2*i+1])
		}
		level = next
	}
	return level[0], mutated
}
