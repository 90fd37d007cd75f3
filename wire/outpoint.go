// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"strconv"

	"github.com/wyndcrest/ledgercore/chainhash"
)

// OutPoint identifies a unique transaction output: the hash of the
// transaction that created it and the output's index within that
// transaction.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new OutPoint for the given hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

// String returns the OutPoint in "hash:index" form.
func (o OutPoint) String() string {
	buf := make([]byte, 2*chainhash.HashSize+1, 2*chainhash.HashSize+1+10)
	copy(buf, o.Hash.String())
	buf[2*chainhash.HashSize] = ':'
	buf = strconv.AppendUint(buf, uint64(o.Index), 10)
	return string(buf)
}

// coinbaseIndex is the sentinel output index used by a coinbase input's
// null outpoint.
const coinbaseIndex = 0xffffffff

// IsNull reports whether the outpoint is the null outpoint used by
// coinbase inputs: a zero hash paired with the maximum index.
func (o OutPoint) IsNull() bool {
	return o.Index == coinbaseIndex && o.Hash == (chainhash.Hash{})
}

const outpointSerializeSize = chainhash.HashSize + 4

func readOutPoint(r *Reader) OutPoint {
	var o OutPoint
	copy(o.Hash[:], r.ReadBytes(chainhash.HashSize))
	o.Index = r.ReadUint32LE()
	return o
}

func writeOutPoint(w *Writer, o *OutPoint) {
	w.WriteBytes(o.Hash[:])
	w.WriteUint32LE(o.Index)
}
