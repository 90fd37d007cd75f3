// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "github.com/wyndcrest/ledgercore/chainhash"

// blockHeaderSize is the fixed serialized length of a BlockHeader:
// version(4) + prevBlock(32) + merkleRoot(32) + timestamp(4) + bits(4)
// + nonce(4).
const blockHeaderSize = 80

// BlockHeader is the 80-byte commitment at the head of every block.
type BlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// BlockHash returns the double-sha256 of the serialized header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	w := NewWriter()
	h.serialize(w)
	return chainhash.HashH(w.Bytes())
}

func (h *BlockHeader) serialize(w *Writer) {
	w.WriteInt32LE(h.Version)
	w.WriteBytes(h.PrevBlock[:])
	w.WriteBytes(h.MerkleRoot[:])
	w.WriteUint32LE(h.Timestamp)
	w.WriteUint32LE(h.Bits)
	w.WriteUint32LE(h.Nonce)
}

// Serialize encodes the header to its fixed 80-byte wire form.
func (h *BlockHeader) Serialize() []byte {
	w := NewWriter()
	h.serialize(w)
	return w.Bytes()
}

// DeserializeBlockHeader decodes an 80-byte BlockHeader from buf.
func DeserializeBlockHeader(buf []byte) (*BlockHeader, error) {
	r := NewReader(buf)
	h := &BlockHeader{}
	h.Version = r.ReadInt32LE()
	copy(h.PrevBlock[:], r.ReadBytes(chainhash.HashSize))
	copy(h.MerkleRoot[:], r.ReadBytes(chainhash.HashSize))
	h.Timestamp = r.ReadUint32LE()
	h.Bits = r.ReadUint32LE()
	h.Nonce = r.ReadUint32LE()
	if r.Exhausted() {
		return nil, r.Err()
	}
	return h, nil
}
