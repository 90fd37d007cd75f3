// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// maxTxPerBlock bounds the number of transactions a decoded block may
// declare, derived from the smallest possible encoded transaction.
const maxTxPerBlock = MaxBlockBaseSize/minTxPayload + 1

// minTxPayload is the minimum possible serialized size of a
// transaction: version(4) + one varint input-count byte + one varint
// output-count byte + locktime(4), ignoring the (required, but
// separately bounded) input and output payloads themselves.
const minTxPayload = 10

// MsgBlock is a full Bitcoin block: a header and its transactions.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// AddTransaction appends a transaction to the block.
func (b *MsgBlock) AddTransaction(tx *MsgTx) {
	b.Transactions = append(b.Transactions, tx)
}

// Serialize encodes the full block: header, transaction count, then
// each transaction in its own (possibly witnessed) encoding.
func (b *MsgBlock) Serialize() ([]byte, error) {
	w := NewWriter()
	b.Header.serialize(w)
	w.WriteVarInt(uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		encoded, err := tx.Serialize()
		if err != nil {
			return nil, err
		}
		w.WriteBytes(encoded)
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DeserializeBlock decodes a full block from buf.
func DeserializeBlock(buf []byte) (*MsgBlock, error) {
	if len(buf) < blockHeaderSize {
		return nil, newError(ErrEOF, "DeserializeBlock", "buffer shorter than a block header")
	}
	header, err := DeserializeBlockHeader(buf[:blockHeaderSize])
	if err != nil {
		return nil, err
	}

	r := NewReader(buf[blockHeaderSize:])
	count := r.ReadVarInt()
	if r.Exhausted() {
		return nil, r.Err()
	}
	if count > maxTxPerBlock {
		return nil, newError(ErrTooManyItems, "DeserializeBlock", "too many transactions for block size")
	}

	block := &MsgBlock{Header: *header, Transactions: make([]*MsgTx, count)}
	offset := blockHeaderSize + (len(buf[blockHeaderSize:]) - r.Remaining())
	for i := range block.Transactions {
		tx, n, err := deserializeTxPrefix(buf[offset:])
		if err != nil {
			return nil, err
		}
		block.Transactions[i] = tx
		offset += n
	}
	return block, nil
}

// deserializeTxPrefix decodes a single transaction from the start of
// buf and reports how many bytes it consumed, allowing a sequence of
// transactions to be parsed back-to-back out of a single buffer.
func deserializeTxPrefix(buf []byte) (*MsgTx, int, error) {
	tx, err := DeserializeTx(buf)
	if err != nil {
		return nil, 0, err
	}
	if tx.HasWitness() {
		return tx, tx.SerializeSize(), nil
	}
	return tx, tx.SerializeSizeStripped(), nil
}
