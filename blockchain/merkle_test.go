// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyndcrest/ledgercore/chainhash"
	"github.com/wyndcrest/ledgercore/wire"
)

func coinbaseTx() *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: 0xffffffff},
		SignatureScript:  []byte{0x02, 0x01, 0x00},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&wire.TxOut{Value: 5_000_000_000, PkScript: []byte{0x51}})
	return tx
}

func TestBuildMerkleTreeStore(t *testing.T) {
	t.Run("SingleTransaction", func(t *testing.T) {
		cb := coinbaseTx()
		store, mutated := BuildMerkleTreeStore([]*wire.MsgTx{cb}, false)
		require.Len(t, store, 1)
		assert.False(t, mutated)
		assert.Equal(t, cb.TxHash(), store[0])
	})

	t.Run("ThreeTransactionsDuplicatesOddTail", func(t *testing.T) {
		cb := coinbaseTx()
		tx2 := validTx()
		tx3 := validTx()
		tx3.LockTime = 1 // ensure a distinct hash from tx2

		store, mutated := BuildMerkleTreeStore([]*wire.MsgTx{cb, tx2, tx3}, false)
		assert.False(t, mutated)
		// 3 leaves -> padded to 4 -> 2 level-1 nodes -> 1 root: 3+2+1 = 6.
		assert.Len(t, store, 6)
	})

	t.Run("DetectsCVE20122459Duplication", func(t *testing.T) {
		cb := coinbaseTx()
		tx2 := validTx()
		// Four transactions where the last three are the same
		// transaction reproduce the classic tail-duplication attack.
		_, mutated := BuildMerkleTreeStore([]*wire.MsgTx{cb, tx2, tx2, tx2}, false)
		assert.True(t, mutated)
	})
}

func TestValidateWitnessCommitment(t *testing.T) {
	t.Run("NoWitnessDataNoCommitmentRequired", func(t *testing.T) {
		block := &wire.MsgBlock{Transactions: []*wire.MsgTx{coinbaseTx(), validTx()}}
		assert.NoError(t, ValidateWitnessCommitment(block))
	})

	t.Run("WitnessDataWithoutCommitmentRejected", func(t *testing.T) {
		cb := coinbaseTx()
		withWitness := validTx()
		withWitness.TxIn[0].Witness = wire.TxWitness{{0x01}}
		block := &wire.MsgBlock{Transactions: []*wire.MsgTx{cb, withWitness}}
		err := ValidateWitnessCommitment(block)
		require.Error(t, err)
		assert.Equal(t, ErrUnexpectedWitness, err.(RuleError).Code)
	})

	t.Run("ValidCommitmentRoundTrips", func(t *testing.T) {
		cb := coinbaseTx()
		nonce := make([]byte, CoinbaseWitnessDataLen)
		cb.TxIn[0].Witness = wire.TxWitness{nonce}

		withWitness := validTx()
		withWitness.TxIn[0].Witness = wire.TxWitness{{0x01}}

		witnessRoot, _ := CalcMerkleRoot([]*wire.MsgTx{cb, withWitness}, true)
		var preimage [64]byte
		copy(preimage[:32], witnessRoot[:])
		copy(preimage[32:], nonce)
		commitment := chainhash.DoubleHashB(preimage[:])

		pkScript := append(append([]byte{}, WitnessMagicBytes...), commitment...)
		cb.TxOut = append(cb.TxOut, &wire.TxOut{Value: 0, PkScript: pkScript})

		block := &wire.MsgBlock{Transactions: []*wire.MsgTx{cb, withWitness}}
		assert.NoError(t, ValidateWitnessCommitment(block))
	})
}
