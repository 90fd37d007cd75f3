// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTx(t *testing.T) *MsgTx {
	t.Helper()
	tx := NewMsgTx(TxVersion)
	tx.AddTxIn(NewTxIn(&OutPoint{Index: 0}, []byte{0x51}))
	tx.AddTxOut(NewTxOut(5000, []byte{0x6a}))
	return tx
}

func TestMsgTxSerializeDeserializeRoundTrip(t *testing.T) {
	tx := sampleTx(t)
	buf, err := tx.Serialize()
	require.NoError(t, err)

	got, err := DeserializeTx(buf)
	require.NoError(t, err)
	assert.Equal(t, tx.Version, got.Version)
	assert.Equal(t, tx.LockTime, got.LockTime)
	assert.Equal(t, tx.TxIn[0].SignatureScript, got.TxIn[0].SignatureScript)
	assert.Equal(t, tx.TxOut[0].PkScript, got.TxOut[0].PkScript)
	assert.Equal(t, tx.TxHash(), got.TxHash())
}

func TestMsgTxWitnessedRoundTrip(t *testing.T) {
	tx := sampleTx(t)
	tx.TxIn[0].Witness = TxWitness{{0x01, 0x02}, {0x03}}

	buf, err := tx.Serialize()
	require.NoError(t, err)

	got, err := DeserializeTx(buf)
	require.NoError(t, err)
	assert.Equal(t, tx.TxIn[0].Witness, got.TxIn[0].Witness)

	// The txid is invariant under witness data: it must match the
	// nominal (no-witness) serialization's hash either way.
	assert.Equal(t, tx.TxHash(), got.TxHash())
	assert.NotEqual(t, tx.TxHash(), tx.WitnessHash())
}

func TestMsgTxHasWitness(t *testing.T) {
	tx := sampleTx(t)
	assert.False(t, tx.HasWitness())
	tx.TxIn[0].Witness = TxWitness{{0x01}}
	assert.True(t, tx.HasWitness())
}

func TestMsgTxIsCoinBase(t *testing.T) {
	tx := NewMsgTx(TxVersion)
	tx.AddTxIn(NewTxIn(&OutPoint{Index: 0xffffffff}, []byte{0x00}))
	assert.True(t, tx.IsCoinBase())

	tx.AddTxIn(NewTxIn(&OutPoint{Index: 1}, nil))
	assert.False(t, tx.IsCoinBase())
}

func TestMsgTxWeightAndVSize(t *testing.T) {
	tx := sampleTx(t)
	stripped := tx.SerializeSizeStripped()
	assert.Equal(t, int64(stripped*4), tx.Weight())
	assert.Equal(t, int64(stripped), tx.VSize())

	tx.TxIn[0].Witness = TxWitness{{0x01, 0x02, 0x03}}
	witnessedWeight := 3*int64(tx.SerializeSizeStripped()) + int64(tx.SerializeSize())
	assert.Equal(t, witnessedWeight, tx.Weight())
}

func TestMsgTxShallowCopyIsIndependentOfFields(t *testing.T) {
	tx := sampleTx(t)
	clone := tx.ShallowCopy()

	clone.TxIn[0].SignatureScript = []byte{0x00}
	clone.TxOut[0].Value = 1

	assert.NotEqual(t, tx.TxIn[0].SignatureScript, clone.TxIn[0].SignatureScript)
	assert.NotEqual(t, tx.TxOut[0].Value, clone.TxOut[0].Value)
}

func TestMsgTxCopyIsDeep(t *testing.T) {
	tx := sampleTx(t)
	tx.TxIn[0].Witness = TxWitness{{0x01}}
	clone := tx.Copy()

	clone.TxIn[0].Witness[0][0] = 0xff
	assert.Equal(t, byte(0x01), tx.TxIn[0].Witness[0][0])
}

func TestDeserializeTxRejectsMalformed(t *testing.T) {
	_, err := DeserializeTx([]byte{0x01, 0x02})
	assert.Error(t, err)
}
