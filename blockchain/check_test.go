// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyndcrest/ledgercore/chaincfg"
	"github.com/wyndcrest/ledgercore/wire"
)

func validTx() *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: 0},
		SignatureScript:  []byte{0x51},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&wire.TxOut{Value: 5000, PkScript: []byte{0x51}})
	return tx
}

func TestCheckTransactionSanity(t *testing.T) {
	t.Run("ValidTransaction", func(t *testing.T) {
		require.NoError(t, CheckTransactionSanity(validTx()))
	})

	t.Run("NoInputs", func(t *testing.T) {
		tx := validTx()
		tx.TxIn = nil
		err := CheckTransactionSanity(tx)
		require.Error(t, err)
		assert.Equal(t, ErrNoTxInputs, err.(RuleError).Code)
	})

	t.Run("NoOutputs", func(t *testing.T) {
		tx := validTx()
		tx.TxOut = nil
		err := CheckTransactionSanity(tx)
		require.Error(t, err)
		assert.Equal(t, ErrNoTxOutputs, err.(RuleError).Code)
	})

	t.Run("NegativeOutputValue", func(t *testing.T) {
		tx := validTx()
		tx.TxOut[0].Value = -1
		err := CheckTransactionSanity(tx)
		require.Error(t, err)
		assert.Equal(t, ErrBadTxOutValue, err.(RuleError).Code)
	})

	t.Run("OutputValueAboveMaxSatoshi", func(t *testing.T) {
		tx := validTx()
		tx.TxOut[0].Value = wire.MaxSatoshi + 1
		err := CheckTransactionSanity(tx)
		require.Error(t, err)
		assert.Equal(t, ErrBadTxOutValue, err.(RuleError).Code)
	})

	t.Run("DuplicateInputs", func(t *testing.T) {
		tx := validTx()
		tx.AddTxIn(&wire.TxIn{PreviousOutPoint: tx.TxIn[0].PreviousOutPoint})
		err := CheckTransactionSanity(tx)
		require.Error(t, err)
		assert.Equal(t, ErrDuplicateTxInputs, err.(RuleError).Code)
	})

	t.Run("NullOutpointOnNonCoinbase", func(t *testing.T) {
		tx := validTx()
		tx.TxIn[0].PreviousOutPoint.Index = 0xffffffff
		tx.AddTxIn(&wire.TxIn{
			PreviousOutPoint: wire.OutPoint{Index: 1},
			SignatureScript:  []byte{0x51},
			Sequence:         wire.MaxTxInSequenceNum,
		})
		err := CheckTransactionSanity(tx)
		require.Error(t, err)
		assert.Equal(t, ErrInvalidTxInput, err.(RuleError).Code)
	})

	t.Run("CoinbaseScriptLenOutOfRange", func(t *testing.T) {
		tx := validTx()
		tx.TxIn[0].PreviousOutPoint.Index = 0xffffffff
		tx.TxIn[0].SignatureScript = []byte{0x01}
		err := CheckTransactionSanity(tx)
		require.Error(t, err)
		assert.Equal(t, ErrBadCoinbaseScriptLen, err.(RuleError).Code)
	})
}

func TestIsFinalizedTransaction(t *testing.T) {
	t.Run("ZeroLockTimeAlwaysFinal", func(t *testing.T) {
		tx := validTx()
		assert.True(t, IsFinalizedTransaction(tx, 100, 100))
	})

	t.Run("HeightLockTimeNotYetReached", func(t *testing.T) {
		tx := validTx()
		tx.LockTime = 200
		tx.TxIn[0].Sequence = 0
		assert.False(t, IsFinalizedTransaction(tx, 100, 0))
	})

	t.Run("HeightLockTimeReached", func(t *testing.T) {
		tx := validTx()
		tx.LockTime = 100
		tx.TxIn[0].Sequence = 0
		assert.True(t, IsFinalizedTransaction(tx, 200, 0))
	})

	t.Run("FinalSequenceOverridesLockTime", func(t *testing.T) {
		tx := validTx()
		tx.LockTime = 200
		tx.TxIn[0].Sequence = wire.MaxTxInSequenceNum
		assert.True(t, IsFinalizedTransaction(tx, 100, 0))
	})
}

func TestGuardCheck(t *testing.T) {
	ctx := chaincfg.Context{Height: 100, MedianTimePast: 100, Timestamp: 100}
	assert.NoError(t, GuardCheck(validTx(), ctx))
}
