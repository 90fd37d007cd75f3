// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/wyndcrest/ledgercore/wire"
)

// pushData encodes data as a canonical script push, choosing the
// shortest opcode form for its length. Shared by every end-to-end test
// that needs to hand-assemble a script.
func pushData(data []byte) []byte {
	n := len(data)
	switch {
	case n == 0:
		return []byte{byte(OP_0)}
	case n <= 75:
		return append([]byte{byte(n)}, data...)
	case n <= 0xff:
		return append([]byte{byte(OP_PUSHDATA1), byte(n)}, data...)
	case n <= 0xffff:
		return append([]byte{byte(OP_PUSHDATA2), byte(n), byte(n >> 8)}, data...)
	default:
		return append([]byte{
			byte(OP_PUSHDATA4),
			byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24),
		}, data...)
	}
}

// smallIntOp returns the opcode pushing the small integer n (0-16).
func smallIntOp(n int) Opcode {
	op, ok := asSmallInt(n)
	if !ok {
		panic("smallIntOp: out of range")
	}
	return op
}

// fetcherStub is a fixed-map PrevOutFetcher for tests that exercise the
// BIP341 sighash, which commits to every spent prevout regardless of
// which input is being signed.
type fetcherStub struct {
	outs map[wire.OutPoint]wire.TxOut
}

func newFetcherStub() *fetcherStub {
	return &fetcherStub{outs: make(map[wire.OutPoint]wire.TxOut)}
}

func (f *fetcherStub) set(op wire.OutPoint, out wire.TxOut) {
	f.outs[op] = out
}

func (f *fetcherStub) PrevOut(op wire.OutPoint) (wire.TxOut, bool) {
	o, ok := f.outs[op]
	return o, ok
}
