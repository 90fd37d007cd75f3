// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"

	"github.com/wyndcrest/ledgercore/chainhash"
	"github.com/wyndcrest/ledgercore/wire"
)

// bigOne is 1 represented as a big.Int, defined once to avoid the
// overhead of allocating it on every PowLimit computation.
var bigOne = big.NewInt(1)

// mainPowLimit is the highest proof-of-work value a mainnet block may
// have: 2^224 - 1.
var mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 224), bigOne)

// Checkpoint identifies a known-good point in the chain. Checkpoints
// are a consumer-supplied hint, not a consensus rule this package
// enforces itself.
type Checkpoint struct {
	Height int32
	Hash   *chainhash.Hash
}

// Params bundles the chain-specific constants the validation pipeline
// and fee/maturity rules consult. This is deliberately narrower than a
// full peer-to-peer network registry (DNS seeds, address-version
// bytes, BIP9 deployment voting): propagation, peer discovery, and
// address/key formats belong to collaborating packages outside this
// module's scope.
type Params struct {
	Name string

	GenesisBlock *wire.MsgBlock
	GenesisHash  *chainhash.Hash

	PowLimit     *big.Int
	PowLimitBits uint32

	// CoinbaseMaturity is the number of confirmations a coinbase
	// output must accumulate before it may be spent.
	CoinbaseMaturity uint16

	// SubsidyReductionInterval is the number of blocks between
	// successive subsidy halvings. Zero disables halving.
	SubsidyReductionInterval int32

	BaseSubsidy int64

	Checkpoints []Checkpoint
}

// MainNetParams are the parameters for the main network.
var MainNetParams = Params{
	Name:                     "mainnet",
	GenesisBlock:             &genesisBlock,
	GenesisHash:              &genesisHash,
	PowLimit:                 mainPowLimit,
	PowLimitBits:             0x1d00ffff,
	CoinbaseMaturity:         100,
	SubsidyReductionInterval: 210000,
	BaseSubsidy:              50 * 1e8,
	Checkpoints:              nil,
}
