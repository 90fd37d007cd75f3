// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command chaincheck drives a transaction through the check, accept,
// connect, and confirm stages of the validation pipeline against a
// JSON fixture describing the transaction and the UTXO set it spends
// from, reporting the first stage (if any) that rejects it.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/wyndcrest/ledgercore/blockchain"
	"github.com/wyndcrest/ledgercore/chaincfg"
	"github.com/wyndcrest/ledgercore/chainhash"
	"github.com/wyndcrest/ledgercore/wire"
)

// fixture is the on-disk description of a single validation run: a
// transaction plus the prevouts its inputs resolve to.
type fixture struct {
	Height         int32    `json:"height"`
	MedianTimePast uint32   `json:"medianTimePast"`
	Timestamp      uint32   `json:"timestamp"`
	Flags          []string `json:"flags"`
	TxHex          string   `json:"tx"`
	Prevouts       []struct {
		Hash                string `json:"hash"`
		Index               uint32 `json:"index"`
		Value               int64  `json:"value"`
		PkScriptHex         string `json:"pkScript"`
		BlockHeight         int32  `json:"blockHeight"`
		BlockMedianTimePast int64  `json:"blockMedianTimePast"`
		CoinBase            bool   `json:"coinbase"`
	} `json:"prevouts"`
}

var flagsByName = map[string]chaincfg.Flags{
	"BIP16":  chaincfg.FlagBIP16,
	"BIP30":  chaincfg.FlagBIP30,
	"BIP34":  chaincfg.FlagBIP34,
	"BIP42":  chaincfg.FlagBIP42,
	"BIP65":  chaincfg.FlagBIP65,
	"BIP66":  chaincfg.FlagBIP66,
	"BIP68":  chaincfg.FlagBIP68,
	"BIP90":  chaincfg.FlagBIP90,
	"BIP112": chaincfg.FlagBIP112,
	"BIP113": chaincfg.FlagBIP113,
	"BIP141": chaincfg.FlagBIP141,
	"BIP143": chaincfg.FlagBIP143,
	"BIP147": chaincfg.FlagBIP147,
	"BIP341": chaincfg.FlagBIP341,
	"BIP342": chaincfg.FlagBIP342,
}

// utxoView is the simplest possible blockchain.UTXOView: a fixed map
// populated up front from the fixture's prevout list.
type utxoView map[wire.OutPoint]blockchain.UTXOEntry

// Get implements blockchain.UTXOView.
func (v utxoView) Get(op wire.OutPoint) (blockchain.UTXOEntry, bool) {
	entry, ok := v[op]
	return entry, ok
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "chaincheck:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	backend, cleanup, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	useLoggers(backend, parseLevel(cfg.LogLevel))

	raw, err := os.ReadFile(cfg.Fixture)
	if err != nil {
		return fmt.Errorf("reading fixture: %w", err)
	}
	var f fixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parsing fixture: %w", err)
	}

	txBytes, err := hex.DecodeString(f.TxHex)
	if err != nil {
		return fmt.Errorf("decoding tx hex: %w", err)
	}
	tx, err := wire.DeserializeTx(txBytes)
	if err != nil {
		return fmt.Errorf("deserializing tx: %w", err)
	}

	var flags chaincfg.Flags
	for _, name := range f.Flags {
		flag, ok := flagsByName[name]
		if !ok {
			return fmt.Errorf("unknown flag %q in fixture", name)
		}
		flags |= flag
	}
	ctx := chaincfg.Context{
		Height:         f.Height,
		MedianTimePast: f.MedianTimePast,
		Timestamp:      f.Timestamp,
		Flags:          flags,
	}

	view := make(utxoView)
	for _, po := range f.Prevouts {
		h, err := chainhash.NewHashFromStr(po.Hash)
		if err != nil {
			return fmt.Errorf("decoding prevout hash: %w", err)
		}
		pkScript, err := hex.DecodeString(po.PkScriptHex)
		if err != nil {
			return fmt.Errorf("decoding prevout pkScript: %w", err)
		}
		op := wire.OutPoint{Hash: *h, Index: po.Index}
		view[op] = blockchain.UTXOEntry{
			Output:              wire.TxOut{Value: po.Value, PkScript: pkScript},
			BlockHeight:         po.BlockHeight,
			BlockMedianTimePast: po.BlockMedianTimePast,
			IsCoinBase:          po.CoinBase,
		}
	}

	return drive(tx, view, ctx, cfg.Stage)
}
