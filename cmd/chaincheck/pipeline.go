// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/wyndcrest/ledgercore/blockchain"
	"github.com/wyndcrest/ledgercore/chaincfg"
	"github.com/wyndcrest/ledgercore/sigcache"
	"github.com/wyndcrest/ledgercore/txscript"
	"github.com/wyndcrest/ledgercore/wire"
)

// maxSigCacheEntries bounds the demonstrator's signature cache; a real
// node sizes this from available memory.
const maxSigCacheEntries = 10_000

// drive runs tx through the pipeline stages up to and including
// through, reporting the outcome of each stage it reaches.
func drive(tx *wire.MsgTx, view utxoView, ctx chaincfg.Context, through string) error {
	fmt.Printf("check: ")
	if err := blockchain.CheckTransactionSanity(tx); err != nil {
		fmt.Println("REJECTED:", err)
		return err
	}
	if err := blockchain.CheckTransactionContext(tx, ctx); err != nil {
		fmt.Println("REJECTED:", err)
		return err
	}
	fmt.Println("ok")
	if through == "check" {
		return nil
	}

	fmt.Printf("accept: ")
	entries, fee, err := blockchain.AcceptTransaction(tx, view, ctx.Flags)
	if err != nil {
		fmt.Println("REJECTED:", err)
		return err
	}
	fmt.Printf("ok (fee=%d)\n", fee)
	if through == "accept" {
		return nil
	}

	fmt.Printf("connect: ")
	cache := sigcache.New(maxSigCacheEntries)
	checker := txscript.NewCachingChecker(txscript.NewDefaultChecker(ctx.Flags), cache)
	sigHashes := blockchain.Prepare(tx, view)
	if err := blockchain.ConnectTransaction(tx, entries, ctx.Flags, checker, sigHashes); err != nil {
		fmt.Println("REJECTED:", err)
		return err
	}
	fmt.Println("ok")
	if through == "connect" {
		return nil
	}

	fmt.Printf("confirm: ")
	if err := blockchain.ConfirmTransaction(tx, entries, &chaincfg.MainNetParams, ctx); err != nil {
		fmt.Println("REJECTED:", err)
		return err
	}
	fmt.Println("ok")
	return nil
}
