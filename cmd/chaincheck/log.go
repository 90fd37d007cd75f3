// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/wyndcrest/ledgercore/blockchain"
	"github.com/wyndcrest/ledgercore/txscript"
)

// logWriter fans every log line out to both stdout and the rotating
// log file, mirroring the split btcd-family nodes use so a foreground
// run is visible immediately while still retaining history on disk.
type logWriter struct {
	rotator *rotator.Rotator
}

func (w logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if w.rotator != nil {
		w.rotator.Write(p)
	}
	return len(p), nil
}

// setupLogging builds the btclog backend chaincheck and the packages
// it drives (blockchain, txscript) log through, rotating to a file
// under cfg.LogDir when one is configured. The returned cleanup func
// must be called before the process exits to flush the rotator.
func setupLogging(cfg *config) (*btclog.Backend, func(), error) {
	var r *rotator.Rotator
	cleanup := func() {}

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0700); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		var err error
		r, err = rotator.New(logFile, 10*1024, false, 3)
		if err != nil {
			return nil, nil, fmt.Errorf("creating log rotator: %w", err)
		}
		cleanup = func() { r.Close() }
	}

	backend := btclog.NewBackend(logWriter{rotator: r})
	return backend, cleanup, nil
}

// useLoggers wires the backend into chaincheck's own output and every
// library package whose logs are worth surfacing for this CLI.
func useLoggers(backend *btclog.Backend, level btclog.Level) {
	mainLog := backend.Logger("CHCK")
	mainLog.SetLevel(level)
	log = mainLog

	bcLog := backend.Logger("BCHN")
	bcLog.SetLevel(level)
	blockchain.UseLogger(bcLog)

	scriptLog := backend.Logger("SCRT")
	scriptLog.SetLevel(level)
	txscript.UseLogger(scriptLog)
}

// log is chaincheck's own logger, wired up by useLoggers.
var log btclog.Logger = btclog.Disabled

// parseLevel maps a textual level name to btclog.Level, defaulting to
// Info for anything unrecognized.
func parseLevel(name string) btclog.Level {
	level, ok := btclog.LevelFromString(name)
	if !ok {
		return btclog.LevelInfo
	}
	return level
}
