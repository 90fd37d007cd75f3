// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultLogLevel   = "info"
	defaultLogDirname = "logs"
	defaultLogFilename = "chaincheck.log"
)

var (
	defaultHomeDir = filepath.Join(os.Getenv("HOME"), ".chaincheck")
	defaultLogDir  = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// config holds the command-line configurable options for chaincheck: a
// small CLI that drives the check/accept/connect/confirm validation
// pipeline over a fixture describing a transaction plus the UTXO set it
// spends from.
type config struct {
	Fixture  string `short:"f" long:"fixture" description:"path to a JSON fixture describing the tx and UTXO set to validate" required:"true"`
	Stage    string `short:"s" long:"stage" description:"pipeline stage to run through: check, accept, connect, or confirm" default:"confirm"`
	LogDir   string `long:"logdir" description:"directory to write chaincheck.log into"`
	LogLevel string `long:"loglevel" description:"logging level: trace, debug, info, warn, error, critical" default:"info"`
}

// loadConfig parses command-line arguments into a config, applying
// defaults for anything not supplied.
func loadConfig() (*config, []string, error) {
	cfg := config{
		LogDir:   defaultLogDir,
		LogLevel: defaultLogLevel,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	remaining, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, nil, err
	}

	switch cfg.Stage {
	case "check", "accept", "connect", "confirm":
	default:
		return nil, nil, fmt.Errorf("unknown stage %q: must be check, accept, connect, or confirm", cfg.Stage)
	}

	return &cfg, remaining, nil
}
