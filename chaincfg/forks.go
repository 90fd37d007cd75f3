// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg holds the consensus fork configuration (which BIPs
// are active for a chain) and its reduction to the per-block Flags
// bitset the script interpreter and validation pipeline consult.
package chaincfg

// Forks is the configured set of consensus rule activations for a
// chain. Each field names the BIP (or historical rule) it gates.
// Activation height/MTP thresholds are chain-state-derived upstream of
// this type; Forks only records which rules are ever active on the
// configured chain.
type Forks struct {
	// BIP16: pay-to-script-hash recognition and execution.
	BIP16 bool

	// BIP30: reject transactions that duplicate an existing,
	// unspent transaction's identity hash.
	BIP30 bool

	// BIP30Deactivate and BIP30Reactivate bracket the historical
	// window (around the BIP34 deployment) during which BIP30's
	// duplicate-transaction check was suspended and then restored.
	BIP30Deactivate bool
	BIP30Reactivate bool

	// BIP34: coinbase must push the block height as its first item.
	BIP34 bool

	// BIP42: disallow subsidy overflow past the 64-halving horizon.
	BIP42 bool

	// BIP65: OP_CHECKLOCKTIMEVERIFY.
	BIP65 bool

	// BIP66: strict DER signature encoding.
	BIP66 bool

	// BIP68: relative locktime via sequence numbers.
	BIP68 bool

	// BIP90: retire the BIP34/65/66 version-bit soft-fork
	// deployments to an unconditional height-based activation.
	BIP90 bool

	// BIP112: OP_CHECKSEQUENCEVERIFY.
	BIP112 bool

	// BIP113: use median-time-past, not block timestamp, for
	// locktime comparisons.
	BIP113 bool

	// BIP141: segregated witness.
	BIP141 bool

	// BIP143: the v0 witness signature-hash algorithm.
	BIP143 bool

	// BIP147: dummy element for OP_CHECKMULTISIG must be empty.
	BIP147 bool

	// BIP341: Taproot key-path spending.
	BIP341 bool

	// BIP342: Tapscript (leaf-script spending under BIP341).
	BIP342 bool
}

// Flags is the per-block reduction of Forks: a bitset the interpreter
// and validation pipeline consult directly, so that a single
// configured Forks value can be reduced once per block rather than
// re-examined field-by-field on every check.
type Flags uint32

const (
	FlagBIP16 Flags = 1 << iota
	FlagBIP30
	FlagBIP30Deactivate
	FlagBIP30Reactivate
	FlagBIP34
	FlagBIP42
	FlagBIP65
	FlagBIP66
	FlagBIP68
	FlagBIP90
	FlagBIP112
	FlagBIP113
	FlagBIP141
	FlagBIP143
	FlagBIP147
	FlagBIP341
	FlagBIP342
)

// Reduce maps the configured Forks onto the Flags a single block
// should be validated under. The mapping is total: every combination
// of boolean fields produces a well-defined Flags value.
func (f Forks) Reduce() Flags {
	var flags Flags
	set := func(active bool, flag Flags) {
		if active {
			flags |= flag
		}
	}
	set(f.BIP16, FlagBIP16)
	set(f.BIP30, FlagBIP30)
	set(f.BIP30Deactivate, FlagBIP30Deactivate)
	set(f.BIP30Reactivate, FlagBIP30Reactivate)
	set(f.BIP34, FlagBIP34)
	set(f.BIP42, FlagBIP42)
	set(f.BIP65, FlagBIP65)
	set(f.BIP66, FlagBIP66)
	set(f.BIP68, FlagBIP68)
	set(f.BIP90, FlagBIP90)
	set(f.BIP112, FlagBIP112)
	set(f.BIP113, FlagBIP113)
	set(f.BIP141, FlagBIP141)
	set(f.BIP143, FlagBIP143)
	set(f.BIP147, FlagBIP147)
	set(f.BIP341, FlagBIP341)
	set(f.BIP342, FlagBIP342)
	return flags
}

// Has reports whether every bit in want is set in f.
func (f Flags) Has(want Flags) bool { return f&want == want }
