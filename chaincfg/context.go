// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

// Context carries the block-relative metadata the validation pipeline
// needs once it moves past context-free checks: the candidate height,
// the median-time-past of the preceding 11 blocks (used for BIP113
// locktime comparisons and BIP68 relative-lock resolution), the
// block's own timestamp, and the Flags this block is validated under.
type Context struct {
	Height          int32
	MedianTimePast  uint32
	Timestamp       uint32
	Flags           Flags
}

// LockTimeCutoff returns the timestamp used to evaluate a time-based
// absolute locktime, per BIP113: median-time-past when active, else
// the block's own timestamp. Height-based locktimes are compared
// against Height instead.
func (c Context) LockTimeCutoff() uint32 {
	if c.Flags.Has(FlagBIP113) {
		return c.MedianTimePast
	}
	return c.Timestamp
}
