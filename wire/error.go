// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the Bitcoin consensus wire format: the byte
// codec primitives (varints, length-prefixed strings, fixed-width
// integers) and the chain data model built on top of them (outpoints,
// inputs, outputs, witnesses, transactions, block headers and blocks).
package wire

import "fmt"

// ErrorCode identifies a kind of wire decoding failure.
type ErrorCode int

const (
	// ErrEOF indicates a read ran past the end of the available bytes.
	ErrEOF ErrorCode = iota

	// ErrVarIntOversize indicates a varint was not minimally encoded.
	ErrVarIntOversize

	// ErrTooManyItems indicates a count field exceeded a sanity bound
	// meant to guard against memory-exhaustion from malformed input.
	ErrTooManyItems

	// ErrItemTooLarge indicates a length-prefixed field exceeded a
	// sanity bound on its own size.
	ErrItemTooLarge

	// ErrMalformedWitness indicates the segwit marker/flag bytes were
	// present but inconsistent with the remainder of the encoding.
	ErrMalformedWitness

	// ErrWriteOverflow indicates a write into a bounded sink would
	// exceed the sink's remaining capacity.
	ErrWriteOverflow
)

var errorCodeStrings = map[ErrorCode]string{
	ErrEOF:              "unexpected end of input",
	ErrVarIntOversize:   "non-minimal varint encoding",
	ErrTooManyItems:     "too many items for message size",
	ErrItemTooLarge:     "item larger than max allowed size",
	ErrMalformedWitness: "malformed witness encoding",
	ErrWriteOverflow:    "write exceeds bounded sink capacity",
}

func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("unknown error code (%d)", int(e))
}

// Error describes a failure decoding or encoding the wire format. It
// carries a machine-checkable Code alongside the human-readable message.
type Error struct {
	Code    ErrorCode
	Context string
	Message string
}

func (e *Error) Error() string {
	if e.Context == "" {
		return e.Message
	}
	return e.Context + ": " + e.Message
}

func newError(c ErrorCode, context, message string) *Error {
	return &Error{Code: c, Context: context, Message: message}
}
