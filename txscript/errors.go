// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import "fmt"

// ErrorCode identifies the specific kind of script execution failure.
type ErrorCode int

const (
	ErrInternal ErrorCode = iota
	ErrEarlyReturn
	ErrEmptyStack
	ErrEvalFalse
	ErrScriptUnfinished
	ErrScriptDone
	ErrUnbalancedConditional
	ErrDisabledOpcode
	ErrReservedOpcode
	ErrMalformedPush
	ErrInvalidStackOperation
	ErrVerify
	ErrEqualVerify
	ErrNumEqualVerify
	ErrCheckSigVerify
	ErrCheckMultiSigVerify
	ErrNegativeLockTime
	ErrUnsatisfiedLockTime
	ErrMinimalData
	ErrInvalidSignature
	ErrInvalidPubKey
	ErrNullFail
	ErrSigNullDummy
	ErrPubKeyType
	ErrCleanStack
	ErrDiscourageUpgradableNOPs
	ErrDiscourageUpgradableWitnessProgram
	ErrDiscourageUpgradableTaproot
	ErrWitnessProgramMismatch
	ErrWitnessProgramEmpty
	ErrWitnessProgramWrongLength
	ErrWitnessUnexpected
	ErrWitnessMalleated
	ErrWitnessMalleatedP2SH
	ErrWitnessPubKeyType
	ErrTaprootSigInvalid
	ErrTaprootControlBlockInvalid
	ErrTaprootOutputKeyMismatch
	ErrTaprootAnnexInvalid
	ErrTooManySigOps
	ErrStackSize
	ErrScriptTooBig
	ErrElementTooBig
	ErrTooManyOperations
	ErrNumberTooBig
	ErrPubKeyFormat
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInternal:                           "ErrInternal",
	ErrEarlyReturn:                        "ErrEarlyReturn",
	ErrEmptyStack:                         "ErrEmptyStack",
	ErrEvalFalse:                          "ErrEvalFalse",
	ErrScriptUnfinished:                   "ErrScriptUnfinished",
	ErrScriptDone:                         "ErrScriptDone",
	ErrUnbalancedConditional:              "ErrUnbalancedConditional",
	ErrDisabledOpcode:                     "ErrDisabledOpcode",
	ErrReservedOpcode:                     "ErrReservedOpcode",
	ErrMalformedPush:                      "ErrMalformedPush",
	ErrInvalidStackOperation:              "ErrInvalidStackOperation",
	ErrVerify:                             "ErrVerify",
	ErrEqualVerify:                        "ErrEqualVerify",
	ErrNumEqualVerify:                     "ErrNumEqualVerify",
	ErrCheckSigVerify:                     "ErrCheckSigVerify",
	ErrCheckMultiSigVerify:                "ErrCheckMultiSigVerify",
	ErrNegativeLockTime:                   "ErrNegativeLockTime",
	ErrUnsatisfiedLockTime:                "ErrUnsatisfiedLockTime",
	ErrMinimalData:                        "ErrMinimalData",
	ErrInvalidSignature:                   "ErrInvalidSignature",
	ErrInvalidPubKey:                      "ErrInvalidPubKey",
	ErrNullFail:                           "ErrNullFail",
	ErrSigNullDummy:                       "ErrSigNullDummy",
	ErrPubKeyType:                         "ErrPubKeyType",
	ErrCleanStack:                         "ErrCleanStack",
	ErrDiscourageUpgradableNOPs:           "ErrDiscourageUpgradableNOPs",
	ErrDiscourageUpgradableWitnessProgram: "ErrDiscourageUpgradableWitnessProgram",
	ErrDiscourageUpgradableTaproot:        "ErrDiscourageUpgradableTaproot",
	ErrWitnessProgramMismatch:             "ErrWitnessProgramMismatch",
	ErrWitnessProgramEmpty:                "ErrWitnessProgramEmpty",
	ErrWitnessProgramWrongLength:          "ErrWitnessProgramWrongLength",
	ErrWitnessUnexpected:                  "ErrWitnessUnexpected",
	ErrWitnessMalleated:                   "ErrWitnessMalleated",
	ErrWitnessMalleatedP2SH:               "ErrWitnessMalleatedP2SH",
	ErrWitnessPubKeyType:                  "ErrWitnessPubKeyType",
	ErrTaprootSigInvalid:                  "ErrTaprootSigInvalid",
	ErrTaprootControlBlockInvalid:         "ErrTaprootControlBlockInvalid",
	ErrTaprootOutputKeyMismatch:           "ErrTaprootOutputKeyMismatch",
	ErrTaprootAnnexInvalid:                "ErrTaprootAnnexInvalid",
	ErrTooManySigOps:                      "ErrTooManySigOps",
	ErrStackSize:                          "ErrStackSize",
	ErrScriptTooBig:                       "ErrScriptTooBig",
	ErrElementTooBig:                      "ErrElementTooBig",
	ErrTooManyOperations:                  "ErrTooManyOperations",
	ErrNumberTooBig:                       "ErrNumberTooBig",
	ErrPubKeyFormat:                       "ErrPubKeyFormat",
}

func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(e))
}

// Error wraps an ErrorCode with the contextual description produced at
// the failure site, so callers can branch on Code while humans read
// Error().
type Error struct {
	Code        ErrorCode
	Description string
}

func (e Error) Error() string { return e.Description }

func scriptError(code ErrorCode, desc string) Error {
	return Error{Code: code, Description: desc}
}
