// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txscript implements the Bitcoin script interpreter: opcode
// classification and dispatch, the signature-hash algorithms (legacy,
// BIP143, BIP341/342), and the program driver that wires together
// P2SH, segwit v0, and Taproot spend paths.
package txscript

// Opcode is a single script byte. The numbering below matches the
// consensus enumeration exactly: 0-75 are direct data pushes of that
// many bytes, 76-78 are length-prefixed pushes, 79 pushes the number
// -1, 81-96 push small positive integers, and the remainder are
// control-flow, stack, bitwise/arithmetic, crypto, and reserved/
// disabled operations.
type Opcode byte

const (
	OP_0 Opcode = 0x00
	// OP_DATA_1..OP_DATA_75 (0x01-0x4b) push the following N bytes.
	OP_PUSHDATA1 Opcode = 0x4c
	OP_PUSHDATA2 Opcode = 0x4d
	OP_PUSHDATA4 Opcode = 0x4e
	OP_1NEGATE   Opcode = 0x4f
	OP_RESERVED  Opcode = 0x50
	OP_1         Opcode = 0x51
	OP_2         Opcode = 0x52
	OP_3         Opcode = 0x53
	OP_4         Opcode = 0x54
	OP_5         Opcode = 0x55
	OP_6         Opcode = 0x56
	OP_7         Opcode = 0x57
	OP_8         Opcode = 0x58
	OP_9         Opcode = 0x59
	OP_10        Opcode = 0x5a
	OP_11        Opcode = 0x5b
	OP_12        Opcode = 0x5c
	OP_13        Opcode = 0x5d
	OP_14        Opcode = 0x5e
	OP_15        Opcode = 0x5f
	OP_16        Opcode = 0x60

	OP_NOP         Opcode = 0x61
	OP_VER         Opcode = 0x62
	OP_IF          Opcode = 0x63
	OP_NOTIF       Opcode = 0x64
	OP_VERIF       Opcode = 0x65
	OP_VERNOTIF    Opcode = 0x66
	OP_ELSE        Opcode = 0x67
	OP_ENDIF       Opcode = 0x68
	OP_VERIFY      Opcode = 0x69
	OP_RETURN      Opcode = 0x6a
	OP_TOALTSTACK   Opcode = 0x6b
	OP_FROMALTSTACK Opcode = 0x6c
	OP_2DROP       Opcode = 0x6d
	OP_2DUP        Opcode = 0x6e
	OP_3DUP        Opcode = 0x6f
	OP_2OVER       Opcode = 0x70
	OP_2ROT        Opcode = 0x71
	OP_2SWAP       Opcode = 0x72
	OP_IFDUP       Opcode = 0x73
	OP_DEPTH       Opcode = 0x74
	OP_DROP        Opcode = 0x75
	OP_DUP         Opcode = 0x76
	OP_NIP         Opcode = 0x77
	OP_OVER        Opcode = 0x78
	OP_PICK        Opcode = 0x79
	OP_ROLL        Opcode = 0x7a
	OP_ROT         Opcode = 0x7b
	OP_SWAP        Opcode = 0x7c
	OP_TUCK        Opcode = 0x7d

	OP_CAT    Opcode = 0x7e
	OP_SUBSTR Opcode = 0x7f
	OP_LEFT   Opcode = 0x80
	OP_RIGHT  Opcode = 0x81
	OP_SIZE   Opcode = 0x82

	OP_INVERT Opcode = 0x83
	OP_AND    Opcode = 0x84
	OP_OR     Opcode = 0x85
	OP_XOR    Opcode = 0x86
	OP_EQUAL  Opcode = 0x87
	OP_EQUALVERIFY Opcode = 0x88
	OP_RESERVED1 Opcode = 0x89
	OP_RESERVED2 Opcode = 0x8a

	OP_1ADD      Opcode = 0x8b
	OP_1SUB      Opcode = 0x8c
	OP_2MUL      Opcode = 0x8d
	OP_2DIV      Opcode = 0x8e
	OP_NEGATE    Opcode = 0x8f
	OP_ABS       Opcode = 0x90
	OP_NOT       Opcode = 0x91
	OP_0NOTEQUAL Opcode = 0x92

	OP_ADD    Opcode = 0x93
	OP_SUB    Opcode = 0x94
	OP_MUL    Opcode = 0x95
	OP_DIV    Opcode = 0x96
	OP_MOD    Opcode = 0x97
	OP_LSHIFT Opcode = 0x98
	OP_RSHIFT Opcode = 0x99

	OP_BOOLAND            Opcode = 0x9a
	OP_BOOLOR             Opcode = 0x9b
	OP_NUMEQUAL           Opcode = 0x9c
	OP_NUMEQUALVERIFY     Opcode = 0x9d
	OP_NUMNOTEQUAL        Opcode = 0x9e
	OP_LESSTHAN           Opcode = 0x9f
	OP_GREATERTHAN        Opcode = 0xa0
	OP_LESSTHANOREQUAL    Opcode = 0xa1
	OP_GREATERTHANOREQUAL Opcode = 0xa2
	OP_MIN                Opcode = 0xa3
	OP_MAX                Opcode = 0xa4
	OP_WITHIN             Opcode = 0xa5

	OP_RIPEMD160           Opcode = 0xa6
	OP_SHA1                Opcode = 0xa7
	OP_SHA256              Opcode = 0xa8
	OP_HASH160             Opcode = 0xa9
	OP_HASH256             Opcode = 0xaa
	OP_CODESEPARATOR       Opcode = 0xab
	OP_CHECKSIG            Opcode = 0xac
	OP_CHECKSIGVERIFY      Opcode = 0xad
	OP_CHECKMULTISIG       Opcode = 0xae
	OP_CHECKMULTISIGVERIFY Opcode = 0xaf

	OP_NOP1                Opcode = 0xb0
	OP_CHECKLOCKTIMEVERIFY Opcode = 0xb1
	OP_CHECKSEQUENCEVERIFY Opcode = 0xb2
	OP_NOP4                Opcode = 0xb3
	OP_NOP5                Opcode = 0xb4
	OP_NOP6                Opcode = 0xb5
	OP_NOP7                Opcode = 0xb6
	OP_NOP8                Opcode = 0xb7
	OP_NOP9                Opcode = 0xb8
	OP_NOP10               Opcode = 0xb9

	// OP_CHECKSIGADD (BIP342/Tapscript only; executing it in a
	// legacy/v0 script fails with ErrDisabledOpcode).
	OP_CHECKSIGADD Opcode = 0xba

	OP_INVALIDOPCODE Opcode = 0xff
)

// maxScriptElementSize is the maximum size of a single stack item.
const maxScriptElementSize = 520

// maxOpsPerScript is the maximum number of counted operations (opcodes
// above OP_16) a single script may execute.
const maxOpsPerScript = 201

// maxPubKeysPerMultisig is the maximum n for CHECKMULTISIG.
const maxPubKeysPerMultisig = 20

// maxStackSize is the maximum combined number of elements the main and
// alt stacks may hold.
const maxStackSize = 1000
