// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

func (e *Engine) execUnaryArith(op Opcode) error {
	n, err := e.Stack.PopInt(e.requireMinimal())
	if err != nil {
		return err
	}
	switch op {
	case OP_1ADD:
		e.Stack.PushInt(n + 1)
	case OP_1SUB:
		e.Stack.PushInt(n - 1)
	case OP_NEGATE:
		e.Stack.PushInt(-n)
	case OP_ABS:
		if n < 0 {
			n = -n
		}
		e.Stack.PushInt(n)
	case OP_NOT:
		e.Stack.PushBool(n == 0)
	case OP_0NOTEQUAL:
		e.Stack.PushBool(n != 0)
	}
	return nil
}

func (e *Engine) execBinaryArith(op Opcode) error {
	bv, err := e.Stack.PopInt(e.requireMinimal())
	if err != nil {
		return err
	}
	av, err := e.Stack.PopInt(e.requireMinimal())
	if err != nil {
		return err
	}

	switch op {
	case OP_ADD:
		e.Stack.PushInt(av + bv)
	case OP_SUB:
		e.Stack.PushInt(av - bv)
	case OP_BOOLAND:
		e.Stack.PushBool(av != 0 && bv != 0)
	case OP_BOOLOR:
		e.Stack.PushBool(av != 0 || bv != 0)
	case OP_NUMEQUAL:
		e.Stack.PushBool(av == bv)
	case OP_NUMEQUALVERIFY:
		if av != bv {
			return scriptError(ErrNumEqualVerify, "OP_NUMEQUALVERIFY failed")
		}
	case OP_NUMNOTEQUAL:
		e.Stack.PushBool(av != bv)
	case OP_LESSTHAN:
		e.Stack.PushBool(av < bv)
	case OP_GREATERTHAN:
		e.Stack.PushBool(av > bv)
	case OP_LESSTHANOREQUAL:
		e.Stack.PushBool(av <= bv)
	case OP_GREATERTHANOREQUAL:
		e.Stack.PushBool(av >= bv)
	case OP_MIN:
		if av < bv {
			e.Stack.PushInt(av)
		} else {
			e.Stack.PushInt(bv)
		}
	case OP_MAX:
		if av > bv {
			e.Stack.PushInt(av)
		} else {
			e.Stack.PushInt(bv)
		}
	}
	return nil
}

func (e *Engine) execWithin() error {
	max, err := e.Stack.PopInt(e.requireMinimal())
	if err != nil {
		return err
	}
	min, err := e.Stack.PopInt(e.requireMinimal())
	if err != nil {
		return err
	}
	x, err := e.Stack.PopInt(e.requireMinimal())
	if err != nil {
		return err
	}
	e.Stack.PushBool(x >= min && x < max)
	return nil
}
