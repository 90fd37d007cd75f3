// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// stack is the LIFO byte-slice stack the interpreter's main and
// alt-stack are both built from.
type stack struct {
	items [][]byte
}

func (s *stack) Depth() int { return len(s.items) }

func (s *stack) Push(v []byte) {
	s.items = append(s.items, v)
}

func (s *stack) Pop() ([]byte, error) {
	if len(s.items) == 0 {
		return nil, scriptError(ErrEmptyStack, "attempt to pop from empty stack")
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

func (s *stack) Peek(idx int) ([]byte, error) {
	if idx < 0 || idx >= len(s.items) {
		return nil, scriptError(ErrInvalidStackOperation, "stack index out of range")
	}
	return s.items[len(s.items)-1-idx], nil
}

func (s *stack) PopN(n int) ([][]byte, error) {
	if len(s.items) < n {
		return nil, scriptError(ErrInvalidStackOperation, "not enough items on stack")
	}
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		v, err := s.Pop()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stack) PopBool() (bool, error) {
	v, err := s.Pop()
	if err != nil {
		return false, err
	}
	return asBool(v), nil
}

func (s *stack) PopInt(requireMinimal bool) (ScriptNum, error) {
	v, err := s.Pop()
	if err != nil {
		return 0, err
	}
	return makeScriptNum(v, requireMinimal, defaultScriptNumLen)
}

// PopLockTimeInt pops a script number allowing the 5-byte encoding
// CHECKLOCKTIMEVERIFY and CHECKSEQUENCEVERIFY operands require: a
// locktime or sequence value at or above 2^31 needs a disambiguating
// high byte that the 4-byte arithmetic limit would otherwise reject.
func (s *stack) PopLockTimeInt(requireMinimal bool) (ScriptNum, error) {
	v, err := s.Pop()
	if err != nil {
		return 0, err
	}
	return makeScriptNum(v, requireMinimal, lockTimeScriptNumLen)
}

func (s *stack) PushInt(n ScriptNum) { s.Push(n.Bytes()) }

func (s *stack) PushBool(b bool) {
	if b {
		s.Push([]byte{1})
	} else {
		s.Push([]byte{})
	}
}

// asBool applies Bitcoin Script's truthiness rule: a value is false only
// if every byte is zero, save that the high bit of the final byte (the
// sign bit) may be set without affecting truthiness, so that negative
// zero still reads false.
func asBool(v []byte) bool {
	for i, b := range v {
		if b != 0 {
			if i == len(v)-1 && b == 0x80 {
				return false
			}
			return true
		}
	}
	return false
}

func (s *stack) DropN(n int) error {
	_, err := s.PopN(n)
	return err
}

func (s *stack) DupN(n int) error {
	if s.Depth() < n {
		return scriptError(ErrInvalidStackOperation, "not enough items on stack")
	}
	for i := n - 1; i >= 0; i-- {
		v, err := s.Peek(i)
		if err != nil {
			return err
		}
		s.Push(v)
	}
	return nil
}

func (s *stack) NipN(n int) error {
	if s.Depth() <= n {
		return scriptError(ErrInvalidStackOperation, "not enough items on stack")
	}
	idx := len(s.items) - 1 - n
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return nil
}

func (s *stack) Tuck() error {
	if s.Depth() < 2 {
		return scriptError(ErrInvalidStackOperation, "not enough items on stack")
	}
	v, _ := s.Peek(0)
	idx := len(s.items) - 2
	tail := append([][]byte{v}, s.items[idx:]...)
	s.items = append(s.items[:idx], tail...)
	return nil
}

func (s *stack) swapN(n int) error {
	if s.Depth() < n*2 {
		return scriptError(ErrInvalidStackOperation, "not enough items on stack")
	}
	l := len(s.items)
	for i := 0; i < n; i++ {
		s.items[l-n*2+i], s.items[l-n+i] = s.items[l-n+i], s.items[l-n*2+i]
	}
	return nil
}

func (s *stack) rotN(n int) error {
	if s.Depth() < n*3 {
		return scriptError(ErrInvalidStackOperation, "not enough items on stack")
	}
	l := len(s.items)
	entry := make([][]byte, n)
	copy(entry, s.items[l-n*3:l-n*2])
	copy(s.items[l-n*3:l-n*2], s.items[l-n*2:l-n])
	copy(s.items[l-n*2:l-n], s.items[l-n:l])
	copy(s.items[l-n:l], entry)
	return nil
}

func (s *stack) overN(n int) error {
	if s.Depth() < n*2 {
		return scriptError(ErrInvalidStackOperation, "not enough items on stack")
	}
	l := len(s.items)
	vals := make([][]byte, n)
	copy(vals, s.items[l-n*2:l-n])
	for _, v := range vals {
		s.Push(v)
	}
	return nil
}
