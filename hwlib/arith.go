// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	hw "github.com/db47h/hwconv"
)

// Add returns an adder. An allocated result is one bit wider than the
// operands so that it holds the carry.
//
//	Function: out = a + b
//
func Add(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) {
	return newNet(m, hw.OpAdd, out, carryWidth(m.Width(a)+1), a, b)
}

// Sub returns a subtractor. An allocated result is one bit wider than the
// operands.
//
//	Function: out = a - b
//
func Sub(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) {
	return newNet(m, hw.OpSub, out, carryWidth(m.Width(a)+1), a, b)
}

// Mul returns a multiplier. An allocated result is twice as wide as the
// operands.
//
//	Function: out = a * b
//
func Mul(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) {
	return newNet(m, hw.OpMul, out, carryWidth(2*m.Width(a)), a, b)
}

func carryWidth(w int) int {
	if w > hw.MaxWidth {
		return hw.MaxWidth
	}
	return w
}

// Eq returns an equality comparator.
//
//	Function: out = a == b
//
func Eq(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) {
	return newNet(m, hw.OpEq, out, 1, a, b)
}

// Lt returns an unsigned less-than comparator.
//
//	Function: out = a < b
//
func Lt(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) {
	return newNet(m, hw.OpLt, out, 1, a, b)
}

// Gt returns an unsigned greater-than comparator.
//
//	Function: out = a > b
//
func Gt(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) {
	return newNet(m, hw.OpGt, out, 1, a, b)
}
