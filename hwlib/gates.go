// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides netlist builders for hwconv modules.
//
// Builders add one or more nets to a module and return the signal holding
// the result. If the out argument is hwconv.NoSignal, a temporary wire of the
// appropriate width is allocated, otherwise the result is wired to out.
//
// Copyright 2018 Denis Bernard <db047h@gmail.com>
//
// This package is licensed under the MIT license. See license text in the LICENSE file.
//
package hwlib

import (
	hw "github.com/db47h/hwconv"
)

// dest returns out, or a new temporary wire of the given width if out is
// hw.NoSignal.
//
func dest(m *hw.Module, out hw.SignalID, width int) (hw.SignalID, error) {
	if out != hw.NoSignal {
		return out, nil
	}
	return m.NewSignal(hw.Wire, width, "")
}

func newNet(m *hw.Module, op hw.Op, out hw.SignalID, width int, args ...hw.SignalID) (hw.SignalID, error) {
	out, err := dest(m, out, width)
	if err != nil {
		return hw.NoSignal, err
	}
	if _, err = m.AddNet(hw.Net{Op: op, Args: args, Dests: []hw.SignalID{out}}); err != nil {
		return hw.NoSignal, err
	}
	return out, nil
}

// Buf returns a buffer (plain wire).
//
//	Function: out = in
//
func Buf(m *hw.Module, in, out hw.SignalID) (hw.SignalID, error) {
	return newNet(m, hw.OpWire, out, m.Width(in), in)
}

// Not returns a NOT gate.
//
//	Function: out = ~in
//
func Not(m *hw.Module, in, out hw.SignalID) (hw.SignalID, error) {
	return newNet(m, hw.OpNot, out, m.Width(in), in)
}

func gate(op hw.Op) func(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) {
	return func(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) {
		return newNet(m, op, out, m.Width(a), a, b)
	}
}

var (
	and  = gate(hw.OpAnd)
	nand = gate(hw.OpNand)
	or   = gate(hw.OpOr)
	xor  = gate(hw.OpXor)
)

// And returns a AND gate.
//
//	Function: out = a & b
//
func And(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) { return and(m, a, b, out) }

// Nand returns a NAND gate.
//
//	Function: out = ~(a & b)
//
func Nand(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) { return nand(m, a, b, out) }

// Or returns a OR gate.
//
//	Function: out = a | b
//
func Or(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) { return or(m, a, b, out) }

// Xor returns a XOR gate.
//
//	Function: out = a ^ b
//
func Xor(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) { return xor(m, a, b, out) }

// Nor returns a NOR gate built from an OR and a NOT gate.
//
//	Function: out = ~(a | b)
//
func Nor(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) {
	t, err := or(m, a, b, hw.NoSignal)
	if err != nil {
		return hw.NoSignal, err
	}
	return Not(m, t, out)
}

// Xnor returns a XNOR gate built from a XOR and a NOT gate.
//
//	Function: out = ~(a ^ b)
//
func Xnor(m *hw.Module, a, b, out hw.SignalID) (hw.SignalID, error) {
	t, err := xor(m, a, b, hw.NoSignal)
	if err != nil {
		return hw.NoSignal, err
	}
	return Not(m, t, out)
}

// OrNWay returns a N-way OR gate, chaining 2 input OR gates. At least one
// input is required.
//
func OrNWay(m *hw.Module, ins []hw.SignalID, out hw.SignalID) (hw.SignalID, error) {
	return nWay(m, or, ins, out)
}

// AndNWay returns a N-way AND gate, chaining 2 input AND gates. At least one
// input is required.
//
func AndNWay(m *hw.Module, ins []hw.SignalID, out hw.SignalID) (hw.SignalID, error) {
	return nWay(m, and, ins, out)
}

func nWay(m *hw.Module, g func(*hw.Module, hw.SignalID, hw.SignalID, hw.SignalID) (hw.SignalID, error), ins []hw.SignalID, out hw.SignalID) (hw.SignalID, error) {
	if len(ins) == 0 {
		return hw.NoSignal, hw.StructureError("", "n-way gate with no inputs")
	}
	if len(ins) == 1 {
		return Buf(m, ins[0], out)
	}
	acc := ins[0]
	var err error
	for i, in := range ins[1:] {
		o := hw.NoSignal
		if i == len(ins)-2 {
			o = out
		}
		if acc, err = g(m, acc, in, o); err != nil {
			return hw.NoSignal, err
		}
	}
	return acc, nil
}

// Const drives out with a constant value. If out is hw.NoSignal, the constant
// signal itself is returned.
//
func Const(m *hw.Module, value uint64, width int, out hw.SignalID) (hw.SignalID, error) {
	c, err := m.Const(value, width)
	if err != nil || out == hw.NoSignal {
		return c, err
	}
	return Buf(m, c, out)
}
