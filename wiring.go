// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwconv

import (
	"strconv"
)

// AddNet adds a net to the module after checking its arity, operand widths
// and destinations. Every signal has at most one driver. Inputs and constants
// cannot be driven, and registers can only be driven by an OpReg net.
//
func (m *Module) AddNet(n Net) (NetID, error) {
	if !n.Op.Valid() {
		return -1, structErr("", "invalid net operator "+n.Op.String())
	}
	if a := n.Op.arity(); a >= 0 && len(n.Args) != a || a < 0 && len(n.Args) == 0 {
		return -1, StructureError("", "net %s: bad argument count %d", n.Op, len(n.Args))
	}
	nd := 1
	if n.Op == OpMemWrite {
		nd = 0
	}
	if len(n.Dests) != nd {
		return -1, StructureError("", "net %s: bad destination count %d", n.Op, len(n.Dests))
	}
	for _, id := range n.Args {
		if !m.valid(id) {
			return -1, StructureError("", "net %s: invalid argument %d", n.Op, id)
		}
	}
	for _, id := range n.Dests {
		if !m.valid(id) {
			return -1, StructureError("", "net %s: invalid destination %d", n.Op, id)
		}
	}
	if n.Op == OpMemRead || n.Op == OpMemWrite {
		if n.Mem < 0 || int(n.Mem) >= len(m.mems) {
			return -1, StructureError("", "net %s: invalid memory %d", n.Op, n.Mem)
		}
	}
	if err := m.checkWidths(&n); err != nil {
		return -1, err
	}
	for _, id := range n.Dests {
		s := &m.sigs[id]
		switch {
		case s.Kind.Has(Input):
			return -1, structErr(s.Name, "input used as output")
		case s.Kind.Has(Const):
			return -1, structErr(s.Name, "output connected to constant")
		case m.driver[id] >= 0:
			return -1, structErr(s.Name, "signal already driven")
		case s.Kind.Has(Register) != (n.Op == OpReg):
			if n.Op == OpReg {
				return -1, structErr(s.Name, "register update of a non-register signal")
			}
			return -1, structErr(s.Name, "register driven by a "+n.Op.String()+" net")
		}
	}
	id := NetID(len(m.nets))
	n.Args = append([]SignalID(nil), n.Args...)
	n.Dests = append([]SignalID(nil), n.Dests...)
	n.Bits = append([]int(nil), n.Bits...)
	m.nets = append(m.nets, n)
	for _, d := range n.Dests {
		m.driver[d] = id
	}
	return id, nil
}

func (m *Module) checkWidths(n *Net) error {
	w := func(i int) int { return m.sigs[n.Args[i]].Width }
	var dw int
	var name string
	if len(n.Dests) > 0 {
		dw = m.sigs[n.Dests[0]].Width
		name = m.sigs[n.Dests[0]].Name
	}
	mismatch := func(what string, a, b int) error {
		return StructureError(name, "net %s: %s width mismatch: %d != %d", n.Op, what, a, b)
	}
	switch n.Op {
	case OpWire, OpNot, OpReg:
		if w(0) != dw {
			return mismatch("destination", dw, w(0))
		}
	case OpAnd, OpOr, OpXor, OpNand:
		if w(0) != w(1) {
			return mismatch("operand", w(0), w(1))
		}
		if w(0) != dw {
			return mismatch("destination", dw, w(0))
		}
	case OpAdd, OpSub, OpMul:
		if w(0) != w(1) {
			return mismatch("operand", w(0), w(1))
		}
	case OpLt, OpGt, OpEq:
		if w(0) != w(1) {
			return mismatch("operand", w(0), w(1))
		}
		if dw != 1 {
			return mismatch("destination", dw, 1)
		}
	case OpMux:
		if w(0) != 1 {
			return mismatch("select", w(0), 1)
		}
		if w(1) != w(2) {
			return mismatch("operand", w(1), w(2))
		}
		if w(1) != dw {
			return mismatch("destination", dw, w(1))
		}
	case OpConcat:
		t := 0
		for i := range n.Args {
			t += w(i)
		}
		if t != dw {
			return mismatch("destination", dw, t)
		}
	case OpSelect:
		if len(n.Bits) != dw {
			return mismatch("destination", dw, len(n.Bits))
		}
		for _, b := range n.Bits {
			if b < 0 || b >= w(0) {
				return StructureError(name, "net %s: bit index %d out of range", n.Op, b)
			}
		}
	case OpMemWrite:
		if w(2) != 1 {
			return StructureError("", "net %s: write enable width %d != 1", n.Op, w(2))
		}
	}
	return nil
}

// Check verifies the wiring of the module: every output is driven, every
// register has a next value and every signal read by a net is driven, unless
// it is an input, a constant or a register.
//
func (m *Module) Check() error {
	read := make([]bool, len(m.sigs))
	for _, n := range m.nets {
		for _, a := range n.Args {
			read[a] = true
		}
	}
	for i := range m.sigs {
		s := &m.sigs[i]
		drv := m.driver[i]
		switch {
		case s.Kind.Has(Input) || s.Kind.Has(Const):
		case s.Kind.Has(Register):
			if drv < 0 || m.nets[drv].Op != OpReg {
				return structErr(s.Name, "register has no next value")
			}
		case s.Kind.Has(Output):
			if drv < 0 {
				return structErr(s.Name, "output not driven")
			}
		case read[i] && drv < 0:
			return structErr(s.Name, "signal not connected to any output")
		}
	}
	for i := range m.mems {
		if _, _, err := m.MemoryWidths(MemID(i)); err != nil {
			return err
		}
	}
	return nil
}

// String returns a short description of net n.
//
func (n Net) String() string {
	s := n.Op.String() + "(" + strconv.Itoa(len(n.Args)) + " args"
	if n.Op == OpMemRead || n.Op == OpMemWrite {
		s += ", mem " + strconv.Itoa(int(n.Mem))
	}
	return s + ")"
}
