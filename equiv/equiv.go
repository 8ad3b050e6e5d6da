// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package equiv proves the equivalence of 1 bit logic cones with truth table
// covers, using a SAT solver.
//
package equiv

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"

	hw "github.com/db47h/hwconv"
)

type cone struct {
	m    *hw.Module
	c    *logic.C
	lits map[hw.SignalID]z.Lit
	busy map[hw.SignalID]bool
}

func (k *cone) lit(id hw.SignalID) (z.Lit, error) {
	if l, ok := k.lits[id]; ok {
		return l, nil
	}
	s := k.m.Signal(id)
	if s.Width != 1 {
		return z.LitNull, hw.StructureError(s.Name, "signal width %d in 1 bit cone", s.Width)
	}
	if s.Kind.Has(hw.Const) {
		if s.Value != 0 {
			return k.c.T, nil
		}
		return k.c.F, nil
	}
	n, ok := k.m.Driver(id)
	if !ok || n.Op.Sequential() {
		return z.LitNull, hw.StructureError(s.Name, "signal is not a cone input and has no combinational driver")
	}
	if k.busy[id] {
		return z.LitNull, hw.StructureError(s.Name, "combinational loop")
	}
	k.busy[id] = true
	defer delete(k.busy, id)

	args := make([]z.Lit, len(n.Args))
	for i, a := range n.Args {
		if n.Op == hw.OpSelect {
			break
		}
		l, err := k.lit(a)
		if err != nil {
			return z.LitNull, err
		}
		args[i] = l
	}
	var l z.Lit
	switch n.Op {
	case hw.OpWire:
		l = args[0]
	case hw.OpNot:
		l = args[0].Not()
	case hw.OpAnd:
		l = k.c.And(args[0], args[1])
	case hw.OpOr:
		l = k.c.Or(args[0], args[1])
	case hw.OpXor:
		l = k.c.Xor(args[0], args[1])
	case hw.OpNand:
		l = k.c.And(args[0], args[1]).Not()
	case hw.OpMux:
		l = k.c.Choice(args[0], args[2], args[1])
	case hw.OpSelect:
		if n.Bits[0] != 0 || k.m.Width(n.Args[0]) != 1 {
			return z.LitNull, hw.StructureError(s.Name, "multi-bit select in 1 bit cone")
		}
		var err error
		if l, err = k.lit(n.Args[0]); err != nil {
			return z.LitNull, err
		}
	default:
		return z.LitNull, errors.WithStack(&hw.UnsupportedOperatorError{Op: n.Op})
	}
	k.lits[id] = l
	return l, nil
}

// Cover reports whether the 1 bit signal out of m is equivalent to the sum of
// products described by onset, as a function of ins. Each onset row is a
// pattern over {0, 1, -}, one character per input. The cone driving out must
// be combinational, built from 1 bit wire, not, and, or, xor, nand and mux
// nets, constants and the signals in ins.
//
func Cover(m *hw.Module, ins []hw.SignalID, out hw.SignalID, onset []string) (bool, error) {
	k := &cone{
		m:    m,
		c:    logic.NewC(),
		lits: make(map[hw.SignalID]z.Lit),
		busy: make(map[hw.SignalID]bool),
	}
	vars := make([]z.Lit, len(ins))
	for i, id := range ins {
		if _, ok := k.lits[id]; ok {
			return false, hw.StructureError(m.Name(id), "duplicate cone input")
		}
		vars[i] = k.c.Lit()
		k.lits[id] = vars[i]
	}
	f, err := k.lit(out)
	if err != nil {
		return false, err
	}

	terms := make([]z.Lit, 0, len(onset))
	for _, row := range onset {
		if len(row) != len(ins) {
			return false, errors.Errorf("cover row %q: expected %d inputs", row, len(ins))
		}
		t := make([]z.Lit, 0, len(row))
		for i := 0; i < len(row); i++ {
			switch row[i] {
			case '1':
				t = append(t, vars[i])
			case '0':
				t = append(t, vars[i].Not())
			case '-':
			default:
				return false, errors.Errorf("cover row %q: invalid character %q", row, row[i])
			}
		}
		terms = append(terms, k.c.Ands(t...))
	}
	g := k.c.Ors(terms...)

	miter := k.c.Xor(f, g)
	switch miter {
	case k.c.F:
		return true, nil
	case k.c.T:
		return false, nil
	}
	s := gini.New()
	k.c.ToCnf(s)
	s.Add(k.c.T)
	s.Add(z.LitNull)
	s.Assume(miter)
	return s.Solve() == -1, nil
}
