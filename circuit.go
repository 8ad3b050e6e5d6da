// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwconv

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// Circuit is a cycle based simulation of a Module.
//
// Each call to Step runs one clock cycle: inputs are applied, combinational
// nets are evaluated in topological order, the state of every signal is
// recorded in the circuit's trace, then registers, memory read ports and
// memory writes are updated on the clock edge. Memory reads are synchronous:
// a read port's destination takes the array contents at the clock edge, like
// the generated HDL.
//
type Circuit struct {
	m     *Module
	vals  []uint64
	mems  []map[uint64]uint64
	comb  []int // combinational nets, in evaluation order
	seq   []int // sequential nets
	tick  uint
	trace *Trace
}

// NewCircuit builds a new circuit simulating m. m must not be modified
// while the circuit is in use. A combinational loop in m is reported as a
// *ModelStructureError.
//
func NewCircuit(m *Module) (*Circuit, error) {
	nets := m.nets
	deps := make([]int, len(nets))
	users := make(map[SignalID][]int)
	var queue []int
	c := &Circuit{
		m:    m,
		vals: make([]uint64, len(m.sigs)),
		mems: make([]map[uint64]uint64, len(m.mems)),
	}
	for i := range nets {
		n := &nets[i]
		if n.Op.Sequential() {
			c.seq = append(c.seq, i)
			continue
		}
		for _, a := range n.Args {
			if d := m.driver[a]; d >= 0 && !nets[d].Op.Sequential() {
				deps[i]++
				users[a] = append(users[a], i)
			}
		}
		if deps[i] == 0 {
			queue = append(queue, i)
		}
	}
	ncomb := len(nets) - len(c.seq)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		c.comb = append(c.comb, i)
		for _, d := range nets[i].Dests {
			for _, u := range users[d] {
				deps[u]--
				if deps[u] == 0 {
					queue = append(queue, u)
				}
			}
		}
	}
	if len(c.comb) != ncomb {
		for i := range nets {
			if !nets[i].Op.Sequential() && deps[i] > 0 {
				return nil, structErr(m.Name(nets[i].Dests[0]), "combinational loop")
			}
		}
	}
	for i := range m.sigs {
		if m.sigs[i].Kind.Has(Const) {
			c.vals[i] = m.sigs[i].Value
		}
	}
	for i := range c.mems {
		c.mems[i] = make(map[uint64]uint64)
	}
	names := make([]string, len(m.sigs))
	for i := range m.sigs {
		names[i] = m.sigs[i].Name
	}
	c.trace = NewTrace(names...)
	return c, nil
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (c *Circuit) set(id SignalID, v uint64) {
	c.vals[id] = v & mask(c.m.sigs[id].Width)
}

func (c *Circuit) eval(n *Net) {
	a := func(i int) uint64 { return c.vals[n.Args[i]] }
	var r uint64
	switch n.Op {
	case OpWire:
		r = a(0)
	case OpNot:
		r = ^a(0)
	case OpAnd:
		r = a(0) & a(1)
	case OpOr:
		r = a(0) | a(1)
	case OpXor:
		r = a(0) ^ a(1)
	case OpNand:
		r = ^(a(0) & a(1))
	case OpAdd:
		r = a(0) + a(1)
	case OpSub:
		r = a(0) - a(1)
	case OpMul:
		r = a(0) * a(1)
	case OpLt:
		r = b2u(a(0) < a(1))
	case OpGt:
		r = b2u(a(0) > a(1))
	case OpEq:
		r = b2u(a(0) == a(1))
	case OpMux:
		if a(0) != 0 {
			r = a(2)
		} else {
			r = a(1)
		}
	case OpConcat:
		for _, id := range n.Args {
			r = r<<uint(c.m.sigs[id].Width) | c.vals[id]
		}
	case OpSelect:
		for i, b := range n.Bits {
			r |= (a(0) >> uint(b) & 1) << uint(i)
		}
	}
	c.set(n.Dests[0], r)
}

func (c *Circuit) read(mem MemID, addr uint64) uint64 {
	if v, ok := c.mems[mem][addr]; ok {
		return v
	}
	if init := c.m.mems[mem].Init; init != nil {
		return init(addr)
	}
	return 0
}

// Step runs the simulation for one clock cycle with the given input values,
// keyed by input name. Inputs not present in the map are set to 0.
//
func (c *Circuit) Step(inputs map[string]uint64) error {
	for name := range inputs {
		id, ok := c.m.byName[name]
		if !ok || !c.m.sigs[id].Kind.Has(Input) {
			return structErr(name, "not an input")
		}
	}
	for i := range c.m.sigs {
		if c.m.sigs[i].Kind.Has(Input) {
			c.set(SignalID(i), inputs[c.m.sigs[i].Name])
		}
	}
	for _, i := range c.comb {
		c.eval(&c.m.nets[i])
	}
	for i := range c.m.sigs {
		c.trace.Add(c.m.sigs[i].Name, c.vals[i])
	}

	// clock edge. All reads happen before any write.
	type update struct {
		id SignalID
		v  uint64
	}
	type write struct {
		mem        MemID
		addr, data uint64
	}
	var (
		ups []update
		wrs []write
	)
	for _, i := range c.seq {
		n := &c.m.nets[i]
		switch n.Op {
		case OpReg:
			ups = append(ups, update{n.Dests[0], c.vals[n.Args[0]]})
		case OpMemRead:
			ups = append(ups, update{n.Dests[0], c.read(n.Mem, c.vals[n.Args[0]])})
		case OpMemWrite:
			if c.vals[n.Args[2]] != 0 {
				wrs = append(wrs, write{n.Mem, c.vals[n.Args[0]], c.vals[n.Args[1]]})
			}
		}
	}
	for _, u := range ups {
		c.set(u.id, u.v)
	}
	for _, w := range wrs {
		c.mems[w.mem][w.addr] = w.data
	}
	c.tick++
	return nil
}

// Get returns the current value of signal id.
//
func (c *Circuit) Get(id SignalID) uint64 { return c.vals[id] }

// Value returns the current value of the named signal.
//
func (c *Circuit) Value(name string) (uint64, error) {
	id, ok := c.m.byName[name]
	if !ok {
		return 0, errors.Errorf("no such signal %q", name)
	}
	return c.vals[id], nil
}

// Cycles returns the number of clock cycles run so far.
//
func (c *Circuit) Cycles() uint { return c.tick }

// Trace returns the trace recorded so far.
//
func (c *Circuit) Trace() *Trace { return c.trace }

// A Trace is an ordered per-signal record of values observed over a sequence
// of clock cycles.
//
type Trace struct {
	names []string
	vals  map[string][]uint64
}

// RandomRun simulates m over the given number of cycles, with input values
// drawn from rnd, and returns the recorded trace.
//
func RandomRun(m *Module, cycles int, rnd *rand.Rand) (*Trace, error) {
	c, err := NewCircuit(m)
	if err != nil {
		return nil, err
	}
	ins := m.SignalsOf(Input)
	for i := 0; i < cycles; i++ {
		vals := make(map[string]uint64, len(ins))
		for _, id := range ins {
			vals[m.Name(id)] = rnd.Uint64() >> uint(64-m.Width(id))
		}
		if err = c.Step(vals); err != nil {
			return nil, err
		}
	}
	return c.Trace(), nil
}

// NewTrace returns a new empty trace for the given signal names.
//
func NewTrace(names ...string) *Trace {
	t := &Trace{vals: make(map[string][]uint64, len(names))}
	for _, n := range names {
		if _, ok := t.vals[n]; !ok {
			t.names = append(t.names, n)
			t.vals[n] = nil
		}
	}
	return t
}

// Add appends value v to the record of signal name.
//
func (t *Trace) Add(name string, v uint64) {
	vs, ok := t.vals[name]
	if !ok {
		t.names = append(t.names, name)
	}
	t.vals[name] = append(vs, v)
}

// Names returns the traced signal names in insertion order.
//
func (t *Trace) Names() []string { return t.names }

// SortedNames returns the traced signal names in lexical order.
//
func (t *Trace) SortedNames() []string {
	ns := append([]string(nil), t.names...)
	sort.Strings(ns)
	return ns
}

// Values returns the recorded values of signal name.
//
func (t *Trace) Values(name string) []uint64 { return t.vals[name] }

// At returns the value of signal name at the given cycle.
//
func (t *Trace) At(name string, cycle int) (uint64, bool) {
	vs := t.vals[name]
	if cycle < 0 || cycle >= len(vs) {
		return 0, false
	}
	return vs[cycle], true
}

// Len returns the number of recorded cycles, that is the length of the
// longest record.
//
func (t *Trace) Len() int {
	l := 0
	for _, vs := range t.vals {
		if len(vs) > l {
			l = len(vs)
		}
	}
	return l
}
