// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwconv

import (
	"strconv"
	"strings"
)

// MaxWidth is the maximum bit width of a signal.
//
const MaxWidth = 64

// Kind is the role of a signal. Roles are bit flags: a register may also be
// an output port. Input and Const exclude every other role.
//
type Kind uint8

// Signal roles.
//
const (
	Wire     Kind = 0
	Input    Kind = 1 << 0
	Output   Kind = 1 << 1
	Const    Kind = 1 << 2
	Register Kind = 1 << 3
)

// Has reports whether k has all the role flags set in f.
//
func (k Kind) Has(f Kind) bool { return f != 0 && k&f == f }

func (k Kind) String() string {
	if k == Wire {
		return "wire"
	}
	var b []string
	for _, r := range [...]struct {
		k Kind
		n string
	}{{Input, "input"}, {Output, "output"}, {Const, "const"}, {Register, "register"}} {
		if k&r.k != 0 {
			b = append(b, r.n)
		}
	}
	return strings.Join(b, "|")
}

// SignalID identifies a signal within a Module.
//
type SignalID int

// NoSignal is the invalid SignalID.
//
const NoSignal SignalID = -1

// NetID identifies a net within a Module.
//
type NetID int

// MemID identifies a memory within a Module.
//
type MemID int

// A Signal is a named, fixed width value source or sink.
//
type Signal struct {
	Name  string
	Width int
	Kind  Kind
	Value uint64 // constant value, Const signals only
}

// A Net is an operation over signals.
//
type Net struct {
	Op    Op
	Args  []SignalID
	Dests []SignalID
	Bits  []int // OpSelect bit indices
	Mem   MemID // OpMemRead and OpMemWrite memory
}

// A Memory is an addressable array accessed through OpMemRead and OpMemWrite
// nets. Init, if not nil, returns the precomputed contents at a given address.
// Memories with precomputed contents are typically read-only.
//
type Memory struct {
	Name string
	Init func(addr uint64) uint64
}

// Module is a flattened netlist. Signals, nets and memories are stored in
// arenas and referenced by index; nets never hold pointers to signals.
//
// A Module is not safe for concurrent use.
//
type Module struct {
	sigs   []Signal
	driver []NetID
	byName map[string]SignalID
	nets   []Net
	mems   []Memory
	tmp    int
}

// New returns a new empty module.
//
func New() *Module {
	return &Module{byName: make(map[string]SignalID)}
}

// Len returns the number of signals in m.
//
func (m *Module) Len() int { return len(m.sigs) }

func (m *Module) valid(id SignalID) bool { return id >= 0 && int(id) < len(m.sigs) }

// Signal returns a copy of the signal with the given ID. It panics if id is
// out of range.
//
func (m *Module) Signal(id SignalID) Signal { return m.sigs[id] }

// Name returns the name of signal id.
//
func (m *Module) Name(id SignalID) string { return m.sigs[id].Name }

// Width returns the bit width of signal id.
//
func (m *Module) Width(id SignalID) int { return m.sigs[id].Width }

// Lookup returns the signal with the given name.
//
func (m *Module) Lookup(name string) (SignalID, bool) {
	id, ok := m.byName[name]
	return id, ok
}

func (m *Module) tmpName(prefix string) string {
	for {
		n := prefix + strconv.Itoa(m.tmp)
		m.tmp++
		if _, ok := m.byName[n]; !ok {
			return n
		}
	}
}

// NewSignal creates a new signal. An empty name allocates a fresh temporary
// name.
//
func (m *Module) NewSignal(kind Kind, width int, name string) (SignalID, error) {
	if name == "" {
		name = m.tmpName("tmp")
	}
	if _, ok := m.byName[name]; ok {
		return NoSignal, structErr(name, "duplicate signal name")
	}
	if width < 1 || width > MaxWidth {
		return NoSignal, StructureError(name, "invalid bit width %d", width)
	}
	if (kind.Has(Input) || kind.Has(Const)) && kind != Input && kind != Const {
		return NoSignal, StructureError(name, "invalid signal kind %s", kind)
	}
	id := SignalID(len(m.sigs))
	m.sigs = append(m.sigs, Signal{Name: name, Width: width, Kind: kind})
	m.driver = append(m.driver, -1)
	m.byName[name] = id
	return id, nil
}

// WireOrNew returns the signal with the given name. If no such signal exists,
// a new 1 bit wire is created.
//
func (m *Module) WireOrNew(name string) SignalID {
	if id, ok := m.byName[name]; ok {
		return id
	}
	id, err := m.NewSignal(Wire, 1, name)
	if err != nil {
		// only reachable with an empty name colliding with itself
		panic(err)
	}
	return id
}

// Const returns a new constant signal.
//
func (m *Module) Const(value uint64, width int) (SignalID, error) {
	if width < MaxWidth && value>>uint(width) != 0 {
		return NoSignal, StructureError("", "constant %d does not fit in %d bits", value, width)
	}
	id, err := m.NewSignal(Const, width, m.tmpName("const_"+strconv.FormatUint(value, 10)+"_"))
	if err != nil {
		return NoSignal, err
	}
	m.sigs[id].Value = value
	return id, nil
}

// MakeRegister turns an undriven wire or output into a register.
//
func (m *Module) MakeRegister(id SignalID) error {
	if !m.valid(id) {
		return StructureError("", "invalid signal %d", id)
	}
	s := &m.sigs[id]
	switch {
	case s.Kind.Has(Register):
		return structErr(s.Name, "already a register")
	case s.Kind.Has(Input), s.Kind.Has(Const):
		return StructureError(s.Name, "%s cannot hold state", s.Kind)
	case m.driver[id] >= 0:
		return structErr(s.Name, "register output already driven")
	}
	s.Kind |= Register
	return nil
}

// Signals returns the IDs of all signals in creation order.
//
func (m *Module) Signals() []SignalID {
	ids := make([]SignalID, len(m.sigs))
	for i := range ids {
		ids[i] = SignalID(i)
	}
	return ids
}

// SignalsOf returns the IDs of all signals having the given role, in creation
// order. SignalsOf(Wire) returns plain internal wires only.
//
func (m *Module) SignalsOf(kind Kind) []SignalID {
	var ids []SignalID
	for i := range m.sigs {
		k := m.sigs[i].Kind
		if kind == Wire && k == Wire || kind != Wire && k.Has(kind) {
			ids = append(ids, SignalID(i))
		}
	}
	return ids
}

// Nets returns all nets in creation order. The returned slice must not be
// modified.
//
func (m *Module) Nets() []Net { return m.nets }

// NetsOf returns the nets with any of the given operators, in creation order.
//
func (m *Module) NetsOf(ops ...Op) []Net {
	var ns []Net
	for _, n := range m.nets {
		for _, op := range ops {
			if n.Op == op {
				ns = append(ns, n)
				break
			}
		}
	}
	return ns
}

// Driver returns the net driving signal id.
//
func (m *Module) Driver(id SignalID) (Net, bool) {
	if !m.valid(id) || m.driver[id] < 0 {
		return Net{}, false
	}
	return m.nets[m.driver[id]], true
}

// Next returns the next-value signal of register reg.
//
func (m *Module) Next(reg SignalID) (SignalID, bool) {
	n, ok := m.Driver(reg)
	if !ok || n.Op != OpReg {
		return NoSignal, false
	}
	return n.Args[0], true
}

// NewMemory creates a new memory. An empty name allocates a fresh name.
// init may be nil.
//
func (m *Module) NewMemory(name string, init func(addr uint64) uint64) (MemID, error) {
	if name == "" {
		name = "mem" + strconv.Itoa(len(m.mems))
	}
	for i := range m.mems {
		if m.mems[i].Name == name {
			return -1, structErr(name, "duplicate memory name")
		}
	}
	m.mems = append(m.mems, Memory{Name: name, Init: init})
	return MemID(len(m.mems) - 1), nil
}

// Memory returns memory id.
//
func (m *Module) Memory(id MemID) Memory { return m.mems[id] }

// Memories returns the IDs of all memories in creation order.
//
func (m *Module) Memories() []MemID {
	ids := make([]MemID, len(m.mems))
	for i := range ids {
		ids[i] = MemID(i)
	}
	return ids
}

// MaxAddrWidth is the widest memory address supported.
//
const MaxAddrWidth = 24

// MemoryWidths returns the address and data widths of memory id, derived from
// its port nets. The data width is taken from the write ports if any, else
// from the read ports. Ports that disagree, or an address wider than
// MaxAddrWidth, are reported as a *ModelStructureError.
//
func (m *Module) MemoryWidths(id MemID) (addr, data int, err error) {
	name := m.mems[id].Name
	rd, wr := 0, 0
	for _, n := range m.nets {
		if n.Mem != id || n.Op != OpMemRead && n.Op != OpMemWrite {
			continue
		}
		a := m.Width(n.Args[0])
		if addr != 0 && a != addr {
			return 0, 0, StructureError(name, "memory ports address widths mismatch: %d and %d", addr, a)
		}
		addr = a
		if n.Op == OpMemWrite {
			d := m.Width(n.Args[1])
			if wr != 0 && d != wr {
				return 0, 0, StructureError(name, "memory write ports data widths mismatch: %d and %d", wr, d)
			}
			wr = d
		} else {
			d := m.Width(n.Dests[0])
			if rd != 0 && d != rd {
				return 0, 0, StructureError(name, "memory read ports data widths mismatch: %d and %d", rd, d)
			}
			rd = d
		}
	}
	switch {
	case addr == 0:
		return 0, 0, structErr(name, "memory has no ports")
	case addr > MaxAddrWidth:
		return 0, 0, StructureError(name, "memory address width %d exceeds %d", addr, MaxAddrWidth)
	case wr != 0 && rd != 0 && wr != rd:
		return 0, 0, StructureError(name, "memory read and write ports data widths mismatch: %d and %d", rd, wr)
	case wr != 0:
		return addr, wr, nil
	}
	return addr, rd, nil
}
