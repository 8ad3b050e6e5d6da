// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package blif

import (
	"sort"
)

// GateKind is the kind of a recognized cover.
//
type GateKind int

// Gate kinds.
//
const (
	Unsupported GateKind = iota
	Const0
	Const1
	ClockAlias
	Wire
	Not
	And
	Nor
	Or
	Xor
	Mux    // Ins[2] ? Ins[1] : Ins[0]
	MuxNor // ~Ins[2] & ~(Ins[0] & Ins[1])
)

var gateNames = [...]string{
	Unsupported: "unsupported",
	Const0:      "const0",
	Const1:      "const1",
	ClockAlias:  "clock alias",
	Wire:        "wire",
	Not:         "not",
	And:         "and",
	Nor:         "nor",
	Or:          "or",
	Xor:         "xor",
	Mux:         "mux",
	MuxNor:      "muxnor",
}

func (k GateKind) String() string {
	if k < 0 || int(k) >= len(gateNames) {
		return "GateKind(?)"
	}
	return gateNames[k]
}

// A Gate is a recognized cover.
//
// For ClockAlias, Ins holds the known clock and Out the new alias.
//
type Gate struct {
	Kind GateKind
	Ins  []string
	Out  string
}

// rule maps a cover shape to a gate constructor. rows are sorted.
//
type rule struct {
	n    int // number of signals
	rows Cover
	gate func(ins []string, out string, isClock func(string) bool) Gate
}

func kind(k GateKind) func([]string, string, func(string) bool) Gate {
	return func(ins []string, out string, _ func(string) bool) Gate {
		return Gate{Kind: k, Ins: ins, Out: out}
	}
}

func wireOrClock(ins []string, out string, isClock func(string) bool) Gate {
	switch {
	case isClock(out):
		return Gate{Kind: ClockAlias, Ins: []string{out}, Out: ins[0]}
	case isClock(ins[0]):
		return Gate{Kind: ClockAlias, Ins: ins, Out: out}
	}
	return Gate{Kind: Wire, Ins: ins, Out: out}
}

var rules = [...]rule{
	{1, nil, kind(Const0)},
	{1, Cover{{"", '1'}}, kind(Const1)},
	{2, Cover{{"1", '1'}}, wireOrClock},
	{2, Cover{{"0", '1'}}, kind(Not)},
	{3, Cover{{"11", '1'}}, kind(And)},
	{3, Cover{{"00", '1'}}, kind(Nor)},
	{3, Cover{{"-1", '1'}, {"1-", '1'}}, kind(Or)},
	{3, Cover{{"01", '1'}, {"10", '1'}}, kind(Xor)},
	{4, Cover{{"-11", '1'}, {"1-0", '1'}}, kind(Mux)},
	{4, Cover{{"-00", '1'}, {"0-0", '1'}}, kind(MuxNor)},
}

func sorted(c Cover) Cover {
	s := append(Cover(nil), c...)
	sort.Slice(s, func(i, j int) bool {
		if s[i].In != s[j].In {
			return s[i].In < s[j].In
		}
		return s[i].Out < s[j].Out
	})
	return s
}

func (c Cover) equal(o Cover) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Recognize maps the cover of n to a gate by matching it against a fixed
// table of cover shapes. Row order is not significant. isClock reports
// whether a signal is a known clock; a single input buffer from or to a clock
// is recognized as a clock alias. Unrecognized covers return a Gate of kind
// Unsupported.
//
func Recognize(n *Names, isClock func(string) bool) Gate {
	c := sorted(n.Cover)
	ins, out := n.Signals[:len(n.Signals)-1], n.Signals[len(n.Signals)-1]
	for i := range rules {
		r := &rules[i]
		if r.n == len(n.Signals) && r.rows.equal(c) {
			return r.gate(append([]string(nil), ins...), out, isClock)
		}
	}
	return Gate{Kind: Unsupported, Ins: ins, Out: out}
}
