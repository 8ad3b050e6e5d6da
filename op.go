// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwconv

import "strconv"

// Op is a net operator.
//
type Op uint8

// Net operators. The String value of each operator is its historical
// single-character tag.
//
const (
	OpWire     Op = iota // buffer: dest = a
	OpNot                // dest = ~a
	OpAnd                // dest = a & b
	OpOr                 // dest = a | b
	OpXor                // dest = a ^ b
	OpNand               // dest = ~(a & b)
	OpAdd                // dest = a + b
	OpSub                // dest = a - b
	OpMul                // dest = a * b
	OpLt                 // dest = a < b
	OpGt                 // dest = a > b
	OpEq                 // dest = a == b
	OpMux                // dest = sel ? args[2] : args[1]
	OpConcat             // dest = {args[0], args[1], ...}, args high to low
	OpSelect             // dest[i] = a[Bits[i]]
	OpReg                // register dests[0] takes args[0] on the clock edge
	OpMemRead            // dests[0] = mem[args[0]] on the clock edge
	OpMemWrite           // if args[2] { mem[args[0]] = args[1] } on the clock edge
	opCount
)

var opTags = [opCount]byte{'w', '~', '&', '|', '^', 'n', '+', '-', '*', '<', '>', '=', 'x', 'c', 's', 'r', 'm', '@'}

func (o Op) String() string {
	if o < opCount {
		return string(opTags[o])
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Valid reports whether o is a known operator.
//
func (o Op) Valid() bool { return o < opCount }

// Ops returns all known operators in declaration order.
//
func Ops() []Op {
	ops := make([]Op, opCount)
	for i := range ops {
		ops[i] = Op(i)
	}
	return ops
}

// arity returns the expected argument count, or -1 if the operator takes any
// non-zero number of arguments.
//
func (o Op) arity() int {
	switch o {
	case OpWire, OpNot, OpSelect, OpReg, OpMemRead:
		return 1
	case OpMux, OpMemWrite:
		return 3
	case OpConcat:
		return -1
	}
	return 2
}

// Sequential reports whether o updates state on the clock edge.
//
func (o Op) Sequential() bool {
	return o == OpReg || o == OpMemRead || o == OpMemWrite
}
