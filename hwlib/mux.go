// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	hw "github.com/db47h/hwconv"
)

// Mux returns a multiplexer. a, b and out must have the same width; sel must
// be 1 bit wide.
//
//	Function: if sel == 0 { out = a } else { out = b }
//
func Mux(m *hw.Module, sel, a, b, out hw.SignalID) (hw.SignalID, error) {
	return newNet(m, hw.OpMux, out, m.Width(a), sel, a, b)
}

// Select returns the bits of in at the given indices. Bit i of out is bit
// bits[i] of in.
//
func Select(m *hw.Module, in hw.SignalID, bits []int, out hw.SignalID) (hw.SignalID, error) {
	out, err := dest(m, out, len(bits))
	if err != nil {
		return hw.NoSignal, err
	}
	if _, err = m.AddNet(hw.Net{Op: hw.OpSelect, Args: []hw.SignalID{in}, Dests: []hw.SignalID{out}, Bits: bits}); err != nil {
		return hw.NoSignal, err
	}
	return out, nil
}

// Bit returns bit i of in.
//
func Bit(m *hw.Module, in hw.SignalID, i int, out hw.SignalID) (hw.SignalID, error) {
	return Select(m, in, []int{i}, out)
}

// Concat concatenates its arguments, given from most significant to least
// significant, into out.
//
//	Function: out = {args[0], args[1], ...}
//
func Concat(m *hw.Module, out hw.SignalID, args ...hw.SignalID) (hw.SignalID, error) {
	w := 0
	for _, a := range args {
		w += m.Width(a)
	}
	return newNet(m, hw.OpConcat, out, w, args...)
}
