// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	hw "github.com/db47h/hwconv"
)

// Input creates a 1 bit input.
//
func Input(m *hw.Module, name string) (hw.SignalID, error) {
	return m.NewSignal(hw.Input, 1, name)
}

// Output creates a 1 bit output.
//
func Output(m *hw.Module, name string) (hw.SignalID, error) {
	return m.NewSignal(hw.Output, 1, name)
}

// InputN creates an input bus of the given bits size, together with one 1 bit
// wire per bit, named name[0], name[1], etc. and driven by the corresponding
// bit of the bus.
//
func InputN(m *hw.Module, name string, bits int) (hw.SignalID, []hw.SignalID, error) {
	in, err := m.NewSignal(hw.Input, bits, name)
	if err != nil {
		return hw.NoSignal, nil, err
	}
	pins := make([]hw.SignalID, bits)
	for i := range pins {
		p, err := m.NewSignal(hw.Wire, 1, hw.BusPinName(name, i))
		if err != nil {
			return hw.NoSignal, nil, err
		}
		if pins[i], err = Bit(m, in, i, p); err != nil {
			return hw.NoSignal, nil, err
		}
	}
	return in, pins, nil
}

// OutputN creates an output bus of the given bits size, together with one 1
// bit wire per bit, named name[0], name[1], etc. Bit i of the bus is wired
// from name[i].
//
func OutputN(m *hw.Module, name string, bits int) (hw.SignalID, []hw.SignalID, error) {
	out, err := m.NewSignal(hw.Output, bits, name)
	if err != nil {
		return hw.NoSignal, nil, err
	}
	pins := make([]hw.SignalID, bits)
	for i := range pins {
		if pins[i], err = m.NewSignal(hw.Wire, 1, hw.BusPinName(name, i)); err != nil {
			return hw.NoSignal, nil, err
		}
	}
	// concat takes its arguments msb first.
	msb := make([]hw.SignalID, bits)
	for i := range pins {
		msb[bits-1-i] = pins[i]
	}
	if _, err = Concat(m, out, msb...); err != nil {
		return hw.NoSignal, nil, err
	}
	return out, pins, nil
}
