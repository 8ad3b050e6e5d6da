// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	hw "github.com/db47h/hwconv"
)

// Register returns a new register. Its next value must be set with SetNext.
//
func Register(m *hw.Module, name string, width int) (hw.SignalID, error) {
	return m.NewSignal(hw.Register, width, name)
}

// SetNext sets the next value of register reg.
//
//	Function: reg(t) = next(t-1) // where t is the current clock cycle.
//
func SetNext(m *hw.Module, reg, next hw.SignalID) error {
	_, err := m.AddNet(hw.Net{Op: hw.OpReg, Args: []hw.SignalID{next}, Dests: []hw.SignalID{reg}})
	return err
}

// DFF turns q into a clocked data flip flop fed by d. q must be an undriven
// wire or output.
//
//	Function: q(t) = d(t-1) // where t is the current clock cycle.
//
func DFF(m *hw.Module, d, q hw.SignalID) error {
	if err := m.MakeRegister(q); err != nil {
		return err
	}
	return SetNext(m, q, d)
}
