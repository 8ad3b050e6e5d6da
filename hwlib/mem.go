// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	hw "github.com/db47h/hwconv"
)

// RAM creates a new memory with no precomputed contents.
//
func RAM(m *hw.Module, name string) (hw.MemID, error) {
	return m.NewMemory(name, nil)
}

// ROM creates a new read-only memory with the given contents. Addresses past
// the end of data read as 0.
//
func ROM(m *hw.Module, name string, data []uint64) (hw.MemID, error) {
	data = append([]uint64(nil), data...)
	return m.NewMemory(name, func(addr uint64) uint64 {
		if addr < uint64(len(data)) {
			return data[addr]
		}
		return 0
	})
}

// ReadPort adds a synchronous read port to memory mem. An allocated result
// has the given data width.
//
//	Function: out(t) = mem[addr(t-1)]
//
func ReadPort(m *hw.Module, mem hw.MemID, addr hw.SignalID, width int, out hw.SignalID) (hw.SignalID, error) {
	out, err := dest(m, out, width)
	if err != nil {
		return hw.NoSignal, err
	}
	_, err = m.AddNet(hw.Net{Op: hw.OpMemRead, Args: []hw.SignalID{addr}, Dests: []hw.SignalID{out}, Mem: mem})
	if err != nil {
		return hw.NoSignal, err
	}
	return out, nil
}

// WritePort adds a write port to memory mem.
//
//	Function: if we { mem[addr] = data } // on the clock edge
//
func WritePort(m *hw.Module, mem hw.MemID, addr, data, we hw.SignalID) error {
	_, err := m.AddNet(hw.Net{Op: hw.OpMemWrite, Args: []hw.SignalID{addr, data, we}, Mem: mem})
	return err
}
