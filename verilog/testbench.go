// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verilog

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	hw "github.com/db47h/hwconv"
	"github.com/pkg/errors"
)

// WriteTestbench writes a testbench module instantiating the module written
// by WriteModule and replaying, cycle by cycle, the input values recorded in
// trace.
//
func (w *Writer) WriteTestbench(out io.Writer, trace *hw.Trace) error {
	m := w.m
	ins := m.SignalsOf(hw.Input)
	var b bytes.Buffer

	b.WriteString("module tb();\n")
	fmt.Fprintf(&b, "    reg %s;\n", w.clk)
	for _, id := range ins {
		fmt.Fprintf(&b, "    reg%s %s;\n", vectorDecl(m.Width(id)), w.Name(id))
	}
	for _, id := range m.SignalsOf(hw.Output) {
		fmt.Fprintf(&b, "    wire%s %s;\n", vectorDecl(m.Width(id)), w.Name(id))
	}
	b.WriteByte('\n')

	var conns []string
	for _, id := range w.ports() {
		conns = append(conns, "."+w.Name(id)+"("+w.Name(id)+")")
	}
	conns = append(conns, "."+w.clk+"("+w.clk+")")
	fmt.Fprintf(&b, "    %s block(%s);\n\n", w.opts.ModuleName, strings.Join(conns, ", "))

	b.WriteString("    always\n")
	fmt.Fprintf(&b, "        #%d %s = ~%s;\n\n", w.opts.HalfPeriod, w.clk, w.clk)

	b.WriteString("    initial begin\n")
	fmt.Fprintf(&b, "        $dumpfile (%q);\n", w.opts.DumpFile)
	b.WriteString("        $dumpvars;\n\n")
	fmt.Fprintf(&b, "        %s = 0;\n", w.clk)

	for i := 0; i < trace.Len(); i++ {
		for _, id := range ins {
			name := m.Name(id)
			v, ok := trace.At(name, i)
			if !ok {
				return hw.StructureError(name, "no trace value for cycle %d", i)
			}
			fmt.Fprintf(&b, "        %s = %d'd%d;\n", w.Name(id), m.Width(id), v)
		}
		fmt.Fprintf(&b, "\n        #%d\n", w.opts.CycleDelay)
	}

	b.WriteString("        $finish;\n")
	b.WriteString("    end\n")
	b.WriteString("endmodule\n")
	_, err := out.Write(b.Bytes())
	return errors.Wrap(err, "write testbench")
}
