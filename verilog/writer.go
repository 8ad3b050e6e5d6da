// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package verilog writes modules as synthesizable Verilog, together with
// testbenches replaying simulation traces.
//
package verilog

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	hw "github.com/db47h/hwconv"
	"github.com/db47h/hwconv/ident"
	"github.com/pkg/errors"
)

// Options configures a Writer.
//
type Options struct {
	ModuleName string // name of the generated module
	ClockName  string // name of the implicit clock port
	TmpPrefix  string // prefix of identifiers replacing illegal names
	Generator  string // generator name, in the header comment
	HalfPeriod int    // testbench clock half period
	CycleDelay int    // testbench delay between two input sets
	DumpFile   string // testbench waveform dump file
}

// DefaultOptions returns the default writer options.
//
func DefaultOptions() *Options {
	return &Options{
		ModuleName: "toplevel",
		ClockName:  "clk",
		TmpPrefix:  "_verout_tmp_",
		Generator:  "hwconv",
		HalfPeriod: 1,
		CycleDelay: 2,
		DumpFile:   "waveform.vcd",
	}
}

// Writer writes a module and its testbench. The module must not be modified
// while in use by the writer.
//
// All identifiers go through a single sanitizer: a signal has the same
// identifier in the module and the testbench.
//
type Writer struct {
	m     *hw.Module
	opts  Options
	names *ident.Sanitizer
	ids   []string // signal identifiers
	mems  []string // memory identifiers
	clk   string
}

// NewWriter returns a new Writer for module m. opts may be nil, in which case
// DefaultOptions is used.
//
func NewWriter(m *hw.Module, opts *Options) (*Writer, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	rules := Rules()
	if !rules.Legal(opts.ModuleName) {
		return nil, hw.StructureError(opts.ModuleName, "illegal module name")
	}
	names, err := ident.New(rules, opts.TmpPrefix)
	if err != nil {
		return nil, err
	}
	if err = names.Reserve(opts.ClockName); err != nil {
		return nil, err
	}
	w := &Writer{m: m, opts: *opts, names: names, clk: opts.ClockName}
	for _, id := range m.Signals() {
		n, err := names.Name(m.Name(id))
		if err != nil {
			return nil, err
		}
		w.ids = append(w.ids, n)
	}
	for _, id := range m.Memories() {
		s := strconv.Itoa(int(id))
		n, err := names.Map("\x00mem"+s, "mem_"+s)
		if err != nil {
			return nil, hw.StructureError(m.Memory(id).Name, "no legal identifier available for memory")
		}
		w.mems = append(w.mems, n)
	}
	return w, nil
}

// Name returns the Verilog identifier of signal id.
//
func (w *Writer) Name(id hw.SignalID) string { return w.ids[id] }

func vectorDecl(width int) string {
	if width == 1 {
		return ""
	}
	return "[" + strconv.Itoa(width-1) + ":0]"
}

func (w *Writer) ports() []hw.SignalID {
	var ps []hw.SignalID
	for _, id := range w.m.Signals() {
		k := w.m.Signal(id).Kind
		if k.Has(hw.Input) || k.Has(hw.Output) {
			ps = append(ps, id)
		}
	}
	return ps
}

// WriteModule writes the module to out.
//
func (w *Writer) WriteModule(out io.Writer) error {
	var b bytes.Buffer
	w.comment(&b)
	if err := w.header(&b); err != nil {
		return err
	}
	if err := w.combinational(&b); err != nil {
		return err
	}
	w.sequential(&b)
	b.WriteString("endmodule\n\n")
	_, err := out.Write(b.Bytes())
	return errors.Wrap(err, "write module")
}

func (w *Writer) comment(b *bytes.Buffer) {
	fmt.Fprintf(b, "// Generated automatically via %s\n", w.opts.Generator)
	b.WriteString("// As one initial test of synthesis, map to FPGA with:\n")
	fmt.Fprintf(b, "//   yosys -p \"synth_xilinx -top %s\" thisfile.v\n\n", w.opts.ModuleName)
}

func (w *Writer) header(b *bytes.Buffer) error {
	m := w.m
	var io []string
	for _, id := range w.ports() {
		io = append(io, w.Name(id))
	}
	io = append(io, w.clk)
	fmt.Fprintf(b, "module %s(%s);\n", w.opts.ModuleName, strings.Join(io, ", "))

	memRead := make(map[hw.SignalID]bool)
	for _, n := range m.NetsOf(hw.OpMemRead) {
		memRead[n.Dests[0]] = true
	}

	for _, id := range m.SignalsOf(hw.Input) {
		fmt.Fprintf(b, "    input%s %s;\n", vectorDecl(m.Width(id)), w.Name(id))
	}
	fmt.Fprintf(b, "    input %s;\n", w.clk)
	for _, id := range m.SignalsOf(hw.Output) {
		fmt.Fprintf(b, "    output%s %s;\n", vectorDecl(m.Width(id)), w.Name(id))
	}
	b.WriteByte('\n')

	for _, id := range m.Signals() {
		k := m.Signal(id).Kind
		if k.Has(hw.Register) || k.Has(hw.Output) && memRead[id] {
			fmt.Fprintf(b, "    reg%s %s;\n", vectorDecl(m.Width(id)), w.Name(id))
		}
	}
	for _, id := range m.Signals() {
		s := m.Signal(id)
		if s.Kind != hw.Wire && s.Kind != hw.Const {
			continue
		}
		typ := "wire"
		if memRead[id] {
			typ = "reg"
		}
		fmt.Fprintf(b, "    %s%s %s;\n", typ, vectorDecl(s.Width), w.Name(id))
	}
	b.WriteByte('\n')

	type memDecl struct {
		id         hw.MemID
		addr, data int
	}
	var mems []memDecl
	for _, id := range m.Memories() {
		a, d, err := m.MemoryWidths(id)
		if err != nil {
			return err
		}
		mems = append(mems, memDecl{id, a, d})
		fmt.Fprintf(b, "    reg%s %s%s;\n", vectorDecl(d), w.mems[id], vectorDecl(1<<uint(a)))
	}
	b.WriteByte('\n')

	for _, md := range mems {
		init := m.Memory(md.id).Init
		if init == nil {
			continue
		}
		b.WriteString("    initial begin\n")
		for i := uint64(0); i < 1<<uint(md.addr); i++ {
			fmt.Fprintf(b, "        %s[%d]=%d'h%x;\n", w.mems[md.id], i, md.data, init(i))
		}
		b.WriteString("    end\n\n")
	}
	return nil
}

// expr returns the Verilog expression computing a combinational net.
//
func (w *Writer) expr(n *hw.Net) (string, error) {
	arg := func(i int) string { return w.Name(n.Args[i]) }
	switch n.Op {
	case hw.OpWire:
		return arg(0), nil
	case hw.OpNot:
		return "~" + arg(0), nil
	case hw.OpAnd, hw.OpOr, hw.OpXor, hw.OpAdd, hw.OpSub, hw.OpMul, hw.OpLt, hw.OpGt:
		return arg(0) + " " + n.Op.String() + " " + arg(1), nil
	case hw.OpNand:
		return "~(" + arg(0) + " & " + arg(1) + ")", nil
	case hw.OpEq:
		return arg(0) + " == " + arg(1), nil
	case hw.OpMux:
		// args are (select, false case, true case)
		return arg(0) + " ? " + arg(2) + " : " + arg(1), nil
	case hw.OpConcat:
		cat := make([]string, len(n.Args))
		for i := range n.Args {
			cat[i] = arg(i)
		}
		return "{" + strings.Join(cat, ", ") + "}", nil
	case hw.OpSelect:
		cat := make([]string, len(n.Bits))
		for i, bit := range n.Bits {
			s := arg(0)
			if w.m.Width(n.Args[0]) > 1 {
				s += "[" + strconv.Itoa(bit) + "]"
			}
			cat[len(cat)-1-i] = s
		}
		return "{" + strings.Join(cat, ", ") + "}", nil
	}
	return "", errors.WithStack(&hw.UnsupportedOperatorError{Op: n.Op})
}

func (w *Writer) combinational(b *bytes.Buffer) error {
	m := w.m
	for _, id := range m.SignalsOf(hw.Const) {
		s := m.Signal(id)
		fmt.Fprintf(b, "    assign %s = %d'd%d;\n", w.Name(id), s.Width, s.Value)
	}
	nets := m.Nets()
	for i := range nets {
		n := &nets[i]
		switch n.Op {
		case hw.OpReg, hw.OpMemWrite:
		case hw.OpMemRead:
			fmt.Fprintf(b, "    always @( posedge %s )\n", w.clk)
			b.WriteString("    begin\n")
			fmt.Fprintf(b, "        %s <= %s[%s];\n", w.Name(n.Dests[0]), w.mems[n.Mem], w.Name(n.Args[0]))
			b.WriteString("    end\n")
		default:
			e, err := w.expr(n)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "    assign %s = %s;\n", w.Name(n.Dests[0]), e)
		}
	}
	b.WriteByte('\n')
	return nil
}

func (w *Writer) sequential(b *bytes.Buffer) {
	fmt.Fprintf(b, "    always @( posedge %s )\n", w.clk)
	b.WriteString("    begin\n")
	for _, n := range w.m.NetsOf(hw.OpReg, hw.OpMemWrite) {
		if n.Op == hw.OpReg {
			fmt.Fprintf(b, "        %s <= %s;\n", w.Name(n.Dests[0]), w.Name(n.Args[0]))
			continue
		}
		fmt.Fprintf(b, "        if (%s) begin\n", w.Name(n.Args[2]))
		fmt.Fprintf(b, "                %s[%s] <= %s;\n", w.mems[n.Mem], w.Name(n.Args[0]), w.Name(n.Args[1]))
		b.WriteString("        end\n")
	}
	b.WriteString("    end\n")
}
