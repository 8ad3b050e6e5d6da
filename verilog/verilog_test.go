package verilog_test

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	hw "github.com/db47h/hwconv"
	"github.com/db47h/hwconv/blif"
	hl "github.com/db47h/hwconv/hwlib"
	"github.com/db47h/hwconv/verilog"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const andBLIF = `.model and
.inputs a b
.outputs y
.names a b y
11 1
.end
`

func importBLIF(t *testing.T, src string) *hw.Module {
	t.Helper()
	r, err := blif.Import(strings.NewReader(src), nil)
	require.NoError(t, err)
	return r.Module
}

func writeModule(t *testing.T, m *hw.Module, opts *verilog.Options) string {
	t.Helper()
	w, err := verilog.NewWriter(m, opts)
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, w.WriteModule(&b))
	return b.String()
}

func TestWriteModule_and(t *testing.T) {
	want := `// Generated automatically via hwconv
// As one initial test of synthesis, map to FPGA with:
//   yosys -p "synth_xilinx -top toplevel" thisfile.v

module toplevel(a, b, y, clk);
    input a;
    input b;
    input clk;
    output y;



    assign y = a & b;

    always @( posedge clk )
    begin
    end
endmodule

`
	got := writeModule(t, importBLIF(t, andBLIF), nil)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("module mismatch (-want +got):\n%s", diff)
	}
	assert.NotContains(t, got, "y <=")
}

func TestWriteModule_latch(t *testing.T) {
	m := importBLIF(t, `.model l
.inputs clk d
.outputs q
.latch d q re clk 0
.end
`)
	got := writeModule(t, m, nil)
	assert.Equal(t, 1, strings.Count(got, "        q <= d;\n"))
	assert.Contains(t, got, "module toplevel(d, q, clk);\n")
	assert.Contains(t, got, "    output q;\n")
	assert.Contains(t, got, "    reg q;\n")
	assert.Equal(t, 1, strings.Count(got, "input clk;"))
}

func TestWriteModule_clockAlias(t *testing.T) {
	m := importBLIF(t, `.model top
.inputs clk d
.outputs q
.names clk clk2
1 1
.latch d q re clk2 0
.end
`)
	got := writeModule(t, m, nil)
	assert.Contains(t, got, "module toplevel(d, q, clk);\n")
	assert.Equal(t, 1, strings.Count(got, "input clk;"))
	assert.Contains(t, got, "        q <= d;\n")
	assert.NotContains(t, got, "clk2")
}

func TestWriteModule_ops(t *testing.T) {
	m := hw.New()
	a, _ := m.NewSignal(hw.Input, 4, "a")
	b, _ := m.NewSignal(hw.Input, 4, "b")
	s, _ := m.NewSignal(hw.Input, 1, "s")
	wire := func(name string, width int) hw.SignalID {
		id, err := m.NewSignal(hw.Wire, width, name)
		require.NoError(t, err)
		return id
	}
	build := func(_ hw.SignalID, err error) { require.NoError(t, err) }

	build(hl.Buf(m, a, wire("w_buf", 4)))
	build(hl.Not(m, a, wire("w_not", 4)))
	build(hl.And(m, a, b, wire("w_and", 4)))
	build(hl.Or(m, a, b, wire("w_or", 4)))
	build(hl.Xor(m, a, b, wire("w_xor", 4)))
	build(hl.Nand(m, a, b, wire("w_nand", 4)))
	build(hl.Add(m, a, b, wire("w_add", 5)))
	build(hl.Sub(m, a, b, wire("w_sub", 5)))
	build(hl.Mul(m, a, b, wire("w_mul", 8)))
	build(hl.Lt(m, a, b, wire("w_lt", 1)))
	build(hl.Gt(m, a, b, wire("w_gt", 1)))
	build(hl.Eq(m, a, b, wire("w_eq", 1)))
	build(hl.Mux(m, s, a, b, wire("w_mux", 4)))
	build(hl.Concat(m, wire("w_cat", 8), a, b))
	build(hl.Select(m, a, []int{0, 2}, wire("w_sel", 2)))
	build(hl.Bit(m, s, 0, wire("w_bit", 1)))
	build(hl.Const(m, 5, 4, wire("w_const", 4)))
	mem, err := hl.RAM(m, "ram")
	require.NoError(t, err)
	build(hl.ReadPort(m, mem, a, 4, wire("w_rd", 4)))
	require.NoError(t, hl.WritePort(m, mem, a, b, s))

	got := writeModule(t, m, nil)
	for _, l := range []string{
		"    input[3:0] a;",
		"    input s;",
		"    wire[3:0] w_buf;",
		"    wire[3:0] const_5_0;",
		"    reg[3:0] w_rd;",
		"    reg[3:0] mem_0[15:0];",
		"    assign const_5_0 = 4'd5;",
		"    assign w_buf = a;",
		"    assign w_not = ~a;",
		"    assign w_and = a & b;",
		"    assign w_or = a | b;",
		"    assign w_xor = a ^ b;",
		"    assign w_nand = ~(a & b);",
		"    assign w_add = a + b;",
		"    assign w_sub = a - b;",
		"    assign w_mul = a * b;",
		"    assign w_lt = a < b;",
		"    assign w_gt = a > b;",
		"    assign w_eq = a == b;",
		"    assign w_mux = s ? b : a;",
		"    assign w_cat = {a, b};",
		"    assign w_sel = {a[2], a[0]};",
		"    assign w_bit = {s};",
		"    assign w_const = const_5_0;",
		"        w_rd <= mem_0[a];",
		"        if (s) begin\n                mem_0[a] <= b;\n        end",
	} {
		assert.Contains(t, got, l+"\n")
	}
	assert.NotContains(t, got, "wire[3:0] w_rd;")
}

func TestWriteModule_romInit(t *testing.T) {
	m := hw.New()
	addr, _ := m.NewSignal(hw.Input, 3, "addr")
	out, _ := m.NewSignal(hw.Output, 4, "out")
	rom, err := hl.ROM(m, "rom", []uint64{0, 1, 2, 3, 4, 5, 6, 0xf})
	require.NoError(t, err)
	_, err = hl.ReadPort(m, rom, addr, 4, out)
	require.NoError(t, err)

	got := writeModule(t, m, nil)
	var want strings.Builder
	want.WriteString("    initial begin\n")
	for i, v := range []string{"0", "1", "2", "3", "4", "5", "6", "f"} {
		want.WriteString("        mem_0[" + string(rune('0'+i)) + "]=4'h" + v + ";\n")
	}
	want.WriteString("    end\n\n")
	assert.Contains(t, got, "    output[3:0] out;\n    reg[3:0] out;\n")
	assert.Contains(t, got, "    reg[3:0] mem_0[7:0];\n")
	assert.Contains(t, got, want.String())
	assert.Equal(t, 8, strings.Count(got, "=4'h"))
}

func TestWriteModule_names(t *testing.T) {
	m := importBLIF(t, `.model names
.inputs $in<0> reg
.outputs clk
.names $in<0> reg clk
11 1
.end
`)
	w, err := verilog.NewWriter(m, &verilog.Options{ModuleName: "top", ClockName: "clock", TmpPrefix: "t_"})
	require.NoError(t, err)
	in, _ := m.Lookup("$in<0>")
	reg, _ := m.Lookup("reg")
	clk, _ := m.Lookup("clk")
	assert.Equal(t, "t_0", w.Name(in))
	assert.Equal(t, "t_1", w.Name(reg))
	assert.Equal(t, "clk", w.Name(clk))

	// the default clock name clashes with the output
	w, err = verilog.NewWriter(m, nil)
	require.NoError(t, err)
	assert.Equal(t, "_verout_tmp_2", w.Name(clk))
	var b bytes.Buffer
	require.NoError(t, w.WriteModule(&b))
	assert.Contains(t, b.String(), "module toplevel(_verout_tmp_0, _verout_tmp_1, _verout_tmp_2, clk);\n")
}

func TestNewWriter_errors(t *testing.T) {
	m := importBLIF(t, andBLIF)
	for _, opts := range []*verilog.Options{
		{ModuleName: "module", ClockName: "clk", TmpPrefix: "t_"},
		{ModuleName: "top", ClockName: "clk", TmpPrefix: "9"},
		{ModuleName: "top", ClockName: "wire", TmpPrefix: "t_"},
	} {
		_, err := verilog.NewWriter(m, opts)
		var e *hw.ModelStructureError
		assert.True(t, errors.As(err, &e), "%+v: expected ModelStructureError, got %v", opts, err)
	}
}

func TestWriteTestbench(t *testing.T) {
	m := importBLIF(t, andBLIF)
	c, err := hw.NewCircuit(m)
	require.NoError(t, err)
	require.NoError(t, c.Step(map[string]uint64{"a": 1, "b": 1}))
	require.NoError(t, c.Step(map[string]uint64{"a": 0, "b": 1}))

	w, err := verilog.NewWriter(m, nil)
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, w.WriteTestbench(&b, c.Trace()))
	want := `module tb();
    reg clk;
    reg a;
    reg b;
    wire y;

    toplevel block(.a(a), .b(b), .y(y), .clk(clk));

    always
        #1 clk = ~clk;

    initial begin
        $dumpfile ("waveform.vcd");
        $dumpvars;

        clk = 0;
        a = 1'd1;
        b = 1'd1;

        #2
        a = 1'd0;
        b = 1'd1;

        #2
        $finish;
    end
endmodule
`
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("testbench mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteTestbench_missing(t *testing.T) {
	m := importBLIF(t, andBLIF)
	w, err := verilog.NewWriter(m, nil)
	require.NoError(t, err)
	tr := hw.NewTrace("a", "b")
	tr.Add("a", 1)
	err = w.WriteTestbench(new(bytes.Buffer), tr)
	var e *hw.ModelStructureError
	require.True(t, errors.As(err, &e), "got %v", err)
	assert.Equal(t, "b", e.Name)
}

func TestWriteTestbench_vectorNames(t *testing.T) {
	m := importBLIF(t, `.model vec
.inputs a[0] a[1] a[2] $x
.outputs y
.names $x y
1 1
.end
`)
	tr, err := hw.RandomRun(m, 4, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	w, err := verilog.NewWriter(m, nil)
	require.NoError(t, err)
	xid, ok := m.Lookup("$x")
	require.True(t, ok)
	x := w.Name(xid)
	require.True(t, strings.HasPrefix(x, "_verout_tmp_"), "got %q", x)

	var mod, tb bytes.Buffer
	require.NoError(t, w.WriteModule(&mod))
	require.NoError(t, w.WriteTestbench(&tb, tr))
	assert.Contains(t, mod.String(), "module toplevel(a, "+x+", y, clk);\n")
	assert.Contains(t, mod.String(), "    input[2:0] a;\n")
	assert.Contains(t, mod.String(), "    input "+x+";\n")

	got := tb.String()
	assert.Contains(t, got, "    reg[2:0] a;\n")
	assert.Contains(t, got, "    reg "+x+";\n")
	assert.Contains(t, got, "    toplevel block(.a(a), ."+x+"("+x+"), .y(y), .clk(clk));\n")
	assert.NotContains(t, got, "$x")
	for i := 0; i < tr.Len(); i++ {
		av, _ := tr.At("a", i)
		xv, _ := tr.At("$x", i)
		assert.Contains(t, got, fmt.Sprintf("        a = 3'd%d;\n        %s = 1'd%d;\n", av, x, xv))
	}
	assert.Equal(t, tr.Len(), strings.Count(got, "        a = 3'd"))
	assert.Equal(t, tr.Len(), strings.Count(got, "        "+x+" = 1'd"))
}

func TestNewWriter_memoryNameExhausted(t *testing.T) {
	m := hw.New()
	// the fallback prefix leaves room for single digit suffixes only
	opts := verilog.DefaultOptions()
	opts.TmpPrefix = "t" + strings.Repeat("x", 1022)
	for i := 0; i < 10; i++ {
		_, err := m.NewSignal(hw.Input, 1, fmt.Sprintf("$%d", i))
		require.NoError(t, err)
	}
	addr, _ := m.NewSignal(hw.Input, 2, "mem_0")
	ram, err := hl.RAM(m, "ram")
	require.NoError(t, err)
	_, err = hl.ReadPort(m, ram, addr, 1, hw.NoSignal)
	require.NoError(t, err)

	_, err = verilog.NewWriter(m, opts)
	var e *hw.ModelStructureError
	require.True(t, errors.As(err, &e), "got %v", err)
	assert.Equal(t, "ram", e.Name)
	assert.NotContains(t, err.Error(), "\x00")
}
