package blif_test

import (
	"strings"
	"testing"

	hw "github.com/db47h/hwconv"
	"github.com/db47h/hwconv/blif"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	src := `# generated
.model counter   # trailing comment
.inputs clk \
  rst $in<0>
.outputs out.q
.names $in<0> n1
0 1
.names n1 n2 \
  out.q
1- 1
-1 1
.latch n1 n2 re clk 2
.subckt $_DFF_PN0_ C=clk R=rst D=n1 Q=n3
.end
`
	f, err := blif.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	want := &blif.File{Models: []*blif.Model{{
		Line:    2,
		Name:    "counter",
		Inputs:  []string{"clk", "rst", "$in<0>"},
		Outputs: []string{"out.q"},
		Commands: []blif.Command{
			&blif.Names{Line: 6, Signals: []string{"$in<0>", "n1"}, Cover: blif.Cover{{"0", '1'}}},
			&blif.Names{Line: 8, Signals: []string{"n1", "n2", "out.q"}, Cover: blif.Cover{{"1-", '1'}, {"-1", '1'}}},
			&blif.Latch{Line: 12, Input: "n1", Output: "n2", Type: "re", Control: "clk", Init: 2},
			&blif.Subckt{Line: 13, Model: "$_DFF_PN0_", Conns: []blif.Conn{{"C", "clk"}, {"R", "rst"}, {"D", "n1"}, {"Q", "n3"}}},
		},
	}}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_errors(t *testing.T) {
	td := []struct {
		src       string
		line, col int
	}{
		{".model\n", 1, 7},
		{".model m\n.outputs y\n", 2, 1},
		{".model m\n.inputs a b\n.outputs y\n.names a b y\n1 1\n.end\n", 5, 1},
		{".model m\n.inputs a b\n.outputs y\n.names a b y\n11 x\n.end\n", 5, 4},
		{".model m\n.inputs a b\n.outputs y\n.names a b y\n11 -\n.end\n", 5, 4},
		{".model m\n.inputs a b\n.outputs y\n.names a b y\n11 1\n00 0\n.end\n", 6, 4},
		{".model m\n.inputs a 9b\n", 2, 11},
		{".model m\n.inputs a-b\n", 2, 9},
		{".model m\n.inputs a\n.outputs y\n.subckt $_DFF_P_ C clk\n.end\n", 4, 20},
		{".model m\n.inputs a\n.outputs y\n.latch a\n.end\n", 4, 9},
		{".model m\n.inputs a\n.outputs y\n.latch a y re clk 5\n.end\n", 4, 19},
		{".model m\n.inputs a\n.outputs y\n.names a y\n1 1\n.end extra\n", 6, 6},
	}
	for _, d := range td {
		_, err := blif.Parse(strings.NewReader(d.src))
		var e *hw.GrammarError
		if !errors.As(err, &e) {
			t.Errorf("%q: expected GrammarError, got %v", d.src, err)
			continue
		}
		if e.Line != d.line || e.Col != d.col {
			t.Errorf("%q: expected error at %d:%d, got %d:%d: %s", d.src, d.line, d.col, e.Line, e.Col, e.Msg)
		}
	}
}

func TestCover_eval(t *testing.T) {
	c := blif.Cover{{"1-", '0'}}
	for _, d := range []struct {
		in  []bool
		out bool
	}{
		{[]bool{false, false}, true},
		{[]bool{false, true}, true},
		{[]bool{true, false}, false},
		{[]bool{true, true}, false},
	} {
		if got := c.Eval(d.in); got != d.out {
			t.Errorf("%v: expected %v, got %v", d.in, d.out, got)
		}
	}
	if s := c.String(); s != "{1- 0}" {
		t.Errorf("bad cover string %q", s)
	}
}
