package hwlib_test

import (
	"testing"

	hw "github.com/db47h/hwconv"
	hl "github.com/db47h/hwconv/hwlib"
)

func TestDFF(t *testing.T) {
	m := hw.New()
	in, _ := m.NewSignal(hw.Input, 4, "in")
	out, _ := m.NewSignal(hw.Output, 4, "out")
	if err := hl.DFF(m, in, out); err != nil {
		t.Fatal(err)
	}
	if err := m.Check(); err != nil {
		t.Fatal(err)
	}
	if next, ok := m.Next(out); !ok || next != in {
		t.Fatalf("expected next value of out to be in, got %v, %v", next, ok)
	}
	c, err := hw.NewCircuit(m)
	if err != nil {
		t.Fatal(err)
	}

	var prev uint64
	for i := 15; i >= 0; i-- {
		if err = c.Step(map[string]uint64{"in": uint64(i)}); err != nil {
			t.Fatal(err)
		}
		if v, _ := c.Trace().At("out", 15-i); v != prev {
			t.Fatalf("bad output for input %d during cycle: expected out = %d, got %d", i, prev, v)
		}
		if v, _ := c.Value("out"); v != uint64(i) {
			t.Fatalf("bad output for input %d after clock edge: expected out = %d, got %d", i, i, v)
		}
		prev = uint64(i)
	}
}

func TestDFF_errors(t *testing.T) {
	m := hw.New()
	in, _ := hl.Input(m, "in")
	q, _ := hl.Output(m, "q")
	if _, err := hl.Buf(m, in, q); err != nil {
		t.Fatal(err)
	}
	if err := hl.DFF(m, in, q); err == nil {
		t.Fatal("expected error for driven flop output")
	}
	if err := hl.DFF(m, q, in); err == nil {
		t.Fatal("expected error for input flop output")
	}
}

func TestRegister(t *testing.T) {
	// 3 bit counter
	m := hw.New()
	r, err := hl.Register(m, "cnt", 3)
	if err != nil {
		t.Fatal(err)
	}
	one, _ := m.Const(1, 3)
	inc, _ := m.NewSignal(hw.Wire, 3, "inc")
	if _, err = m.AddNet(hw.Net{Op: hw.OpAdd, Args: []hw.SignalID{r, one}, Dests: []hw.SignalID{inc}}); err != nil {
		t.Fatal(err)
	}
	if err = m.Check(); err == nil {
		t.Fatal("expected error for register with no next value")
	}
	if err = hl.SetNext(m, r, inc); err != nil {
		t.Fatal(err)
	}
	c, _ := hw.NewCircuit(m)
	for i := 0; i < 10; i++ {
		if err = c.Step(nil); err != nil {
			t.Fatal(err)
		}
	}
	for i, v := range c.Trace().Values("cnt") {
		if v != uint64(i)&7 {
			t.Fatalf("cycle %d: expected %d, got %d", i, i&7, v)
		}
	}
}
