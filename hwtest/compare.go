// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing modules through the
// cycle simulator.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"
	"time"

	hw "github.com/db47h/hwconv"
)

func inputNames(m *hw.Module) []string {
	var ns []string
	for _, id := range m.SignalsOf(hw.Input) {
		ns = append(ns, m.Name(id))
	}
	return ns
}

func outputNames(m *hw.Module) []string {
	var ns []string
	for _, id := range m.SignalsOf(hw.Output) {
		ns = append(ns, m.Name(id))
	}
	sort.Strings(ns)
	return ns
}

func inString(ins map[string]uint64) string {
	var ns []string
	for n := range ins {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	var b strings.Builder
	for _, n := range ns {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%d", n, ins[n])
	}
	return b.String()
}

// Gate checks the combinational function from 1 bit inputs ins to signal out
// against the expected results. result[i] is the expected value of out for
// the i-th input combination, ins[0] being the most significant bit of i.
//
func Gate(t testing.TB, m *hw.Module, ins []string, out string, result []uint64) {
	t.Helper()
	c, err := hw.NewCircuit(m)
	if err != nil {
		t.Fatal(err)
	}
	tot := 1 << uint(len(ins))
	if len(result) != tot {
		t.Fatalf("got %d results for %d input combinations", len(result), tot)
	}
	for i := 0; i < tot; i++ {
		vals := make(map[string]uint64, len(ins))
		for bit := range ins {
			vals[ins[len(ins)-bit-1]] = uint64(i>>uint(bit)) & 1
		}
		if err = c.Step(vals); err != nil {
			t.Fatal(err)
		}
		got, _ := c.Trace().At(out, i)
		if got != result[i] {
			t.Errorf("%s: %s => expected %d, got %d", out, inString(vals), result[i], got)
		}
	}
}

// CompareModules feeds the same inputs to two modules and compares their
// outputs over a number of clock cycles. Both modules must have the same
// input and output names and widths. The first two cycles set all inputs to
// 0, then all to 1; the remaining ones use random values.
//
func CompareModules(t testing.TB, cycles int, m1, m2 *hw.Module) {
	t.Helper()

	ins, outs := inputNames(m1), outputNames(m1)
	i2, o2 := inputNames(m2), outputNames(m2)
	sort.Strings(ins)
	sort.Strings(i2)
	if strings.Join(ins, ",") != strings.Join(i2, ",") {
		t.Fatalf("input mismatch: %v != %v", ins, i2)
	}
	if strings.Join(outs, ",") != strings.Join(o2, ",") {
		t.Fatalf("output mismatch: %v != %v", outs, o2)
	}
	for _, n := range append(append([]string(nil), ins...), outs...) {
		a, _ := m1.Lookup(n)
		b, _ := m2.Lookup(n)
		if m1.Width(a) != m2.Width(b) {
			t.Fatalf("%s: width mismatch: %d != %d", n, m1.Width(a), m2.Width(b))
		}
	}

	c1, err := hw.NewCircuit(m1)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := hw.NewCircuit(m2)
	if err != nil {
		t.Fatal(err)
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	start := time.Now()
	for i := 0; i < cycles; i++ {
		vals := make(map[string]uint64, len(ins))
		for _, n := range ins {
			id, _ := m1.Lookup(n)
			switch i {
			case 0:
				vals[n] = 0
			case 1:
				vals[n] = ^uint64(0) >> uint(64-m1.Width(id))
			default:
				vals[n] = rnd.Uint64() >> uint(64-m1.Width(id))
			}
		}
		if err = c1.Step(vals); err != nil {
			t.Fatal(err)
		}
		if err = c2.Step(vals); err != nil {
			t.Fatal(err)
		}
		for _, o := range outs {
			v1, _ := c1.Trace().At(o, i)
			v2, _ := c2.Trace().At(o, i)
			if v1 != v2 {
				t.Fatalf("\ncycle %d: %s\nexpected %s=%d\ngot %d", i, inString(vals), o, v1, v2)
			}
		}
	}
	t.Logf("%d nets. %d cycles in %v", len(m1.Nets()), cycles, time.Since(start))
}
