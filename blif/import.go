// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package blif

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	hw "github.com/db47h/hwconv"
	"github.com/db47h/hwconv/equiv"
	hl "github.com/db47h/hwconv/hwlib"
	"github.com/pkg/errors"
)

// Options configures Import.
//
type Options struct {
	// BundleVectors fuses inputs and outputs named base[0] .. base[n-1] into
	// a single n bit port named base.
	BundleVectors bool
	// ClockName is the name of the clock input. It is not created as a
	// signal.
	ClockName string
	// VerifyCovers proves every gate built from a cover equivalent to it.
	VerifyCovers bool
	// Logger receives debug messages. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the default import options: vectors are bundled and
// the clock is named "clk".
//
func DefaultOptions() *Options {
	return &Options{BundleVectors: true, ClockName: "clk"}
}

// Result is the result of an import.
//
type Result struct {
	Module *hw.Module
	Name   string // model name
	// Clocks is the clock input together with its aliases.
	Clocks []string
	// FlopClocks lists the clock pins of flip-flops. Flip-flops are all
	// assumed to share the same clock.
	FlopClocks []string
}

type importer struct {
	m        *hw.Module
	opts     Options
	log      *slog.Logger
	clocks   map[string]bool
	ffClocks map[string]bool
}

// Import reads a BLIF file holding a single flattened model and builds the
// corresponding module. opts may be nil, in which case DefaultOptions is
// used.
//
func Import(r io.Reader, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	f, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if len(f.Models) != 1 {
		return nil, hw.StructureError(f.Models[1].Name, "found %d models, only single model files are supported", len(f.Models))
	}
	model := f.Models[0]

	imp := &importer{
		m:        hw.New(),
		opts:     *opts,
		log:      opts.Logger,
		clocks:   make(map[string]bool),
		ffClocks: make(map[string]bool),
	}
	if imp.log == nil {
		imp.log = slog.New(slog.DiscardHandler)
	}
	imp.log = imp.log.With("model", model.Name)

	if err = imp.inputs(model.Inputs); err != nil {
		return nil, err
	}
	if err = imp.outputs(model.Outputs); err != nil {
		return nil, err
	}
	for _, c := range model.Commands {
		switch c := c.(type) {
		case *Names:
			err = imp.cover(c)
		case *Latch:
			err = imp.latch(c)
		case *Subckt:
			err = imp.subckt(c)
		default:
			err = errors.Errorf("unknown command type %T", c)
		}
		if err != nil {
			return nil, err
		}
	}
	if err = imp.m.Check(); err != nil {
		return nil, err
	}
	return &Result{
		Module:     imp.m,
		Name:       model.Name,
		Clocks:     keys(imp.clocks),
		FlopClocks: keys(imp.ffClocks),
	}, nil
}

func keys(m map[string]bool) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// group is a set of port names sharing the same base name.
//
type group struct {
	base  string
	names []string
}

// groups groups port names by base name, in order of first appearance.
//
func groups(names []string) []*group {
	var gs []*group
	idx := make(map[string]*group)
	for _, n := range names {
		base, _, _ := hw.SplitBusName(n)
		g := idx[base]
		if g == nil {
			g = &group{base: base}
			idx[base] = g
			gs = append(gs, g)
		}
		g.names = append(g.names, n)
	}
	return gs
}

// vector reports whether the names of g are exactly base[0] .. base[n-1], with
// n > 1.
//
func (g *group) vector() bool {
	if len(g.names) < 2 {
		return false
	}
	seen := make([]bool, len(g.names))
	for _, n := range g.names {
		_, i, ok := hw.SplitBusName(n)
		if !ok || i >= len(seen) || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

func (imp *importer) inputs(names []string) error {
	var data []string
	for _, n := range names {
		if n == imp.opts.ClockName {
			imp.clocks[n] = true
			imp.log.Debug("clock input", "name", n)
			continue
		}
		data = append(data, n)
	}
	for _, g := range groups(data) {
		if imp.opts.BundleVectors && g.vector() {
			imp.log.Debug("bundled input vector", "name", g.base, "width", len(g.names))
			if _, _, err := hl.InputN(imp.m, g.base, len(g.names)); err != nil {
				return err
			}
			continue
		}
		for _, n := range g.names {
			if _, err := hl.Input(imp.m, n); err != nil {
				return err
			}
		}
	}
	return nil
}

func (imp *importer) outputs(names []string) error {
	for _, g := range groups(names) {
		if imp.opts.BundleVectors && g.vector() {
			imp.log.Debug("bundled output vector", "name", g.base, "width", len(g.names))
			if _, _, err := hl.OutputN(imp.m, g.base, len(g.names)); err != nil {
				return err
			}
			continue
		}
		for _, n := range g.names {
			if _, err := hl.Output(imp.m, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// signal returns the signal with the given name, creating a 1 bit wire on
// first reference. Clocks cannot be used as data.
//
func (imp *importer) signal(name string) (hw.SignalID, error) {
	if imp.clocks[name] {
		return hw.NoSignal, hw.StructureError(name, "clock used as data signal")
	}
	return imp.m.WireOrNew(name), nil
}

func (imp *importer) signals(names []string) ([]hw.SignalID, error) {
	ids := make([]hw.SignalID, len(names))
	for i, n := range names {
		id, err := imp.signal(n)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func (imp *importer) cover(n *Names) error {
	g := Recognize(n, func(s string) bool { return imp.clocks[s] })
	switch g.Kind {
	case Unsupported:
		return errors.WithStack(&hw.UnsupportedLogicError{
			Line:      n.Line,
			Construct: ".names " + strings.Join(n.Signals, " ") + " " + n.Cover.String(),
		})
	case ClockAlias:
		imp.clocks[g.Out] = true
		imp.log.Debug("clock alias", "name", g.Out, "clock", g.Ins[0])
		return nil
	}

	ins, err := imp.signals(g.Ins)
	if err != nil {
		return err
	}
	out, err := imp.signal(g.Out)
	if err != nil {
		return err
	}
	m := imp.m
	switch g.Kind {
	case Const0:
		_, err = hl.Const(m, 0, 1, out)
	case Const1:
		_, err = hl.Const(m, 1, 1, out)
	case Wire:
		_, err = hl.Buf(m, ins[0], out)
	case Not:
		_, err = hl.Not(m, ins[0], out)
	case And:
		_, err = hl.And(m, ins[0], ins[1], out)
	case Nor:
		_, err = hl.Nor(m, ins[0], ins[1], out)
	case Or:
		_, err = hl.Or(m, ins[0], ins[1], out)
	case Xor:
		_, err = hl.Xor(m, ins[0], ins[1], out)
	case Mux:
		_, err = hl.Mux(m, ins[2], ins[0], ins[1], out)
	case MuxNor:
		var ns, nab hw.SignalID
		if ns, err = hl.Not(m, ins[2], hw.NoSignal); err != nil {
			return err
		}
		if nab, err = hl.Nand(m, ins[0], ins[1], hw.NoSignal); err != nil {
			return err
		}
		_, err = hl.And(m, ns, nab, out)
	default:
		return errors.Errorf("unhandled gate kind %v", g.Kind)
	}
	if err != nil {
		return err
	}
	if !imp.opts.VerifyCovers {
		return nil
	}
	onset := make([]string, len(n.Cover))
	for i, r := range n.Cover {
		onset[i] = r.In
	}
	ok, err := equiv.Cover(m, ins, out, onset)
	if err != nil {
		return errors.Wrapf(err, "line %d: verify %s gate", n.Line, g.Kind)
	}
	if !ok {
		return hw.StructureError(g.Out, "line %d: %s gate does not match its cover", n.Line, g.Kind)
	}
	return nil
}

// flop builds a positive edge triggered flip-flop. The clock pin is recorded
// but otherwise ignored.
//
func (imp *importer) flop(d, q, clk string) error {
	imp.ffClocks[clk] = true
	dd, err := imp.signal(d)
	if err != nil {
		return err
	}
	qq, err := imp.signal(q)
	if err != nil {
		return err
	}
	return hl.DFF(imp.m, dd, qq)
}

func (imp *importer) latch(l *Latch) error {
	if l.Type != "re" {
		c := ".latch " + l.Input + " " + l.Output
		if l.Type != "" {
			c += " " + l.Type + " " + l.Control
		}
		return errors.WithStack(&hw.UnsupportedLogicError{Line: l.Line, Construct: c})
	}
	if l.Init == 1 {
		return errors.WithStack(&hw.UnsupportedLogicError{Line: l.Line, Construct: ".latch " + l.Output + " with initial value 1"})
	}
	return imp.flop(l.Input, l.Output, l.Control)
}

// flip-flop subcircuits and their formals.
//
var dffModels = map[string][]string{
	"$_DFF_PN0_": {"C", "R", "D", "Q"},
	"$_DFF_PP0_": {"C", "R", "D", "Q"},
	"$_DFF_P_":   {"C", "D", "Q"},
}

func (imp *importer) subckt(s *Subckt) error {
	unsupported := func(what string) error {
		return errors.WithStack(&hw.UnsupportedLogicError{Line: s.Line, Construct: ".subckt " + s.Model + what})
	}
	formals, ok := dffModels[s.Model]
	if !ok {
		return unsupported("")
	}
	if len(s.Conns) != len(formals) {
		return unsupported(": bad connection count")
	}
	for _, f := range formals {
		if _, ok := s.Actual(f); !ok {
			return unsupported(": missing formal " + f)
		}
	}
	c, _ := s.Actual("C")
	d, _ := s.Actual("D")
	q, _ := s.Actual("Q")
	if r, ok := s.Actual("R"); ok {
		imp.log.Warn("asynchronous reset not modeled", "flop", q, "reset", r, "line", s.Line)
	}
	return imp.flop(d, q, c)
}
