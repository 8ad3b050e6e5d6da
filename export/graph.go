// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package export renders modules as graphs and simulation traces as
// waveforms.
//
package export

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	hw "github.com/db47h/hwconv"
	"github.com/pkg/errors"
)

// A Node is a graph node: either a net, or a signal acting as a source or
// sink of the network.
//
type Node struct {
	Net    hw.NetID    // net index, -1 for signal nodes
	Signal hw.SignalID // signal of signal nodes, hw.NoSignal for net nodes
}

// IsNet reports whether n is a net node.
//
func (n Node) IsNet() bool { return n.Net >= 0 }

// An Edge is a signal connecting two nodes. From and To are node indices.
//
type Edge struct {
	From, To int
	Signal   hw.SignalID
}

// Graph is a graph representation of a module.
//
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// NetGraph returns the graph of module m.
//
// Nodes are all nets in creation order, followed by the signals driven by a
// net but never read, or read but never driven (inputs, constants and
// dangling outputs). Each connected signal becomes one edge per reading net,
// leaving its driver net or its own node, and a single edge to its own node
// if it is never read. Unconnected signals are omitted.
//
// If splitState is true, registers become nodes: edges leave the register
// node instead of the net updating it, and the net updating a register has
// an edge to it.
//
func NetGraph(m *hw.Module, splitState bool) *Graph {
	g := new(Graph)
	nets := m.Nets()
	readers := make(map[hw.SignalID][]int)
	drivers := make(map[hw.SignalID]int)
	for i := range nets {
		g.Nodes = append(g.Nodes, Node{Net: hw.NetID(i), Signal: hw.NoSignal})
		for _, a := range nets[i].Args {
			rs := readers[a]
			if len(rs) == 0 || rs[len(rs)-1] != i {
				readers[a] = append(rs, i)
			}
		}
		for _, d := range nets[i].Dests {
			drivers[d] = i
		}
	}

	for _, id := range m.Signals() {
		drv, driven := drivers[id]
		rs, read := readers[id]
		if !driven && !read {
			continue
		}
		if driven && read && !(splitState && m.Signal(id).Kind.Has(hw.Register)) {
			for _, to := range rs {
				g.Edges = append(g.Edges, Edge{From: drv, To: to, Signal: id})
			}
			continue
		}
		n := len(g.Nodes)
		g.Nodes = append(g.Nodes, Node{Net: -1, Signal: id})
		if driven {
			g.Edges = append(g.Edges, Edge{From: drv, To: n, Signal: id})
		}
		for _, to := range rs {
			g.Edges = append(g.Edges, Edge{From: n, To: to, Signal: id})
		}
	}
	return g
}

func opLabel(m *hw.Module, n *hw.Net) string {
	s := n.Op.String()
	switch n.Op {
	case hw.OpSelect:
		bits := make([]string, len(n.Bits))
		for i, b := range n.Bits {
			bits[i] = strconv.Itoa(b)
		}
		s += "(" + strings.Join(bits, ",") + ")"
	case hw.OpMemRead, hw.OpMemWrite:
		s += "(" + m.Memory(n.Mem).Name + ")"
	}
	return s
}

func tmp(name string) bool { return strings.HasPrefix(name, "tmp") }

// TrivialGraph writes the graph of m in Trivial Graph Format: one line per
// node, a "#" separator, then one line per edge. Nets are labeled with their
// operator, constants with their value and other signals with their name.
// Edges are labeled name/width. Temporary signals are not labeled.
//
func TrivialGraph(w io.Writer, m *hw.Module) error {
	g := NetGraph(m, false)
	nets := m.Nets()
	bw := bufio.NewWriter(w)
	for i, n := range g.Nodes {
		var label string
		switch {
		case n.IsNet():
			label = opLabel(m, &nets[n.Net])
		case m.Signal(n.Signal).Kind.Has(hw.Const):
			label = strconv.FormatUint(m.Signal(n.Signal).Value, 10)
		default:
			label = m.Name(n.Signal)
		}
		bw.WriteString(strconv.Itoa(i) + " " + label + "\n")
	}
	bw.WriteString("#\n")
	for _, e := range g.sortedEdges() {
		line := strconv.Itoa(e.From) + " " + strconv.Itoa(e.To)
		if s := m.Signal(e.Signal); !tmp(s.Name) {
			line += " " + s.Name + "/" + strconv.Itoa(s.Width)
		}
		bw.WriteString(line + "\n")
	}
	return errors.Wrap(bw.Flush(), "write graph")
}

const dotHeader = `digraph g {
    graph [splines="spline"];
    node [shape=circle, style=filled, fillcolor=lightblue1,
          fontcolor=grey, fontname=helvetica, penwidth=0,
          fixedsize=true];
    edge [labelfloat=false, penwidth=2, color=deepskyblue, arrowsize=.5];
`

var dotOpLabels = map[hw.Op]string{
	hw.OpAnd:  `[label="and"]`,
	hw.OpOr:   `[label="or"]`,
	hw.OpXor:  `[label="xor"]`,
	hw.OpNot:  `[label="not"]`,
	hw.OpMux:  `[label="mux"]`,
	hw.OpWire: `[label="buf"]`,
}

func dotNode(m *hw.Module, nets []hw.Net, n Node) string {
	if n.IsNet() {
		net := &nets[n.Net]
		if l, ok := dotOpLabels[net.Op]; ok {
			return l
		}
		switch net.Op {
		case hw.OpSelect, hw.OpConcat:
			return `[label="", height=.1, width=.1]`
		case hw.OpReg:
			return `[label="` + m.Name(net.Dests[0]) + `.next", shape=square, fillcolor=gold]`
		}
		return `[label="` + opLabel(m, net) + `"]`
	}
	s := m.Signal(n.Signal)
	switch {
	case s.Kind.Has(hw.Const):
		return `[label="` + strconv.FormatUint(s.Value, 10) + `", shape=circle, fillcolor=lightgrey]`
	case s.Kind.Has(hw.Input), s.Kind.Has(hw.Output):
		return `[label="` + s.Name + `", shape=circle, fillcolor=none]`
	case s.Kind.Has(hw.Register):
		return `[label="` + s.Name + `", shape=square, fillcolor=gold]`
	}
	return `[label="", shape=circle, fillcolor=none]`
}

func dotEdge(m *hw.Module, id hw.SignalID, toSplitMerge bool) string {
	s := m.Signal(id)
	name := ""
	if !tmp(s.Name) && s.Kind&(hw.Input|hw.Output|hw.Const|hw.Register) == 0 {
		name = s.Name + "/" + strconv.Itoa(s.Width)
	}
	pen := "2"
	if s.Width > 1 {
		pen = "6"
	}
	arrow := "normal"
	if toSplitMerge {
		arrow = "none"
	}
	return `[label="` + name + `", penwidth="` + pen + `", arrowhead="` + arrow + `"]`
}

// Graphviz writes the graph of m in Graphviz dot format. Registers are split
// into their own node.
//
func Graphviz(w io.Writer, m *hw.Module) error {
	g := NetGraph(m, true)
	nets := m.Nets()
	bw := bufio.NewWriter(w)
	bw.WriteString(dotHeader)
	for i, n := range g.Nodes {
		bw.WriteString("    n" + strconv.Itoa(i) + " " + dotNode(m, nets, n) + ";\n")
	}
	for _, e := range g.sortedEdges() {
		to := g.Nodes[e.To]
		splitMerge := to.IsNet() && (nets[to.Net].Op == hw.OpSelect || nets[to.Net].Op == hw.OpConcat)
		bw.WriteString("    n" + strconv.Itoa(e.From) + " -> n" + strconv.Itoa(e.To) + " " + dotEdge(m, e.Signal, splitMerge) + ";\n")
	}
	bw.WriteString("}\n")
	return errors.Wrap(bw.Flush(), "write graph")
}

// sortedEdges returns the edges of g sorted by source then destination node.
//
func (g *Graph) sortedEdges() []Edge {
	es := append([]Edge(nil), g.Edges...)
	sort.SliceStable(es, func(i, j int) bool {
		if es[i].From != es[j].From {
			return es[i].From < es[j].From
		}
		return es[i].To < es[j].To
	})
	return es
}
