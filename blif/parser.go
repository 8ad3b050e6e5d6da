// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package blif

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	hw "github.com/db47h/hwconv"
	"github.com/db47h/hwconv/internal/lex"
	"github.com/pkg/errors"
)

// File is a parsed BLIF file.
//
type File struct {
	Models []*Model
}

// Model is a BLIF model.
//
type Model struct {
	Line     int
	Name     string
	Inputs   []string
	Outputs  []string
	Commands []Command
}

// Command is one of *Names, *Latch or *Subckt.
//
type Command interface {
	Pos() int // line number
}

// A Row is a cover row: an input pattern over {0, 1, -} and an output
// value, '0' or '1'. In is empty for covers over a single signal.
//
type Row struct {
	In  string
	Out byte
}

func (r Row) String() string {
	if r.In == "" {
		return string(r.Out)
	}
	return r.In + " " + string(r.Out)
}

// Cover is a list of cover rows.
//
type Cover []Row

func (c Cover) String() string {
	s := make([]string, len(c))
	for i, r := range c {
		s[i] = r.String()
	}
	return "{" + strings.Join(s, ", ") + "}"
}

// Eval returns the value of the function described by the cover for the
// given input values. An empty cover is constant 0. If the rows have output
// value '0', the cover describes the off-set of the function.
//
func (c Cover) Eval(ins []bool) bool {
	if len(c) == 0 {
		return false
	}
	on := c[0].Out == '1'
	for _, r := range c {
		if match(r.In, ins) {
			return on
		}
	}
	return !on
}

func match(pattern string, ins []bool) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '1':
			if !ins[i] {
				return false
			}
		case '0':
			if ins[i] {
				return false
			}
		}
	}
	return true
}

// Names is a .names command: a logic function over Signals given as a cover.
// The last signal is the output.
//
type Names struct {
	Line    int
	Signals []string
	Cover   Cover
}

// Pos implements Command.
//
func (n *Names) Pos() int { return n.Line }

// Latch is a .latch command. Type and Control are empty if not specified.
// Init is -1 if not specified.
//
type Latch struct {
	Line    int
	Input   string
	Output  string
	Type    string
	Control string
	Init    int
}

// Pos implements Command.
//
func (l *Latch) Pos() int { return l.Line }

// Conn is a formal=actual subcircuit connection.
//
type Conn struct {
	Formal string
	Actual string
}

// Subckt is a .subckt command.
//
type Subckt struct {
	Line  int
	Model string
	Conns []Conn
}

// Pos implements Command.
//
func (s *Subckt) Pos() int { return s.Line }

// Actual returns the actual signal connected to the given formal.
//
func (s *Subckt) Actual(formal string) (string, bool) {
	for _, c := range s.Conns {
		if c.Formal == formal {
			return c.Actual, true
		}
	}
	return "", false
}

type parser struct {
	l lex.Interface
	i lex.Item
}

// Parse parses a BLIF file. Grammar errors are reported as
// *hwconv.GrammarError, unknown commands as *hwconv.UnsupportedLogicError.
//
func Parse(r io.Reader) (*File, error) {
	p := &parser{l: Lexer(r)}
	p.next()
	f := &File{}
	for {
		p.skipNewlines()
		if p.i.Type == EOF {
			break
		}
		m, err := p.model()
		if err != nil {
			return nil, err
		}
		f.Models = append(f.Models, m)
	}
	if len(f.Models) == 0 {
		return nil, p.errorf("expected .model")
	}
	return f, nil
}

func (p *parser) next() { p.i = p.l.Lex() }

func (p *parser) line() int {
	l, _ := p.l.Position(p.i.Pos)
	return l
}

func (p *parser) errorf(format string, args ...interface{}) error {
	l, c := p.l.Position(p.i.Pos)
	msg := fmt.Sprintf(format, args...)
	switch p.i.Type {
	case lex.Error:
		msg = p.i.Value.(string)
	case EOF:
		msg += ", got end of file"
	case Newline:
		msg += ", got end of line"
	default:
		msg += ", got " + p.i.String()
	}
	return errors.WithStack(&hw.GrammarError{Line: l, Col: c, Msg: msg})
}

func (p *parser) skipNewlines() {
	for p.i.Type == Newline {
		p.next()
	}
}

func (p *parser) keyword(kw string) bool {
	return p.i.Type == Keyword && p.i.Value.(string) == kw
}

func (p *parser) expectEOL() error {
	if p.i.Type != Newline && p.i.Type != EOF {
		return p.errorf("expected end of line")
	}
	return nil
}

// idents reads identifiers up to the end of the line.
//
func (p *parser) idents() ([]string, error) {
	var ids []string
	for p.i.Type == Ident {
		ids = append(ids, p.i.Value.(string))
		p.next()
	}
	return ids, p.expectEOL()
}

func (p *parser) model() (*Model, error) {
	if !p.keyword(".model") {
		return nil, p.errorf("expected .model")
	}
	m := &Model{Line: p.line()}
	p.next()
	if p.i.Type != Ident {
		return nil, p.errorf("expected model name")
	}
	m.Name = p.i.Value.(string)
	p.next()
	if err := p.expectEOL(); err != nil {
		return nil, err
	}

	var err error
	p.skipNewlines()
	if !p.keyword(".inputs") {
		return nil, p.errorf("expected .inputs")
	}
	p.next()
	if m.Inputs, err = p.idents(); err != nil {
		return nil, err
	}
	p.skipNewlines()
	if !p.keyword(".outputs") {
		return nil, p.errorf("expected .outputs")
	}
	p.next()
	if m.Outputs, err = p.idents(); err != nil {
		return nil, err
	}

	for {
		p.skipNewlines()
		if p.i.Type != Keyword {
			return nil, p.errorf("expected command or .end")
		}
		var c Command
		switch kw := p.i.Value.(string); kw {
		case ".end":
			if len(m.Commands) == 0 {
				return nil, p.errorf("expected command")
			}
			p.next()
			return m, p.expectEOL()
		case ".names":
			c, err = p.names()
		case ".latch":
			c, err = p.latch()
		case ".subckt":
			c, err = p.subckt()
		case ".model", ".inputs", ".outputs":
			return nil, p.errorf("expected command or .end")
		default:
			return nil, errors.WithStack(&hw.UnsupportedLogicError{Line: p.line(), Construct: kw})
		}
		if err != nil {
			return nil, err
		}
		m.Commands = append(m.Commands, c)
	}
}

func (p *parser) names() (*Names, error) {
	n := &Names{Line: p.line()}
	p.next()
	var err error
	if n.Signals, err = p.idents(); err != nil {
		return nil, err
	}
	if len(n.Signals) == 0 {
		return nil, p.errorf("expected signal name")
	}
	for {
		p.skipNewlines()
		if p.i.Type != Atom {
			return n, nil
		}
		var r Row
		if len(n.Signals) > 1 {
			r.In = p.i.Value.(string)
			if len(r.In) != len(n.Signals)-1 {
				return nil, p.errorf("expected %d inputs in cover row", len(n.Signals)-1)
			}
			p.next()
			if p.i.Type != Atom {
				return nil, p.errorf("expected cover output value")
			}
		}
		switch o := p.i.Value.(string); o {
		case "0", "1":
			r.Out = o[0]
		default:
			return nil, p.errorf("invalid cover output value")
		}
		if len(n.Cover) > 0 && n.Cover[0].Out != r.Out {
			return nil, p.errorf("mixed on-set and off-set cover rows")
		}
		p.next()
		if err = p.expectEOL(); err != nil {
			return nil, err
		}
		n.Cover = append(n.Cover, r)
	}
}

func (p *parser) latch() (*Latch, error) {
	l := &Latch{Line: p.line(), Init: -1}
	p.next()
	var toks []lex.Item
	for p.i.Type == Ident || p.i.Type == Atom || p.i.Type == Int {
		toks = append(toks, p.i)
		p.next()
	}
	if err := p.expectEOL(); err != nil {
		return nil, err
	}
	if len(toks) < 2 || len(toks) > 5 {
		return nil, p.errorf("expected .latch input output [type control] [init]")
	}
	if len(toks)%2 == 1 {
		iv := toks[len(toks)-1].Value.(string)
		v, err := strconv.Atoi(iv)
		if err != nil || len(iv) != 1 || v > 3 {
			p.i = toks[len(toks)-1]
			return nil, p.errorf("invalid latch initial value")
		}
		l.Init = v
		toks = toks[:len(toks)-1]
	}
	for _, t := range toks {
		if t.Type != Ident {
			p.i = t
			return nil, p.errorf("expected identifier")
		}
	}
	l.Input, l.Output = toks[0].Value.(string), toks[1].Value.(string)
	if len(toks) == 4 {
		l.Type, l.Control = toks[2].Value.(string), toks[3].Value.(string)
	}
	return l, nil
}

func (p *parser) subckt() (*Subckt, error) {
	s := &Subckt{Line: p.line()}
	p.next()
	if p.i.Type != Ident {
		return nil, p.errorf("expected subcircuit model name")
	}
	s.Model = p.i.Value.(string)
	p.next()
	for p.i.Type == Ident {
		c := Conn{Formal: p.i.Value.(string)}
		p.next()
		if p.i.Type != Equal {
			return nil, p.errorf("expected '='")
		}
		p.next()
		if p.i.Type != Ident {
			return nil, p.errorf("expected actual signal name")
		}
		c.Actual = p.i.Value.(string)
		p.next()
		s.Conns = append(s.Conns, c)
	}
	return s, p.expectEOL()
}
