// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package lex provides a state function based lexer engine.
//
// A lexer is a chain of state functions. Each state function consumes input
// runes, emits zero or more items and returns the next state. A nil state
// returns control to the initial state, and the start of the next item is
// reset to the current position.
//
package lex

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"
)

// EOF is the rune returned by Next at end of input, and the item type emitted
// by lexers in their end of input state.
//
const EOF = -1

// Error is the type of items emitted by Errorf.
//
const Error Type = -2

// Type is the type of a lexical item.
//
type Type int

// Pos is a byte offset in the input.
//
type Pos int

// Item is a lexical item.
//
type Item struct {
	Type  Type
	Pos   Pos
	Value interface{}
}

func (i Item) String() string {
	switch v := i.Value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case rune:
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprint(i.Value)
}

// Interface is the interface implemented by lexers.
//
type Interface interface {
	// Lex returns the next item in the input stream.
	Lex() Item
	// Position returns the 1-based line and column of pos.
	Position(pos Pos) (line, col int)
}

// StateFn is a lexer state function.
//
type StateFn func(l *Lexer) StateFn

// Lexer is the lexer engine.
//
type Lexer struct {
	r     io.RuneReader
	init  StateFn
	state StateFn
	items []Item
	nl    []Pos // offsets of newlines read so far

	pos   Pos // offset of the next rune
	start Pos // start of the current item
	cur   rune
	sz    int
	back  bool
	err   error
}

// New returns a new lexer reading from r. init is the initial state.
//
func New(r io.Reader, init StateFn) *Lexer {
	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	return &Lexer{r: rr, init: init}
}

// Lex implements Interface.
//
func (l *Lexer) Lex() Item {
	for len(l.items) == 0 {
		if l.state == nil {
			l.start = l.pos
			l.state = l.init
		}
		l.state = l.state(l)
	}
	i := l.items[0]
	l.items = l.items[1:]
	return i
}

// Position implements Interface.
//
func (l *Lexer) Position(pos Pos) (line, col int) {
	n := sort.Search(len(l.nl), func(i int) bool { return l.nl[i] >= pos })
	if n == 0 {
		return 1, int(pos) + 1
	}
	return n + 1, int(pos - l.nl[n-1])
}

// Next returns the next rune in the input stream, or EOF. A read error other
// than io.EOF is reported as an Error item.
//
func (l *Lexer) Next() rune {
	if l.back {
		l.back = false
		l.pos += Pos(l.sz)
		return l.cur
	}
	if l.err != nil {
		l.cur, l.sz = EOF, 0
		return EOF
	}
	r, sz, err := l.r.ReadRune()
	if err != nil {
		l.err = err
		if err != io.EOF {
			l.Errorf("read error: %v", err)
		}
		l.cur, l.sz = EOF, 0
		return EOF
	}
	if r == utf8.RuneError && sz == 1 {
		l.Errorf("invalid UTF-8 encoding")
	}
	if r == '\n' && (len(l.nl) == 0 || l.nl[len(l.nl)-1] < l.pos) {
		l.nl = append(l.nl, l.pos)
	}
	l.cur, l.sz = r, sz
	l.pos += Pos(sz)
	return r
}

// Backup reverts the last call to Next. Only one level of backup is
// supported.
//
func (l *Lexer) Backup() {
	if l.back {
		panic("lex: Backup called twice")
	}
	l.back = true
	l.pos -= Pos(l.sz)
}

// Peek returns the next rune without consuming it.
//
func (l *Lexer) Peek() rune {
	r := l.Next()
	l.Backup()
	return r
}

// Current returns the last rune returned by Next.
//
func (l *Lexer) Current() rune {
	return l.cur
}

// AcceptWhile consumes runes while f returns true. It returns the accepted
// runes.
//
func (l *Lexer) AcceptWhile(f func(rune) bool) string {
	var buf []rune
	r := l.Next()
	for r != EOF && f(r) {
		buf = append(buf, r)
		r = l.Next()
	}
	l.Backup()
	return string(buf)
}

// Start returns the offset of the start of the current item.
//
func (l *Lexer) Start() Pos {
	return l.start
}

// Emit emits a new item of the given type and value, positioned at the start
// of the current item. The start of the next item is set to the current
// position.
//
func (l *Lexer) Emit(t Type, value interface{}) {
	l.items = append(l.items, Item{Type: t, Pos: l.start, Value: value})
	l.start = l.pos
}

// Errorf emits an Error item with the formatted message.
//
func (l *Lexer) Errorf(format string, args ...interface{}) {
	l.items = append(l.items, Item{Type: Error, Pos: l.start, Value: fmt.Sprintf(format, args...)})
}
