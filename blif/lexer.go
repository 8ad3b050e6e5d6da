// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package blif

import (
	"io"
	"strings"

	"github.com/db47h/hwconv/internal/lex"
)

// Tokens
const (
	EOF     lex.Type = lex.EOF
	Newline lex.Type = iota
	Keyword          // .model, .names, ...
	Ident            // signal or model name
	Atom             // cover atom: a word over {0, 1, -}
	Int              // decimal number other than a cover atom
	Equal
)

const (
	identStart = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ$:[]_<>\\/"
	identRest  = identStart + "0123456789."
)

func isIdentStart(r rune) bool { return strings.ContainsRune(identStart, r) }
func isIdentRest(r rune) bool  { return strings.ContainsRune(identRest, r) }
func isSpace(r rune) bool      { return r == ' ' || r == '\t' || r == '\r' || r == '\f' || r == '\v' }

func isWord(r rune) bool {
	return r != lex.EOF && r != '#' && r != '=' && r != '\n' && !isSpace(r)
}

// Lexer returns a new BLIF lexer. Newline tokens are emitted at the end of
// each logical line; comments and escaped newlines are skipped.
//
func Lexer(r io.Reader) lex.Interface {
	return lex.New(r, lexInit)
}

func lexInit(l *lex.Lexer) lex.StateFn {
	r := l.Next()
	switch {
	case r == lex.EOF:
		return lexEOF
	case r == '\n':
		l.Emit(Newline, "newline")
	case isSpace(r):
		l.AcceptWhile(isSpace)
	case r == '#':
		l.AcceptWhile(func(r rune) bool { return r != '\n' })
	case r == '=':
		l.Emit(Equal, "=")
	case r == '.':
		l.Emit(Keyword, "."+l.AcceptWhile(isWord))
	case r == '\\':
		n := l.Next()
		if n == '\r' {
			n = l.Next()
		}
		if n == '\n' {
			// line continuation
			return nil
		}
		l.Backup()
		return lexIdent('\\')
	case isIdentStart(r):
		return lexIdent(r)
	default:
		return lexAtom
	}
	return nil
}

func lexIdent(first rune) lex.StateFn {
	return func(l *lex.Lexer) lex.StateFn {
		return scanIdent(l, first)
	}
}

func scanIdent(l *lex.Lexer, first rune) lex.StateFn {
	var buf strings.Builder
	buf.Grow(8)
	buf.WriteRune(first)
	for {
		r := l.Next()
		if r == '\\' {
			n := l.Next()
			if n == '\n' {
				// continuation right after the identifier
				l.Emit(Ident, buf.String())
				return nil
			}
			l.Backup()
		} else if !isIdentRest(r) {
			l.Backup()
			break
		}
		buf.WriteRune(r)
	}
	if r := l.Peek(); isWord(r) {
		l.Errorf("invalid character %q in identifier", r)
		return lexEOF
	}
	l.Emit(Ident, buf.String())
	return nil
}

func lexAtom(l *lex.Lexer) lex.StateFn {
	w := string(l.Current()) + l.AcceptWhile(isWord)
	switch {
	case strings.Trim(w, "01-") == "":
		l.Emit(Atom, w)
	case strings.Trim(w, "0123456789") == "":
		l.Emit(Int, w)
	default:
		l.Errorf("invalid token %q", w)
		return lexEOF
	}
	return nil
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *lex.Lexer) lex.StateFn {
	l.Emit(lex.EOF, "end of input")
	return lexEOF
}
