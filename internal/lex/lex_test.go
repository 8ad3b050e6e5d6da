package lex_test

import (
	"strings"
	"testing"
	"unicode"

	"github.com/db47h/hwconv/internal/lex"
)

const (
	tEOF  lex.Type = lex.EOF
	tWord lex.Type = iota
	tNum
)

func lexInit(l *lex.Lexer) lex.StateFn {
	r := l.Next()
	switch {
	case r == lex.EOF:
		return lexEOF
	case unicode.IsSpace(r):
		l.AcceptWhile(unicode.IsSpace)
	case unicode.IsDigit(r):
		l.Backup()
		return lexNum
	default:
		l.Emit(tWord, string(r)+l.AcceptWhile(func(r rune) bool { return !unicode.IsSpace(r) }))
	}
	return nil
}

func lexNum(l *lex.Lexer) lex.StateFn {
	l.Emit(tNum, l.AcceptWhile(unicode.IsDigit))
	return nil
}

func lexEOF(l *lex.Lexer) lex.StateFn {
	l.Emit(tEOF, "end of input")
	return lexEOF
}

func TestLexer(t *testing.T) {
	in := "foo 42\n  bar\n\nbaz"
	l := lex.New(strings.NewReader(in), lexInit)
	td := []struct {
		typ       lex.Type
		val       string
		line, col int
	}{
		{tWord, "foo", 1, 1},
		{tNum, "42", 1, 5},
		{tWord, "bar", 2, 3},
		{tWord, "baz", 4, 1},
		{tEOF, "end of input", 4, 4},
		{tEOF, "end of input", 4, 4},
	}
	for _, d := range td {
		i := l.Lex()
		if i.Type != d.typ || i.Value != d.val {
			t.Fatalf("expected %d %q, got %d %v", d.typ, d.val, i.Type, i)
		}
		if line, col := l.Position(i.Pos); line != d.line || col != d.col {
			t.Errorf("%q: expected %d:%d, got %d:%d", d.val, d.line, d.col, line, col)
		}
	}
}

func TestLexer_backup(t *testing.T) {
	l := lex.New(strings.NewReader("ab"), lexInit)
	if r := l.Next(); r != 'a' {
		t.Fatalf("expected 'a', got %q", r)
	}
	if r := l.Peek(); r != 'b' {
		t.Fatalf("expected 'b', got %q", r)
	}
	if r := l.Current(); r != 'b' {
		t.Fatalf("expected current 'b', got %q", r)
	}
	if r := l.Next(); r != 'b' {
		t.Fatalf("expected 'b', got %q", r)
	}
	if r := l.Next(); r != lex.EOF {
		t.Fatalf("expected EOF, got %q", r)
	}
}

func TestLexer_badUTF8(t *testing.T) {
	l := lex.New(strings.NewReader("\xff"), lexInit)
	if i := l.Lex(); i.Type != lex.Error {
		t.Fatalf("expected error item, got %v", i)
	}
}
