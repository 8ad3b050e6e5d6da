package ident_test

import (
	"strconv"
	"testing"
	"testing/quick"

	hw "github.com/db47h/hwconv"
	"github.com/db47h/hwconv/ident"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"
	digits  = "0123456789"
)

var rules = ident.Rules{
	First:    letters,
	Rest:     letters + digits,
	Reserved: []string{"wire", "reg", "module"},
	MaxLen:   16,
}

func TestSanitizer(t *testing.T) {
	s, err := ident.New(rules, "_tmp_")
	require.NoError(t, err)

	td := []struct {
		in, out string
	}{
		{"a", "a"},
		{"foo_bar9", "foo_bar9"},
		{"a[0]", "_tmp_0"},
		{"wire", "_tmp_1"},
		{"9lives", "_tmp_2"},
		{"a", "a"},
		{"a[0]", "_tmp_0"},
		{"averyveryverylongname", "_tmp_3"},
		{"", "_tmp_4"},
		// legal but already claimed by a fallback
		{"_tmp_0", "_tmp_5"},
		{"_tmp_5", "_tmp_6"},
	}
	for _, d := range td {
		got, err := s.Name(d.in)
		require.NoError(t, err)
		assert.Equal(t, d.out, got, "name %q", d.in)
	}
	got, ok := s.Lookup("9lives")
	assert.True(t, ok)
	assert.Equal(t, "_tmp_2", got)
	_, ok = s.Lookup("nope")
	assert.False(t, ok)
}

func TestSanitizer_reserve(t *testing.T) {
	s, err := ident.New(rules, "_tmp_")
	require.NoError(t, err)
	require.NoError(t, s.Reserve("clk"))
	assert.Error(t, s.Reserve("clk"))
	assert.Error(t, s.Reserve("wire"))

	got, err := s.Name("clk")
	require.NoError(t, err)
	assert.Equal(t, "_tmp_0", got)

	require.NoError(t, s.Reserve("_tmp_1"))
	got, err = s.Name("x y")
	require.NoError(t, err)
	assert.Equal(t, "_tmp_2", got)
}

func TestSanitizer_map(t *testing.T) {
	s, err := ident.New(rules, "_tmp_")
	require.NoError(t, err)
	m, err := s.Map("\x00mem0", "mem_0")
	require.NoError(t, err)
	assert.Equal(t, "mem_0", m)
	n, err := s.Name("mem_0")
	require.NoError(t, err)
	assert.NotEqual(t, m, n)
}

func TestNew_badPrefix(t *testing.T) {
	for _, p := range []string{"", "9x", "wire", "a-b", "averyveryverylongprefix"} {
		_, err := ident.New(rules, p)
		var e *hw.ModelStructureError
		if !errors.As(err, &e) {
			t.Errorf("prefix %q: expected ModelStructureError, got %v", p, err)
		}
	}
}

func TestSanitizer_exhausted(t *testing.T) {
	r := rules
	r.MaxLen = 3
	s, err := ident.New(r, "_t")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err = s.Name(strconv.Itoa(i))
		require.NoError(t, err)
	}
	_, err = s.Name("10")
	var e *hw.ModelStructureError
	require.True(t, errors.As(err, &e), "got %v", err)
	assert.Equal(t, "10", e.Name)
}

func TestSanitizer_unique(t *testing.T) {
	f := func(names []string) bool {
		r := ident.Rules{First: letters, Rest: letters + digits, Reserved: rules.Reserved}
		s, err := ident.New(r, "_tmp_")
		if err != nil {
			t.Fatal(err)
		}
		ext := make(map[string]string)
		for _, n := range names {
			e, err := s.Name(n)
			if err != nil || !r.Legal(e) {
				return false
			}
			for _, w := range rules.Reserved {
				if e == w {
					return false
				}
			}
			if prev, ok := ext[e]; ok && prev != n {
				return false
			}
			ext[e] = n
			again, _ := s.Name(n)
			if again != e {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}
