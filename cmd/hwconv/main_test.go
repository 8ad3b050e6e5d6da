package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counter = `.model counter
.inputs clk en
.outputs q[0] q[1]
.names en q[0] d0
01 1
10 1
.names q[0] en t
11 1
.names t q[1] d1
01 1
10 1
.latch d0 q[0] re clk 0
.latch d1 q[1] re clk 0
.end
`

func writeInput(t *testing.T, dir, src string) string {
	t.Helper()
	p := filepath.Join(dir, "counter.blif")
	require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	return p
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, counter)
	cfg := filepath.Join(dir, "hwconv.hcl")
	require.NoError(t, os.WriteFile(cfg, []byte("module_name = input.name\n"), 0o644))
	tb, tgf, dot, wave := filepath.Join(dir, "tb.v"), filepath.Join(dir, "g.tgf"), filepath.Join(dir, "g.dot"), filepath.Join(dir, "w.html")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), &stdout, &stderr, []string{
		"-config", cfg, "-verify", "-tb", tb, "-cycles", "4", "-tgf", tgf, "-dot", dot, "-wave", wave, in,
	})
	require.NoError(t, err, stderr.String())

	v := stdout.String()
	assert.Contains(t, v, "module counter(en, q, clk);\n")
	assert.Contains(t, v, "    output[1:0] q;\n")
	assert.Equal(t, 2, strings.Count(v, " <= "))

	b, err := os.ReadFile(tb)
	require.NoError(t, err)
	assert.Contains(t, string(b), "    counter block(.en(en), .q(q), .clk(clk));\n")
	assert.Equal(t, 4, strings.Count(string(b), "        en = 1'd"))

	for _, f := range []string{tgf, dot, wave} {
		fi, err := os.Stat(f)
		require.NoError(t, err)
		assert.NotZero(t, fi.Size(), f)
	}
}

func TestRun_noBundle(t *testing.T) {
	in := writeInput(t, t.TempDir(), counter)
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), &stdout, &stderr, []string{"-no-bundle", "-module", "cnt", in}))
	assert.Contains(t, stdout.String(), "module cnt(en, _verout_tmp_0, _verout_tmp_1, clk);\n")
}

func TestRun_errors(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, ".model bad\n.inputs a\n.outputs y\n.names a y\n1 1\n0 0\n.end\n")
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), &stdout, &stderr, nil)
	var e *exitError
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 2, e.code)
	assert.Contains(t, stderr.String(), "Usage:")

	err = run(context.Background(), &stdout, &stderr, []string{"-log-level", "loud", in})
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 2, e.code)

	err = run(context.Background(), &stdout, &stderr, []string{in})
	assert.Error(t, err)
	assert.False(t, errors.As(err, &e))

	err = run(context.Background(), &stdout, &stderr, []string{filepath.Join(dir, "missing.blif")})
	assert.Error(t, err)

	assert.NoError(t, run(context.Background(), &stdout, &stderr, []string{"-h"}))
}
