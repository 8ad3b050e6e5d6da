// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command hwconv converts a flattened BLIF netlist into a synthesizable
// Verilog module, with an optional testbench and graph renderings.
//
//	hwconv [options] input.blif
//
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	hw "github.com/db47h/hwconv"
	"github.com/db47h/hwconv/blif"
	"github.com/db47h/hwconv/export"
	"github.com/db47h/hwconv/internal/config"
	"github.com/db47h/hwconv/internal/ctxlog"
	"github.com/db47h/hwconv/verilog"
	"github.com/pkg/errors"
)

// exitError is an error with a specific exit code.
//
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func usageError(format string, args ...interface{}) error {
	return &exitError{code: 2, msg: fmt.Sprintf(format, args...)}
}

type options struct {
	config   string
	out      string
	tb       string
	cycles   int
	seed     int64
	tgf      string
	dot      string
	wave     string
	module   string
	noBundle bool
	verify   bool
	logLevel string
	input    string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	var o options
	fs := flag.NewFlagSet("hwconv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, "Usage:\n  hwconv [options] input.blif\n\nOptions:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&o.config, "config", "", "HCL configuration `file`")
	fs.StringVar(&o.out, "o", "-", "Verilog output `file`, - for stdout")
	fs.StringVar(&o.tb, "tb", "", "write a testbench to `file`")
	fs.IntVar(&o.cycles, "cycles", 10, "number of simulated testbench cycles")
	fs.Int64Var(&o.seed, "seed", 1, "random seed of testbench stimuli")
	fs.StringVar(&o.tgf, "tgf", "", "write the netlist graph in Trivial Graph Format to `file`")
	fs.StringVar(&o.dot, "dot", "", "write the netlist graph in Graphviz format to `file`")
	fs.StringVar(&o.wave, "wave", "", "write the testbench waveform as WaveDrom HTML to `file`")
	fs.StringVar(&o.module, "module", "", "Verilog module `name`")
	fs.BoolVar(&o.noBundle, "no-bundle", false, "do not bundle indexed ports into vectors")
	fs.BoolVar(&o.verify, "verify", false, "prove every gate against its cover")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil
		}
		return nil, &exitError{code: 2, msg: err.Error()}
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, usageError("expected exactly one input file")
	}
	o.input = fs.Arg(0)
	if o.cycles < 0 {
		return nil, usageError("invalid cycle count %d", o.cycles)
	}
	return &o, nil
}

func logLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return l, usageError("invalid log-level %q", s)
	}
	return l, nil
}

// create opens the named output file. "-" is stdout.
//
func create(name string, stdout io.Writer) (io.Writer, func() error, error) {
	if name == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	return f, f.Close, nil
}

func writeFile(name string, stdout io.Writer, write func(io.Writer) error) (err error) {
	w, closer, err := create(name, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer(); err == nil {
			err = errors.WithStack(cerr)
		}
	}()
	return errors.Wrap(write(w), name)
}

func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	o, err := parseArgs(args, stderr)
	if o == nil || err != nil {
		return err
	}
	lvl, err := logLevel(o.logLevel)
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))
	ctx = ctxlog.WithLogger(ctx, log)

	cfg := config.Default()
	if o.config != "" {
		if cfg, err = config.Load(ctx, o.config, o.input); err != nil {
			return err
		}
	}
	if o.noBundle {
		cfg.BundleVectors = false
	}
	if o.verify {
		cfg.VerifyCovers = true
	}
	if o.module != "" {
		cfg.ModuleName = o.module
	}

	res, err := convert(ctx, o, cfg)
	if err != nil {
		return err
	}
	m := res.Module

	vw, err := verilog.NewWriter(m, cfg.VerilogOptions())
	if err != nil {
		return err
	}
	if err = writeFile(o.out, stdout, vw.WriteModule); err != nil {
		return err
	}

	if o.tb != "" || o.wave != "" {
		trace, err := hw.RandomRun(m, o.cycles, rand.New(rand.NewSource(o.seed)))
		if err != nil {
			return err
		}
		log.Debug("simulated testbench stimuli", "cycles", o.cycles, "seed", o.seed)
		if o.tb != "" {
			err = writeFile(o.tb, stdout, func(w io.Writer) error { return vw.WriteTestbench(w, trace) })
			if err != nil {
				return err
			}
		}
		if o.wave != "" {
			err = writeFile(o.wave, stdout, func(w io.Writer) error { return export.WaveDrom(w, m, trace, ports(m)) })
			if err != nil {
				return err
			}
		}
	}
	if o.tgf != "" {
		if err = writeFile(o.tgf, stdout, func(w io.Writer) error { return export.TrivialGraph(w, m) }); err != nil {
			return err
		}
	}
	if o.dot != "" {
		if err = writeFile(o.dot, stdout, func(w io.Writer) error { return export.Graphviz(w, m) }); err != nil {
			return err
		}
	}
	return nil
}

func convert(ctx context.Context, o *options, cfg *config.Config) (*blif.Result, error) {
	log := ctxlog.FromContext(ctx)
	f, err := os.Open(o.input)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	res, err := blif.Import(f, cfg.BlifOptions(log))
	if err != nil {
		return nil, errors.Wrap(err, o.input)
	}
	log.Info("imported model",
		"model", res.Name,
		"signals", res.Module.Len(),
		"nets", len(res.Module.Nets()),
		"clocks", res.Clocks,
		"flop_clocks", res.FlopClocks)
	return res, nil
}

// ports returns the names of the input and output ports of m.
//
func ports(m *hw.Module) []string {
	var ns []string
	for _, id := range m.Signals() {
		k := m.Signal(id).Kind
		if k.Has(hw.Input) || k.Has(hw.Output) {
			ns = append(ns, m.Name(id))
		}
	}
	return ns
}

func main() {
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "hwconv:", err)
		if e, ok := errors.Cause(err).(*exitError); ok {
			os.Exit(e.code)
		}
		os.Exit(1)
	}
}
