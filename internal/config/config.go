// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads conversion settings from HCL files.
//
// Expressions in a configuration file can refer to the file being converted
// through the input object: input.name is its base name without extension
// and input.path its path as given on the command line.
//
//	module_name = input.name
//	clock       = "clk"
//
//	testbench {
//		half_period = 5
//		dumpfile    = "${input.name}.vcd"
//	}
//
package config

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/db47h/hwconv/blif"
	"github.com/db47h/hwconv/internal/ctxlog"
	"github.com/db47h/hwconv/verilog"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

//go:embed schema.cue
var schemaFS embed.FS

// Config holds the conversion settings.
//
type Config struct {
	BundleVectors bool
	Clock         string
	VerifyCovers  bool
	ModuleName    string
	TmpPrefix     string
	Testbench     Testbench
}

// Testbench holds the testbench settings.
//
type Testbench struct {
	HalfPeriod int
	CycleDelay int
	DumpFile   string
}

// Default returns the default settings.
//
func Default() *Config {
	b, v := blif.DefaultOptions(), verilog.DefaultOptions()
	return &Config{
		BundleVectors: b.BundleVectors,
		Clock:         b.ClockName,
		VerifyCovers:  b.VerifyCovers,
		ModuleName:    v.ModuleName,
		TmpPrefix:     v.TmpPrefix,
		Testbench: Testbench{
			HalfPeriod: v.HalfPeriod,
			CycleDelay: v.CycleDelay,
			DumpFile:   v.DumpFile,
		},
	}
}

// file is the decoded form of a configuration file. Attributes not set are
// nil.
//
type file struct {
	BundleVectors *bool          `hcl:"bundle_vectors,optional" json:"bundle_vectors,omitempty"`
	Clock         *string        `hcl:"clock,optional" json:"clock,omitempty"`
	VerifyCovers  *bool          `hcl:"verify_covers,optional" json:"verify_covers,omitempty"`
	ModuleName    *string        `hcl:"module_name,optional" json:"module_name,omitempty"`
	TmpPrefix     *string        `hcl:"tmp_prefix,optional" json:"tmp_prefix,omitempty"`
	Testbench     *testbenchFile `hcl:"testbench,block" json:"testbench,omitempty"`
}

type testbenchFile struct {
	HalfPeriod *int    `hcl:"half_period,optional" json:"half_period,omitempty"`
	CycleDelay *int    `hcl:"cycle_delay,optional" json:"cycle_delay,omitempty"`
	DumpFile   *string `hcl:"dumpfile,optional" json:"dumpfile,omitempty"`
}

func evalContext(input string) *hcl.EvalContext {
	name := filepath.Base(input)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"input": cty.ObjectVal(map[string]cty.Value{
				"name": cty.StringVal(name),
				"path": cty.StringVal(input),
			}),
		},
	}
}

// Load reads the configuration file at path. input is the path of the file
// being converted.
//
func Load(ctx context.Context, path, input string) (*Config, error) {
	ctxlog.FromContext(ctx).Debug("loading configuration", "path", path, "input", input)
	f, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parse %s", path)
	}
	return decode(f, path, input)
}

// Parse parses configuration source src. filename is used in error messages
// and input is the path of the file being converted.
//
func Parse(src []byte, filename, input string) (*Config, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parse %s", filename)
	}
	return decode(f, filename, input)
}

func decode(f *hcl.File, filename, input string) (*Config, error) {
	var raw file
	if diags := gohcl.DecodeBody(f.Body, evalContext(input), &raw); diags.HasErrors() {
		return nil, errors.Wrapf(diags, "decode %s", filename)
	}
	if err := validate(&raw); err != nil {
		return nil, errors.Wrap(err, filename)
	}

	c := Default()
	setBool(&c.BundleVectors, raw.BundleVectors)
	setString(&c.Clock, raw.Clock)
	setBool(&c.VerifyCovers, raw.VerifyCovers)
	setString(&c.ModuleName, raw.ModuleName)
	setString(&c.TmpPrefix, raw.TmpPrefix)
	if tb := raw.Testbench; tb != nil {
		setInt(&c.Testbench.HalfPeriod, tb.HalfPeriod)
		setInt(&c.Testbench.CycleDelay, tb.CycleDelay)
		setString(&c.Testbench.DumpFile, tb.DumpFile)
	}
	return c, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// validate checks a decoded file against the #Config schema.
//
func validate(raw *file) error {
	cc := cuecontext.New()
	src, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return errors.Wrap(err, "load schema")
	}
	schema := cc.CompileBytes(src)
	if err = schema.Err(); err != nil {
		return errors.Wrap(err, "compile schema")
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err = def.Err(); err != nil {
		return errors.Wrap(err, "lookup #Config")
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return errors.Wrap(err, "marshal configuration")
	}
	v := cc.CompileBytes(data)
	if err = v.Err(); err != nil {
		return errors.Wrap(err, "compile configuration")
	}
	if err = def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// BlifOptions returns the BLIF import options for c.
//
func (c *Config) BlifOptions(log *slog.Logger) *blif.Options {
	return &blif.Options{
		BundleVectors: c.BundleVectors,
		ClockName:     c.Clock,
		VerifyCovers:  c.VerifyCovers,
		Logger:        log,
	}
}

// VerilogOptions returns the Verilog writer options for c.
//
func (c *Config) VerilogOptions() *verilog.Options {
	o := verilog.DefaultOptions()
	o.ModuleName = c.ModuleName
	o.ClockName = c.Clock
	o.TmpPrefix = c.TmpPrefix
	o.HalfPeriod = c.Testbench.HalfPeriod
	o.CycleDelay = c.Testbench.CycleDelay
	o.DumpFile = c.Testbench.DumpFile
	return o
}
