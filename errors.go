// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwconv

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// A GrammarError reports malformed input text. Line and Col are 1-based.
//
type GrammarError struct {
	Line int
	Col  int
	Msg  string
}

func (e *GrammarError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ", col " + strconv.Itoa(e.Col) + ": " + e.Msg
}

// An UnsupportedLogicError reports a construct that has no netlist
// translation: an unrecognized cover, an unknown flip-flop form or an unknown
// command keyword.
//
type UnsupportedLogicError struct {
	Line      int
	Construct string
}

func (e *UnsupportedLogicError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": unsupported logic: " + e.Construct
}

// A ModelStructureError reports a netlist that violates a structural rule.
// Name is the offending signal, memory or model name and may be empty.
//
type ModelStructureError struct {
	Name string
	Msg  string
}

func (e *ModelStructureError) Error() string {
	if e.Name == "" {
		return e.Msg
	}
	return strconv.Quote(e.Name) + ": " + e.Msg
}

// An UnsupportedOperatorError is returned by exporters that have no
// translation rule for a net operator.
//
type UnsupportedOperatorError struct {
	Op Op
}

func (e *UnsupportedOperatorError) Error() string {
	return "nets with op '" + e.Op.String() + "' not supported"
}

// structErr returns a *ModelStructureError with a stack trace attached.
//
func structErr(name, msg string) error {
	return errors.WithStack(&ModelStructureError{Name: name, Msg: msg})
}

// StructureError returns a new *ModelStructureError for the given name. The
// returned error records a stack trace.
//
func StructureError(name, format string, args ...interface{}) error {
	return structErr(name, fmt.Sprintf(format, args...))
}
