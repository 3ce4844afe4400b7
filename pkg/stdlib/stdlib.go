// Package stdlib provides the host builtin table: a name-indexed set of
// functions the evaluator falls back to when a called name is not bound to
// a user function. User declarations shadow builtins, never the reverse.
package stdlib

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"aki/interpreter-go/pkg/runtime"
)

type builtinFunc func(t *Table, args []runtime.Value) (runtime.Value, error)

// Table implements the builtin dispatch protocol. Output from the printing
// builtins goes to the configured writer.
type Table struct {
	out   io.Writer
	funcs map[string]builtinFunc
}

// New creates the standard table writing to stdout.
func New() *Table {
	return NewWithOutput(os.Stdout)
}

// NewWithOutput creates the standard table with output redirected, which is
// what the tests use.
func NewWithOutput(out io.Writer) *Table {
	t := &Table{out: out}
	t.funcs = map[string]builtinFunc{
		"print":     (*Table).print,
		"println":   (*Table).println,
		"to_string": (*Table).toString,
		"to_int":    (*Table).toInt,
		"to_float":  (*Table).toFloat,
		"to_bool":   (*Table).toBool,
	}
	return t
}

// Has reports whether name is a builtin.
func (t *Table) Has(name string) bool {
	_, ok := t.funcs[name]
	return ok
}

// Names returns the builtin names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.funcs))
	for name := range t.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call dispatches by name over already-evaluated arguments.
func (t *Table) Call(name string, args []runtime.Value) (runtime.Value, error) {
	fn, ok := t.funcs[name]
	if !ok {
		return nil, runtime.Errorf(runtime.ErrUnknownFunction, "unknown function '%s'", name)
	}
	return fn(t, args)
}

func one(name string, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, runtime.Errorf(runtime.ErrArityMismatch, "%s expects exactly one argument, got %d", name, len(args))
	}
	return args[0], nil
}

func (t *Table) print(args []runtime.Value) (runtime.Value, error) {
	arg, err := one("print", args)
	if err != nil {
		return nil, err
	}
	text, err := renderText("print", arg)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(t.out, text)
	return runtime.UnitValue{}, nil
}

func (t *Table) println(args []runtime.Value) (runtime.Value, error) {
	arg, err := one("println", args)
	if err != nil {
		return nil, err
	}
	text, err := renderText("println", arg)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(t.out, text)
	return runtime.UnitValue{}, nil
}

// renderText accepts only scalar values, matching the printing contract.
func renderText(name string, arg runtime.Value) (string, error) {
	switch arg.Kind() {
	case runtime.KindString, runtime.KindInteger, runtime.KindFloat, runtime.KindBool:
		return runtime.Format(arg), nil
	default:
		return "", runtime.Errorf(runtime.ErrTypeMismatch, "%s does not support %s values", name, arg.Kind())
	}
}

func (t *Table) toString(args []runtime.Value) (runtime.Value, error) {
	arg, err := one("to_string", args)
	if err != nil {
		return nil, err
	}
	switch arg.Kind() {
	case runtime.KindString, runtime.KindInteger, runtime.KindFloat, runtime.KindBool:
		return runtime.StringValue{Val: runtime.Format(arg)}, nil
	default:
		return nil, runtime.Errorf(runtime.ErrTypeMismatch, "cannot convert %s to string", arg.Kind())
	}
}

func (t *Table) toInt(args []runtime.Value) (runtime.Value, error) {
	arg, err := one("to_int", args)
	if err != nil {
		return nil, err
	}
	switch v := arg.(type) {
	case runtime.IntegerValue:
		return v, nil
	case runtime.FloatValue:
		return runtime.IntegerValue{Val: int64(v.Val)}, nil
	case runtime.StringValue:
		n, err := strconv.ParseInt(v.Val, 10, 64)
		if err != nil {
			return nil, runtime.Errorf(runtime.ErrTypeMismatch, "cannot parse %q as integer", v.Val)
		}
		return runtime.IntegerValue{Val: n}, nil
	default:
		return nil, runtime.Errorf(runtime.ErrTypeMismatch, "cannot convert %s to integer", arg.Kind())
	}
}

func (t *Table) toFloat(args []runtime.Value) (runtime.Value, error) {
	arg, err := one("to_float", args)
	if err != nil {
		return nil, err
	}
	switch v := arg.(type) {
	case runtime.FloatValue:
		return v, nil
	case runtime.IntegerValue:
		return runtime.FloatValue{Val: float64(v.Val)}, nil
	case runtime.StringValue:
		f, err := strconv.ParseFloat(v.Val, 64)
		if err != nil {
			return nil, runtime.Errorf(runtime.ErrTypeMismatch, "cannot parse %q as float", v.Val)
		}
		return runtime.FloatValue{Val: f}, nil
	default:
		return nil, runtime.Errorf(runtime.ErrTypeMismatch, "cannot convert %s to float", arg.Kind())
	}
}

func (t *Table) toBool(args []runtime.Value) (runtime.Value, error) {
	arg, err := one("to_bool", args)
	if err != nil {
		return nil, err
	}
	switch v := arg.(type) {
	case runtime.BoolValue:
		return v, nil
	case runtime.IntegerValue:
		return runtime.BoolValue{Val: v.Val != 0}, nil
	case runtime.StringValue:
		b, err := strconv.ParseBool(v.Val)
		if err != nil {
			return nil, runtime.Errorf(runtime.ErrTypeMismatch, "cannot parse %q as bool", v.Val)
		}
		return runtime.BoolValue{Val: b}, nil
	default:
		return nil, runtime.Errorf(runtime.ErrTypeMismatch, "cannot convert %s to bool", arg.Kind())
	}
}
