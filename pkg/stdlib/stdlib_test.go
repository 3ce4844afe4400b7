package stdlib

import (
	"bytes"
	"reflect"
	"testing"

	"aki/interpreter-go/pkg/runtime"
)

func callBuiltin(t *testing.T, table *Table, name string, args ...runtime.Value) (runtime.Value, error) {
	t.Helper()
	if !table.Has(name) {
		t.Fatalf("builtin %s missing", name)
	}
	return table.Call(name, args)
}

func TestNames(t *testing.T) {
	table := New()
	want := []string{"print", "println", "to_bool", "to_float", "to_int", "to_string"}
	if !reflect.DeepEqual(table.Names(), want) {
		t.Fatalf("Names = %v, want %v", table.Names(), want)
	}
}

func TestPrintAndPrintln(t *testing.T) {
	var out bytes.Buffer
	table := NewWithOutput(&out)

	if _, err := callBuiltin(t, table, "print", runtime.StringValue{Val: "a"}); err != nil {
		t.Fatalf("print: %v", err)
	}
	if _, err := callBuiltin(t, table, "println", runtime.IntegerValue{Val: 7}); err != nil {
		t.Fatalf("println: %v", err)
	}
	if got := out.String(); got != "a7\n" {
		t.Fatalf("output = %q, want %q", got, "a7\n")
	}
}

func TestPrintRejectsNonScalar(t *testing.T) {
	var out bytes.Buffer
	table := NewWithOutput(&out)
	_, err := callBuiltin(t, table, "print", &runtime.VectorValue{})
	if code, ok := runtime.CodeOf(err); !ok || code != runtime.ErrTypeMismatch {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be written, got %q", out.String())
	}
}

func TestPrintArity(t *testing.T) {
	table := New()
	_, err := table.Call("print", nil)
	if code, ok := runtime.CodeOf(err); !ok || code != runtime.ErrArityMismatch {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
}

func TestToString(t *testing.T) {
	table := New()
	cases := []struct {
		arg  runtime.Value
		want string
	}{
		{runtime.IntegerValue{Val: -4}, "-4"},
		{runtime.FloatValue{Val: 1.5}, "1.5"},
		{runtime.BoolValue{Val: true}, "true"},
		{runtime.StringValue{Val: "as-is"}, "as-is"},
	}
	for _, c := range cases {
		val, err := callBuiltin(t, table, "to_string", c.arg)
		if err != nil {
			t.Fatalf("to_string(%#v): %v", c.arg, err)
		}
		if sv, ok := val.(runtime.StringValue); !ok || sv.Val != c.want {
			t.Fatalf("to_string(%#v) = %#v, want %q", c.arg, val, c.want)
		}
	}
}

func TestToInt(t *testing.T) {
	table := New()

	val, err := callBuiltin(t, table, "to_int", runtime.FloatValue{Val: 3.9})
	if err != nil {
		t.Fatalf("to_int: %v", err)
	}
	if iv := val.(runtime.IntegerValue); iv.Val != 3 {
		t.Fatalf("to_int(3.9) = %d, want 3 (truncation)", iv.Val)
	}

	val, err = callBuiltin(t, table, "to_int", runtime.StringValue{Val: "-12"})
	if err != nil {
		t.Fatalf("to_int: %v", err)
	}
	if iv := val.(runtime.IntegerValue); iv.Val != -12 {
		t.Fatalf("to_int(\"-12\") = %d, want -12", iv.Val)
	}

	_, err = callBuiltin(t, table, "to_int", runtime.StringValue{Val: "xyz"})
	if code, ok := runtime.CodeOf(err); !ok || code != runtime.ErrTypeMismatch {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
	_, err = callBuiltin(t, table, "to_int", runtime.BoolValue{Val: true})
	if code, ok := runtime.CodeOf(err); !ok || code != runtime.ErrTypeMismatch {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestToFloat(t *testing.T) {
	table := New()
	val, err := callBuiltin(t, table, "to_float", runtime.IntegerValue{Val: 2})
	if err != nil {
		t.Fatalf("to_float: %v", err)
	}
	if fv := val.(runtime.FloatValue); fv.Val != 2.0 {
		t.Fatalf("to_float(2) = %v, want 2.0", fv.Val)
	}

	val, err = callBuiltin(t, table, "to_float", runtime.StringValue{Val: "0.25"})
	if err != nil {
		t.Fatalf("to_float: %v", err)
	}
	if fv := val.(runtime.FloatValue); fv.Val != 0.25 {
		t.Fatalf("to_float(\"0.25\") = %v, want 0.25", fv.Val)
	}
}

func TestToBool(t *testing.T) {
	table := New()

	val, err := callBuiltin(t, table, "to_bool", runtime.IntegerValue{Val: 0})
	if err != nil {
		t.Fatalf("to_bool: %v", err)
	}
	if bv := val.(runtime.BoolValue); bv.Val {
		t.Fatalf("to_bool(0) should be false")
	}

	val, err = callBuiltin(t, table, "to_bool", runtime.StringValue{Val: "true"})
	if err != nil {
		t.Fatalf("to_bool: %v", err)
	}
	if bv := val.(runtime.BoolValue); !bv.Val {
		t.Fatalf("to_bool(\"true\") should be true")
	}

	_, err = callBuiltin(t, table, "to_bool", runtime.StringValue{Val: "maybe"})
	if code, ok := runtime.CodeOf(err); !ok || code != runtime.ErrTypeMismatch {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestCallUnknownBuiltin(t *testing.T) {
	table := New()
	_, err := table.Call("fly", nil)
	if code, ok := runtime.CodeOf(err); !ok || code != runtime.ErrUnknownFunction {
		t.Fatalf("expected UnknownFunction, got %v", err)
	}
}
