package runtime

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"aki/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindString
	KindBool
	KindVector
	KindMap
	KindUnit
	KindReference
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindVector:
		return "vector"
	case KindMap:
		return "map"
	case KindUnit:
		return "unit"
	case KindReference:
		return "reference"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

// UnitValue is the result of side-effecting forms with nothing to yield.
type UnitValue struct{}

func (UnitValue) Kind() Kind { return KindUnit }

//-----------------------------------------------------------------------------
// Collections
//-----------------------------------------------------------------------------

type VectorValue struct {
	Elements []Value
}

func (v *VectorValue) Kind() Kind { return KindVector }

type MapValue struct {
	Entries map[string]Value
}

func (v *MapValue) Kind() Kind { return KindMap }

// NewMapValue creates an empty map value.
func NewMapValue() *MapValue {
	return &MapValue{Entries: make(map[string]Value)}
}

//-----------------------------------------------------------------------------
// References & functions
//-----------------------------------------------------------------------------

// ReferenceValue points at a heap slot.
type ReferenceValue struct {
	Address int
}

func (v ReferenceValue) Kind() Kind { return KindReference }

// FunctionValue pairs a declaration with the environment it closed over.
// The closure link is shared, not copied: the function sees later mutation
// of scopes that were still open at declaration time.
type FunctionValue struct {
	Name    string
	Decl    *ast.FunctionDecl
	Closure *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// Arity returns the declared parameter count.
func (v *FunctionValue) Arity() int {
	return len(v.Decl.Params)
}

//-----------------------------------------------------------------------------
// Formatting
//-----------------------------------------------------------------------------

// Format renders a value the way the REPL and the printing builtins show it.
func Format(val Value) string {
	switch v := val.(type) {
	case IntegerValue:
		return strconv.FormatInt(v.Val, 10)
	case FloatValue:
		return strconv.FormatFloat(v.Val, 'g', -1, 64)
	case StringValue:
		return v.Val
	case BoolValue:
		return strconv.FormatBool(v.Val)
	case UnitValue:
		return "()"
	case *VectorValue:
		parts := make([]string, 0, len(v.Elements))
		for _, el := range v.Elements {
			parts = append(parts, Format(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *MapValue:
		keys := make([]string, 0, len(v.Entries))
		for k := range v.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+Format(v.Entries[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case ReferenceValue:
		return fmt.Sprintf("@%d", v.Address)
	case *FunctionValue:
		return fmt.Sprintf("func %s/%d", v.Name, v.Arity())
	default:
		return fmt.Sprintf("<%s>", val.Kind())
	}
}
