package interpreter

import (
	"aki/interpreter-go/pkg/ast"
	"aki/interpreter-go/pkg/runtime"
)

// applyBinaryOp dispatches on (operator, left kind, right kind). Operand
// kinds never coerce; a mixed integer/float pair is a TypeMismatch.
func applyBinaryOp(op ast.Operator, left, right runtime.Value) (runtime.Value, error) {
	switch l := left.(type) {
	case runtime.IntegerValue:
		if r, ok := right.(runtime.IntegerValue); ok {
			return applyIntegerOp(op, l.Val, r.Val)
		}
	case runtime.FloatValue:
		if r, ok := right.(runtime.FloatValue); ok {
			return applyFloatOp(op, l.Val, r.Val)
		}
	case runtime.StringValue:
		if r, ok := right.(runtime.StringValue); ok {
			return applyStringOp(op, l.Val, r.Val)
		}
	case runtime.BoolValue:
		if r, ok := right.(runtime.BoolValue); ok {
			return applyBoolOp(op, l.Val, r.Val)
		}
	}
	return nil, runtime.Errorf(runtime.ErrTypeMismatch, "operator %s not supported for %s and %s", op, left.Kind(), right.Kind())
}

func applyIntegerOp(op ast.Operator, a, b int64) (runtime.Value, error) {
	switch op {
	case ast.OpAdd:
		return runtime.IntegerValue{Val: a + b}, nil
	case ast.OpSub:
		return runtime.IntegerValue{Val: a - b}, nil
	case ast.OpMul:
		return runtime.IntegerValue{Val: a * b}, nil
	case ast.OpDiv:
		if b == 0 {
			return nil, runtime.Errorf(runtime.ErrDivisionByZero, "division by zero")
		}
		return runtime.IntegerValue{Val: a / b}, nil
	case ast.OpMod:
		if b == 0 {
			return nil, runtime.Errorf(runtime.ErrModulusByZero, "modulus by zero")
		}
		return runtime.IntegerValue{Val: a % b}, nil
	case ast.OpEq:
		return runtime.BoolValue{Val: a == b}, nil
	case ast.OpNotEq:
		return runtime.BoolValue{Val: a != b}, nil
	case ast.OpLt:
		return runtime.BoolValue{Val: a < b}, nil
	case ast.OpGt:
		return runtime.BoolValue{Val: a > b}, nil
	case ast.OpLtEq:
		return runtime.BoolValue{Val: a <= b}, nil
	case ast.OpGtEq:
		return runtime.BoolValue{Val: a >= b}, nil
	default:
		return nil, runtime.Errorf(runtime.ErrTypeMismatch, "operator %s not supported for integers", op)
	}
}

func applyFloatOp(op ast.Operator, a, b float64) (runtime.Value, error) {
	switch op {
	case ast.OpAdd:
		return runtime.FloatValue{Val: a + b}, nil
	case ast.OpSub:
		return runtime.FloatValue{Val: a - b}, nil
	case ast.OpMul:
		return runtime.FloatValue{Val: a * b}, nil
	case ast.OpDiv:
		if b == 0 {
			return nil, runtime.Errorf(runtime.ErrDivisionByZero, "division by zero")
		}
		return runtime.FloatValue{Val: a / b}, nil
	case ast.OpEq:
		return runtime.BoolValue{Val: a == b}, nil
	case ast.OpNotEq:
		return runtime.BoolValue{Val: a != b}, nil
	case ast.OpLt:
		return runtime.BoolValue{Val: a < b}, nil
	case ast.OpGt:
		return runtime.BoolValue{Val: a > b}, nil
	case ast.OpLtEq:
		return runtime.BoolValue{Val: a <= b}, nil
	case ast.OpGtEq:
		return runtime.BoolValue{Val: a >= b}, nil
	default:
		return nil, runtime.Errorf(runtime.ErrTypeMismatch, "operator %s not supported for floats", op)
	}
}

func applyStringOp(op ast.Operator, a, b string) (runtime.Value, error) {
	switch op {
	case ast.OpAdd:
		return runtime.StringValue{Val: a + b}, nil
	case ast.OpEq:
		return runtime.BoolValue{Val: a == b}, nil
	case ast.OpNotEq:
		return runtime.BoolValue{Val: a != b}, nil
	default:
		return nil, runtime.Errorf(runtime.ErrTypeMismatch, "operator %s not supported for strings", op)
	}
}

func applyBoolOp(op ast.Operator, a, b bool) (runtime.Value, error) {
	switch op {
	case ast.OpAnd:
		return runtime.BoolValue{Val: a && b}, nil
	case ast.OpOr:
		return runtime.BoolValue{Val: a || b}, nil
	case ast.OpEq:
		return runtime.BoolValue{Val: a == b}, nil
	case ast.OpNotEq:
		return runtime.BoolValue{Val: a != b}, nil
	default:
		return nil, runtime.Errorf(runtime.ErrTypeMismatch, "operator %s not supported for booleans", op)
	}
}

func applyUnaryOp(op ast.UnaryOperator, operand runtime.Value) (runtime.Value, error) {
	switch op {
	case ast.UnaryNeg:
		switch v := operand.(type) {
		case runtime.IntegerValue:
			return runtime.IntegerValue{Val: -v.Val}, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -v.Val}, nil
		}
	case ast.UnaryNot:
		if v, ok := operand.(runtime.BoolValue); ok {
			return runtime.BoolValue{Val: !v.Val}, nil
		}
	}
	return nil, runtime.Errorf(runtime.ErrTypeMismatch, "operator %s not supported for %s", op, operand.Kind())
}
