package interpreter

import (
	"aki/interpreter-go/pkg/ast"
	"aki/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateVectorLiteral(lit *ast.VectorLiteral, env *runtime.Environment) (runtime.Value, error) {
	elements := make([]runtime.Value, 0, len(lit.Elements))
	for _, el := range lit.Elements {
		val, err := i.Evaluate(el, env)
		if err != nil {
			return nil, err
		}
		elements = append(elements, val)
	}
	return &runtime.VectorValue{Elements: elements}, nil
}

// evaluateBinaryOp evaluates the left operand, then the right operand, then
// dispatches on (operator, left kind, right kind). Both operands are always
// evaluated; there is no short-circuiting.
func (i *Interpreter) evaluateBinaryOp(expr *ast.BinaryOp, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.Evaluate(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.Evaluate(expr.Right, env)
	if err != nil {
		return nil, err
	}
	left, err = i.load(left)
	if err != nil {
		return nil, err
	}
	right, err = i.load(right)
	if err != nil {
		return nil, err
	}
	return applyBinaryOp(expr.Operator, left, right)
}

func (i *Interpreter) evaluateUnaryOp(expr *ast.UnaryOp, env *runtime.Environment) (runtime.Value, error) {
	switch expr.Operator {
	case ast.UnaryInc:
		return i.stepIdentifier(expr.Operand, ast.OpAdd, env)
	case ast.UnaryDec:
		return i.stepIdentifier(expr.Operand, ast.OpSub, env)
	}

	operand, err := i.Evaluate(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	operand, err = i.load(operand)
	if err != nil {
		return nil, err
	}
	return applyUnaryOp(expr.Operator, operand)
}

// stepIdentifier implements ++ and --: the operand must be an identifier and
// its current binding is replaced by the arithmetic result.
func (i *Interpreter) stepIdentifier(operand ast.Expression, op ast.Operator, env *runtime.Environment) (runtime.Value, error) {
	ident, ok := operand.(*ast.Identifier)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrInvalidAssignmentTarget, "operand of %s must be a variable", stepSpelling(op))
	}
	current, err := env.Get(ident.Name)
	if err != nil {
		return nil, err
	}
	current, err = i.load(current)
	if err != nil {
		return nil, err
	}
	result, err := applyBinaryOp(op, current, runtime.IntegerValue{Val: 1})
	if err != nil {
		return nil, err
	}
	if err := i.writeBinding(env, ident.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

func stepSpelling(op ast.Operator) string {
	if op == ast.OpAdd {
		return "++"
	}
	return "--"
}

// evaluateCompoundAssign handles `=`, `+=`, `-=` and the Inc/Dec operator
// codes. Targets must be identifiers; where the new binding lands is
// decided by the assignment policy.
func (i *Interpreter) evaluateCompoundAssign(expr *ast.CompoundAssign, env *runtime.Environment) (runtime.Value, error) {
	ident, ok := expr.Target.(*ast.Identifier)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrInvalidAssignmentTarget, "left side of %s must be a variable", expr.Operator)
	}

	switch expr.Operator {
	case ast.OpAssign:
		value, err := i.Evaluate(expr.Value, env)
		if err != nil {
			return nil, err
		}
		if err := i.writeBinding(env, ident.Name, value); err != nil {
			return nil, err
		}
		return value, nil
	case ast.OpSelfAdd:
		return i.applySelfOp(ident, ast.OpAdd, expr.Value, env)
	case ast.OpSelfSub:
		return i.applySelfOp(ident, ast.OpSub, expr.Value, env)
	case ast.OpInc:
		return i.stepIdentifier(ident, ast.OpAdd, env)
	case ast.OpDec:
		return i.stepIdentifier(ident, ast.OpSub, env)
	default:
		return nil, runtime.Errorf(runtime.ErrTypeMismatch, "invalid compound assignment operator %s", expr.Operator)
	}
}

func (i *Interpreter) applySelfOp(ident *ast.Identifier, op ast.Operator, valueExpr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	current, err := env.Get(ident.Name)
	if err != nil {
		return nil, err
	}
	current, err = i.load(current)
	if err != nil {
		return nil, err
	}
	value, err := i.Evaluate(valueExpr, env)
	if err != nil {
		return nil, err
	}
	value, err = i.load(value)
	if err != nil {
		return nil, err
	}
	result, err := applyBinaryOp(op, current, value)
	if err != nil {
		return nil, err
	}
	if err := i.writeBinding(env, ident.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// evaluateIndexAccess indexes a vector with an in-range integer or a map
// with a string key.
func (i *Interpreter) evaluateIndexAccess(expr *ast.IndexAccess, env *runtime.Environment) (runtime.Value, error) {
	target, err := i.Evaluate(expr.Target, env)
	if err != nil {
		return nil, err
	}
	target, err = i.load(target)
	if err != nil {
		return nil, err
	}
	index, err := i.Evaluate(expr.Index, env)
	if err != nil {
		return nil, err
	}
	index, err = i.load(index)
	if err != nil {
		return nil, err
	}

	switch t := target.(type) {
	case *runtime.VectorValue:
		n, ok := index.(runtime.IntegerValue)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrTypeMismatch, "vector index must be an integer, got %s", index.Kind())
		}
		if n.Val < 0 || n.Val >= int64(len(t.Elements)) {
			return nil, runtime.Errorf(runtime.ErrIndexOutOfBounds, "index %d out of bounds for vector of length %d", n.Val, len(t.Elements))
		}
		return t.Elements[n.Val], nil
	case *runtime.MapValue:
		key, ok := index.(runtime.StringValue)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrTypeMismatch, "map key must be a string, got %s", index.Kind())
		}
		value, ok := t.Entries[key.Val]
		if !ok {
			return nil, runtime.Errorf(runtime.ErrKeyNotFound, "key not found: %s", key.Val)
		}
		return value, nil
	default:
		return nil, runtime.Errorf(runtime.ErrTypeMismatch, "cannot index into %s", target.Kind())
	}
}

// evaluateFunctionCall evaluates all arguments left to right, then resolves
// the callee: the environment first (user functions shadow builtins), the
// builtin table second.
func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	args := make([]runtime.Value, 0, len(call.Args))
	for _, argExpr := range call.Args {
		val, err := i.Evaluate(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	if bound, err := env.Get(call.Name); err == nil {
		if fn, ok := bound.(*runtime.FunctionValue); ok {
			return i.callFunction(fn, args)
		}
		// A non-function binding does not hide a builtin of the same name.
	}
	if i.builtins != nil && i.builtins.Has(call.Name) {
		return i.builtins.Call(call.Name, args)
	}
	return nil, runtime.Errorf(runtime.ErrUnknownFunction, "unknown function '%s'", call.Name)
}

// callFunction binds arguments positionally in a fresh child of the closure
// environment and evaluates the body there. The caller's environment is
// untouched; scope restoration is the call stack unwinding.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	if len(args) != fn.Arity() {
		return nil, runtime.Errorf(runtime.ErrArityMismatch, "function '%s' expected %d arguments but got %d", fn.Name, fn.Arity(), len(args))
	}
	callEnv := fn.Closure.Extend()
	for idx, param := range fn.Decl.Params {
		callEnv.Define(param.Name, args[idx])
	}
	return i.evaluateBlock(fn.Decl.Body, callEnv)
}
