package interpreter

import (
	"aki/interpreter-go/pkg/ast"
	"aki/interpreter-go/pkg/runtime"
)

// evaluateVariableDecl binds the initializer value (Unit when absent) in the
// current scope and yields it. A declaration annotated @T allocates the
// value into the heap and binds a Reference instead.
func (i *Interpreter) evaluateVariableDecl(decl *ast.VariableDecl, env *runtime.Environment) (runtime.Value, error) {
	var value runtime.Value = runtime.UnitValue{}
	if decl.Initializer != nil {
		val, err := i.Evaluate(decl.Initializer, env)
		if err != nil {
			return nil, err
		}
		value = val
	}

	if isSharedAnnotation(decl.Annotation) {
		address := i.heap.Alloc(value)
		env.Define(decl.Name, runtime.ReferenceValue{Address: address})
		return value, nil
	}

	env.Define(decl.Name, value)
	return value, nil
}

func isSharedAnnotation(annotation ast.TypeExpression) bool {
	owned, ok := annotation.(*ast.OwnedType)
	return ok && owned.Ownership == ast.OwnershipShared
}

// evaluateFunctionDecl builds the function value closing over the current
// environment and registers it under its name. A top-level `main` is
// invoked immediately when the auto-run policy is enabled; a `main`
// declared with parameters then fails ArityMismatch like any other
// zero-argument call.
func (i *Interpreter) evaluateFunctionDecl(decl *ast.FunctionDecl, env *runtime.Environment) (runtime.Value, error) {
	fn := &runtime.FunctionValue{Name: decl.Name, Decl: decl, Closure: env}
	env.Define(decl.Name, fn)

	if i.autoRunMain && decl.Name == "main" && env == i.global {
		return i.callFunction(fn, nil)
	}
	return fn, nil
}

// evaluateBlock runs the statements sequentially in the same environment;
// blocks do not open a scope of their own. An empty block yields Unit.
func (i *Interpreter) evaluateBlock(block *ast.Block, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.UnitValue{}
	for _, stmt := range block.Statements {
		val, err := i.Evaluate(stmt, env)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) evaluateIfExpr(expr *ast.IfExpr, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.Evaluate(expr.Condition, env)
	if err != nil {
		return nil, err
	}
	cond, err = i.load(cond)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(runtime.BoolValue)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrTypeMismatch, "if condition must be a boolean, got %s", cond.Kind())
	}
	if b.Val {
		return i.Evaluate(expr.ThenBranch, env)
	}
	if expr.ElseBranch != nil {
		return i.Evaluate(expr.ElseBranch, env)
	}
	return runtime.UnitValue{}, nil
}

// evaluateWhileLoop re-checks the condition before every iteration; a
// non-boolean condition aborts the loop before running that iteration's
// body. The loop itself yields Unit.
func (i *Interpreter) evaluateWhileLoop(loop *ast.WhileLoop, env *runtime.Environment) (runtime.Value, error) {
	for {
		cond, err := i.Evaluate(loop.Condition, env)
		if err != nil {
			return nil, err
		}
		cond, err = i.load(cond)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(runtime.BoolValue)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrTypeMismatch, "while condition must be a boolean, got %s", cond.Kind())
		}
		if !b.Val {
			return runtime.UnitValue{}, nil
		}
		if _, err := i.Evaluate(loop.Body, env); err != nil {
			return nil, err
		}
	}
}
