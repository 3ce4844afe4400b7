// Package interpreter executes aki AST nodes directly by recursive
// tree-walking against an environment chain. Evaluation is single-threaded
// and depth-first; the only mutable interpreter state is the environment
// chain and the append-only heap.
package interpreter

import (
	"aki/interpreter-go/pkg/ast"
	"aki/interpreter-go/pkg/runtime"
)

// BuiltinTable is the host-provided function table consulted when a called
// name is not bound to a user function value.
type BuiltinTable interface {
	Has(name string) bool
	Call(name string, args []runtime.Value) (runtime.Value, error)
}

// AssignPolicy selects where `=`, `+=`, `-=`, `++`, and `--` write.
type AssignPolicy int

const (
	// AssignDefineLocal re-defines the name in the innermost scope, so
	// assigning to an outer-scope name creates a local shadow. This is the
	// historical behaviour and the default.
	AssignDefineLocal AssignPolicy = iota
	// AssignMutateOuter writes through to the nearest scope that already
	// holds the name, failing with UndefinedVariable when none does.
	AssignMutateOuter
)

// Interpreter drives evaluation of aki AST nodes.
type Interpreter struct {
	global       *runtime.Environment
	heap         *runtime.Heap
	builtins     BuiltinTable
	assignPolicy AssignPolicy
	autoRunMain  bool
}

// New returns an interpreter with an empty global environment and the given
// builtin table (nil disables builtin dispatch). Defaults: local-shadow
// assignment and auto-invocation of a declared `main`.
func New(builtins BuiltinTable) *Interpreter {
	return &Interpreter{
		global:      runtime.NewEnvironment(nil),
		heap:        runtime.NewHeap(),
		builtins:    builtins,
		autoRunMain: true,
	}
}

// Reset discards all session state, replacing the global environment and
// the heap with fresh ones. The builtin table and policy flags survive.
func (i *Interpreter) Reset() {
	i.global = runtime.NewEnvironment(nil)
	i.heap = runtime.NewHeap()
}

// SetAssignPolicy switches the scope-write policy.
func (i *Interpreter) SetAssignPolicy(policy AssignPolicy) {
	i.assignPolicy = policy
}

// SetAutoRunMain controls whether declaring a top-level `main` invokes it
// immediately.
func (i *Interpreter) SetAutoRunMain(enabled bool) {
	i.autoRunMain = enabled
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Heap returns the interpreter's heap.
func (i *Interpreter) Heap() *runtime.Heap {
	return i.heap
}

// EvaluateProgram evaluates a parsed statement sequence against the global
// environment and returns the last value. The first error stops the
// sequence.
func (i *Interpreter) EvaluateProgram(nodes []ast.Node) (runtime.Value, error) {
	var last runtime.Value = runtime.UnitValue{}
	for _, node := range nodes {
		val, err := i.Evaluate(node, i.global)
		if err != nil {
			return nil, err
		}
		last = val
	}
	return last, nil
}

// Evaluate reduces a single node to a value in the given environment.
func (i *Interpreter) Evaluate(node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.FloatLiteral:
		return runtime.FloatValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.VectorLiteral:
		return i.evaluateVectorLiteral(n, env)
	case *ast.Identifier:
		return env.Get(n.Name)
	case *ast.VariableDecl:
		return i.evaluateVariableDecl(n, env)
	case *ast.FunctionDecl:
		return i.evaluateFunctionDecl(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	case *ast.Block:
		return i.evaluateBlock(n, env)
	case *ast.IfExpr:
		return i.evaluateIfExpr(n, env)
	case *ast.WhileLoop:
		return i.evaluateWhileLoop(n, env)
	case *ast.BinaryOp:
		return i.evaluateBinaryOp(n, env)
	case *ast.UnaryOp:
		return i.evaluateUnaryOp(n, env)
	case *ast.CompoundAssign:
		return i.evaluateCompoundAssign(n, env)
	case *ast.IndexAccess:
		return i.evaluateIndexAccess(n, env)
	case *ast.ChannelCreate, *ast.Send, *ast.Receive, *ast.Await:
		return nil, runtime.Errorf(runtime.ErrUnimplementedNodeKind, "%s has no runtime semantics", node.NodeType())
	default:
		return nil, runtime.Errorf(runtime.ErrUnimplementedNodeKind, "unsupported node kind %s", node.NodeType())
	}
}

// writeBinding applies the configured scope-write policy.
func (i *Interpreter) writeBinding(env *runtime.Environment, name string, value runtime.Value) error {
	if i.assignPolicy == AssignMutateOuter {
		return env.Assign(name, value)
	}
	env.Define(name, value)
	return nil
}

// load resolves References through the heap; all other values pass through.
func (i *Interpreter) load(value runtime.Value) (runtime.Value, error) {
	ref, ok := value.(runtime.ReferenceValue)
	if !ok {
		return value, nil
	}
	return i.heap.Get(ref.Address)
}
