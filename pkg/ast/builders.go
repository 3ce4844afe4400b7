package ast

// Compact builders, mostly used to assemble expected trees in tests.

func ID(name string) *Identifier { return NewIdentifier(name) }

func Int(value int64) *IntegerLiteral { return NewIntegerLiteral(value) }

func Flt(value float64) *FloatLiteral { return NewFloatLiteral(value) }

func Str(value string) *StringLiteral { return NewStringLiteral(value) }

func Boolean(value bool) *BooleanLiteral { return NewBooleanLiteral(value) }

func Vector(elements ...Expression) *VectorLiteral { return NewVectorLiteral(elements) }

func Blk(statements ...Node) *Block { return NewBlock(statements) }

func Bin(operator Operator, left, right Expression) *BinaryOp {
	return NewBinaryOp(operator, left, right)
}

func Unary(operator UnaryOperator, operand Expression) *UnaryOp {
	return NewUnaryOp(operator, operand)
}

func Assign(target Expression, value Expression) *CompoundAssign {
	return NewCompoundAssign(OpAssign, target, value)
}

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(name, args)
}

func Let(name string, annotation TypeExpression, initializer Expression) *VariableDecl {
	return NewVariableDecl(name, annotation, initializer)
}

func Index(target, index Expression) *IndexAccess {
	return NewIndexAccess(target, index)
}
