// Package ast defines the tree produced by the parser. Nodes are immutable
// after construction; evaluation only ever mutates environment and value
// state, never the tree.
package ast

type NodeType string

const (
	NodeIdentifier     NodeType = "Identifier"
	NodeIntegerLiteral NodeType = "IntegerLiteral"
	NodeFloatLiteral   NodeType = "FloatLiteral"
	NodeStringLiteral  NodeType = "StringLiteral"
	NodeBooleanLiteral NodeType = "BooleanLiteral"
	NodeVectorLiteral  NodeType = "VectorLiteral"
	NodeVariableDecl   NodeType = "VariableDecl"
	NodeFunctionDecl   NodeType = "FunctionDecl"
	NodeFunctionCall   NodeType = "FunctionCall"
	NodeBlock          NodeType = "Block"
	NodeIfExpr         NodeType = "IfExpr"
	NodeWhileLoop      NodeType = "WhileLoop"
	NodeBinaryOp       NodeType = "BinaryOp"
	NodeUnaryOp        NodeType = "UnaryOp"
	NodeCompoundAssign NodeType = "CompoundAssign"
	NodeIndexAccess    NodeType = "IndexAccess"
	NodeChannelCreate  NodeType = "ChannelCreate"
	NodeSend           NodeType = "Send"
	NodeReceive        NodeType = "Receive"
	NodeAwait          NodeType = "Await"

	NodePrimitiveType NodeType = "PrimitiveType"
	NodeOwnedType     NodeType = "OwnedType"
	NodeVectorType    NodeType = "VectorType"
	NodeMapType       NodeType = "MapType"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Expression marks nodes that reduce to a value.
type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

// TypeExpression marks declared type annotations. Annotations are parsed but
// never enforced.
type TypeExpression interface {
	Node
	typeExpressionNode()
}

type typeExpressionMarker struct{}

func (typeExpressionMarker) typeExpressionNode() {}

// Operator enumerates binary and compound-assignment operators.
type Operator string

const (
	OpAssign  Operator = "="
	OpAdd     Operator = "+"
	OpSelfAdd Operator = "+="
	OpInc     Operator = "++"
	OpSub     Operator = "-"
	OpSelfSub Operator = "-="
	OpDec     Operator = "--"
	OpMul     Operator = "*"
	OpDiv     Operator = "/"
	OpMod     Operator = "%"
	OpEq      Operator = "=="
	OpNotEq   Operator = "!="
	OpLt      Operator = "<"
	OpGt      Operator = ">"
	OpLtEq    Operator = "<="
	OpGtEq    Operator = ">="
	OpAnd     Operator = "&&"
	OpOr      Operator = "||"
)

// UnaryOperator enumerates prefix operators; Inc and Dec also cover the
// postfix spellings, which share a node shape.
type UnaryOperator string

const (
	UnaryNot UnaryOperator = "!"
	UnaryNeg UnaryOperator = "-"
	UnaryInc UnaryOperator = "++"
	UnaryDec UnaryOperator = "--"
)

// Attribute is a #-prefixed function modifier.
type Attribute string

const (
	AttrWeak  Attribute = "weak"
	AttrSync  Attribute = "sync"
	AttrOwn   Attribute = "own"
	AttrActor Attribute = "actor"
)

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type IntegerLiteral struct {
	nodeImpl
	expressionMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker

	Value float64 `json:"value"`
}

func NewFloatLiteral(value float64) *FloatLiteral {
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type VectorLiteral struct {
	nodeImpl
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewVectorLiteral(elements []Expression) *VectorLiteral {
	return &VectorLiteral{nodeImpl: newNodeImpl(NodeVectorLiteral), Elements: elements}
}

// Declarations

type VariableDecl struct {
	nodeImpl
	expressionMarker

	Name        string         `json:"name"`
	Annotation  TypeExpression `json:"annotation,omitempty"`
	Initializer Expression     `json:"initializer,omitempty"`
}

func NewVariableDecl(name string, annotation TypeExpression, initializer Expression) *VariableDecl {
	return &VariableDecl{nodeImpl: newNodeImpl(NodeVariableDecl), Name: name, Annotation: annotation, Initializer: initializer}
}

// Parameter is a single `name: Type` entry in a function declaration.
type Parameter struct {
	Name string         `json:"name"`
	Type TypeExpression `json:"type"`
}

type FunctionDecl struct {
	nodeImpl
	expressionMarker

	Name       string         `json:"name"`
	Params     []Parameter    `json:"params"`
	ReturnType TypeExpression `json:"returnType,omitempty"`
	Body       *Block         `json:"body"`
	Attributes []Attribute    `json:"attributes,omitempty"`
	IsAsync    bool           `json:"isAsync,omitempty"`
}

func NewFunctionDecl(name string, params []Parameter, returnType TypeExpression, body *Block, attributes []Attribute, isAsync bool) *FunctionDecl {
	return &FunctionDecl{
		nodeImpl:   newNodeImpl(NodeFunctionDecl),
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		Attributes: attributes,
		IsAsync:    isAsync,
	}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker

	Name string       `json:"name"`
	Args []Expression `json:"args"`
}

func NewFunctionCall(name string, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Name: name, Args: args}
}

// Control flow

type Block struct {
	nodeImpl
	expressionMarker

	Statements []Node `json:"statements"`
}

func NewBlock(statements []Node) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Statements: statements}
}

type IfExpr struct {
	nodeImpl
	expressionMarker

	Condition  Expression `json:"condition"`
	ThenBranch Expression `json:"thenBranch"`
	ElseBranch Expression `json:"elseBranch,omitempty"`
}

func NewIfExpr(condition, thenBranch, elseBranch Expression) *IfExpr {
	return &IfExpr{nodeImpl: newNodeImpl(NodeIfExpr), Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

type WhileLoop struct {
	nodeImpl
	expressionMarker

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewWhileLoop(condition Expression, body *Block) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

// Operations

type BinaryOp struct {
	nodeImpl
	expressionMarker

	Operator Operator   `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryOp(operator Operator, left, right Expression) *BinaryOp {
	return &BinaryOp{nodeImpl: newNodeImpl(NodeBinaryOp), Operator: operator, Left: left, Right: right}
}

type UnaryOp struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryOp(operator UnaryOperator, operand Expression) *UnaryOp {
	return &UnaryOp{nodeImpl: newNodeImpl(NodeUnaryOp), Operator: operator, Operand: operand}
}

type CompoundAssign struct {
	nodeImpl
	expressionMarker

	Operator Operator   `json:"operator"`
	Target   Expression `json:"target"`
	Value    Expression `json:"value,omitempty"`
}

func NewCompoundAssign(operator Operator, target, value Expression) *CompoundAssign {
	return &CompoundAssign{nodeImpl: newNodeImpl(NodeCompoundAssign), Operator: operator, Target: target, Value: value}
}

type IndexAccess struct {
	nodeImpl
	expressionMarker

	Target Expression `json:"target"`
	Index  Expression `json:"index"`
}

func NewIndexAccess(target, index Expression) *IndexAccess {
	return &IndexAccess{nodeImpl: newNodeImpl(NodeIndexAccess), Target: target, Index: index}
}

// Concurrency forms. Accepted by the grammar; the evaluator assigns them no
// runtime semantics.

type ChannelCreate struct {
	nodeImpl
	expressionMarker
}

func NewChannelCreate() *ChannelCreate {
	return &ChannelCreate{nodeImpl: newNodeImpl(NodeChannelCreate)}
}

type Send struct {
	nodeImpl
	expressionMarker

	Channel Expression `json:"channel"`
	Value   Expression `json:"value"`
}

func NewSend(channel, value Expression) *Send {
	return &Send{nodeImpl: newNodeImpl(NodeSend), Channel: channel, Value: value}
}

type Receive struct {
	nodeImpl
	expressionMarker

	Channel Expression `json:"channel"`
}

func NewReceive(channel Expression) *Receive {
	return &Receive{nodeImpl: newNodeImpl(NodeReceive), Channel: channel}
}

type Await struct {
	nodeImpl
	expressionMarker

	Expression Expression `json:"expression"`
}

func NewAwait(expression Expression) *Await {
	return &Await{nodeImpl: newNodeImpl(NodeAwait), Expression: expression}
}
