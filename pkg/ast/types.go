package ast

// Primitive is a scalar type keyword.
type Primitive string

const (
	PrimitiveI8     Primitive = "i8"
	PrimitiveI16    Primitive = "i16"
	PrimitiveI32    Primitive = "i32"
	PrimitiveI64    Primitive = "i64"
	PrimitiveU8     Primitive = "u8"
	PrimitiveU16    Primitive = "u16"
	PrimitiveU32    Primitive = "u32"
	PrimitiveU64    Primitive = "u64"
	PrimitiveF32    Primitive = "f32"
	PrimitiveF64    Primitive = "f64"
	PrimitiveBool   Primitive = "bool"
	PrimitiveString Primitive = "string"
	PrimitiveDyn    Primitive = "dyn"
)

// Ownership is the sigil wrapping a type annotation.
type Ownership string

const (
	OwnershipUnique Ownership = "unique" // ~T
	OwnershipShared Ownership = "shared" // @T
)

type PrimitiveType struct {
	nodeImpl
	typeExpressionMarker

	Name Primitive `json:"name"`
}

func NewPrimitiveType(name Primitive) *PrimitiveType {
	return &PrimitiveType{nodeImpl: newNodeImpl(NodePrimitiveType), Name: name}
}

type OwnedType struct {
	nodeImpl
	typeExpressionMarker

	Ownership Ownership      `json:"ownership"`
	Inner     TypeExpression `json:"inner"`
}

func NewOwnedType(ownership Ownership, inner TypeExpression) *OwnedType {
	return &OwnedType{nodeImpl: newNodeImpl(NodeOwnedType), Ownership: ownership, Inner: inner}
}

type VectorType struct {
	nodeImpl
	typeExpressionMarker

	Element TypeExpression `json:"element"`
}

func NewVectorType(element TypeExpression) *VectorType {
	return &VectorType{nodeImpl: newNodeImpl(NodeVectorType), Element: element}
}

type MapType struct {
	nodeImpl
	typeExpressionMarker

	Key   TypeExpression `json:"key"`
	Value TypeExpression `json:"value"`
}

func NewMapType(key, value TypeExpression) *MapType {
	return &MapType{nodeImpl: newNodeImpl(NodeMapType), Key: key, Value: value}
}
