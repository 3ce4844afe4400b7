package token

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical category of a token.
type Kind string

const (
	// Literals
	Integer Kind = "Integer"
	Float   Kind = "Float"
	String  Kind = "String"
	Bool    Kind = "Bool"

	// Identifiers and keywords
	Ident   Kind = "Ident"
	Let     Kind = "Let"
	Func    Kind = "Func"
	If      Kind = "If"
	Else    Kind = "Else"
	While   Kind = "While"
	For     Kind = "For"
	In      Kind = "In"
	Return  Kind = "Return"
	Mod     Kind = "Mod"
	Pub     Kind = "Pub"
	Use     Kind = "Use"
	Struct  Kind = "Struct"
	Impl    Kind = "Impl"
	Async   Kind = "Async"
	Await   Kind = "Await"
	Channel Kind = "Channel"
	Send    Kind = "Send"
	Recv    Kind = "Recv"
	Vec     Kind = "Vec"
	HashMap Kind = "HashMap"

	// Type keywords
	TypeI8     Kind = "TypeI8"
	TypeI16    Kind = "TypeI16"
	TypeI32    Kind = "TypeI32"
	TypeI64    Kind = "TypeI64"
	TypeU8     Kind = "TypeU8"
	TypeU16    Kind = "TypeU16"
	TypeU32    Kind = "TypeU32"
	TypeU64    Kind = "TypeU64"
	TypeF32    Kind = "TypeF32"
	TypeF64    Kind = "TypeF64"
	TypeBool   Kind = "TypeBool"
	TypeString Kind = "TypeString"
	TypeDyn    Kind = "TypeDyn"

	// Ownership sigils
	Tilde Kind = "Tilde"
	At    Kind = "At"

	// Attributes
	WeakAttr  Kind = "WeakAttr"
	SyncAttr  Kind = "SyncAttr"
	OwnAttr   Kind = "OwnAttr"
	ActorAttr Kind = "ActorAttr"

	// Operators and delimiters
	Plus       Kind = "Plus"
	PlusPlus   Kind = "PlusPlus"
	PlusEq     Kind = "PlusEq"
	Minus      Kind = "Minus"
	MinusMinus Kind = "MinusMinus"
	MinusEq    Kind = "MinusEq"
	Star       Kind = "Star"
	Slash      Kind = "Slash"
	Percent    Kind = "Percent"
	Assign     Kind = "Assign"
	Eq         Kind = "Eq"
	NotEq      Kind = "NotEq"
	Lt         Kind = "Lt"
	Gt         Kind = "Gt"
	LtEq       Kind = "LtEq"
	GtEq       Kind = "GtEq"
	AndAnd     Kind = "AndAnd"
	OrOr       Kind = "OrOr"
	Bang       Kind = "Bang"
	LParen     Kind = "LParen"
	RParen     Kind = "RParen"
	LBrace     Kind = "LBrace"
	RBrace     Kind = "RBrace"
	LBracket   Kind = "LBracket"
	RBracket   Kind = "RBracket"
	Comma      Kind = "Comma"
	Dot        Kind = "Dot"
	Colon      Kind = "Colon"
	ColonColon Kind = "ColonColon"
	Semicolon  Kind = "Semicolon"
	Arrow      Kind = "Arrow"

	// Special
	Invalid Kind = "Invalid"
	EOF     Kind = "EOF"
)

// Token is one lexical unit of an aki source text. Payload fields are only
// meaningful for the literal and identifier kinds.
type Token struct {
	Kind  Kind
	Text  string
	Int   int64
	Float float64
	Bool  bool
}

// Simple builds a payload-free token.
func Simple(kind Kind) Token {
	return Token{Kind: kind}
}

// NewIdent builds an identifier token.
func NewIdent(name string) Token {
	return Token{Kind: Ident, Text: name}
}

// NewInt builds an integer literal token.
func NewInt(value int64) Token {
	return Token{Kind: Integer, Int: value}
}

// NewFloat builds a float literal token.
func NewFloat(value float64) Token {
	return Token{Kind: Float, Float: value}
}

// NewString builds a string literal token.
func NewString(value string) Token {
	return Token{Kind: String, Text: value}
}

// NewBool builds a boolean literal token.
func NewBool(value bool) Token {
	return Token{Kind: Bool, Bool: value}
}

// NewInvalid marks a rune the scanner could not place.
func NewInvalid(r rune) Token {
	return Token{Kind: Invalid, Text: string(r)}
}

// String renders the token for diagnostics, including its payload when it
// carries one.
func (t Token) String() string {
	switch t.Kind {
	case Integer:
		return fmt.Sprintf("Integer(%d)", t.Int)
	case Float:
		return fmt.Sprintf("Float(%s)", strconv.FormatFloat(t.Float, 'g', -1, 64))
	case String:
		return fmt.Sprintf("String(%q)", t.Text)
	case Bool:
		return fmt.Sprintf("Bool(%t)", t.Bool)
	case Ident:
		return fmt.Sprintf("Ident(%s)", t.Text)
	case Invalid:
		return fmt.Sprintf("Invalid(%q)", t.Text)
	default:
		return string(t.Kind)
	}
}
