package parser

import (
	"aki/interpreter-go/pkg/ast"
	"aki/interpreter-go/pkg/token"
)

var primitiveTokens = map[token.Kind]ast.Primitive{
	token.TypeI8:     ast.PrimitiveI8,
	token.TypeI16:    ast.PrimitiveI16,
	token.TypeI32:    ast.PrimitiveI32,
	token.TypeI64:    ast.PrimitiveI64,
	token.TypeU8:     ast.PrimitiveU8,
	token.TypeU16:    ast.PrimitiveU16,
	token.TypeU32:    ast.PrimitiveU32,
	token.TypeU64:    ast.PrimitiveU64,
	token.TypeF32:    ast.PrimitiveF32,
	token.TypeF64:    ast.PrimitiveF64,
	token.TypeBool:   ast.PrimitiveBool,
	token.TypeString: ast.PrimitiveString,
	token.TypeDyn:    ast.PrimitiveDyn,
}

// parseType parses a declared type annotation: a primitive name, an
// ownership-wrapped type (~T, @T), or a collection type (Vec<T>,
// HashMap<K, V>). Annotations are recorded on the AST and never enforced.
func (p *Parser) parseType() (ast.TypeExpression, error) {
	tok, ok := p.advance()
	if !ok {
		return nil, p.errorEOF("expected type")
	}

	switch tok.Kind {
	case token.Tilde:
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ast.NewOwnedType(ast.OwnershipUnique, inner), nil
	case token.At:
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ast.NewOwnedType(ast.OwnershipShared, inner), nil
	case token.Vec:
		if _, err := p.expect(token.Lt); err != nil {
			return nil, err
		}
		element, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Gt); err != nil {
			return nil, err
		}
		return ast.NewVectorType(element), nil
	case token.HashMap:
		if _, err := p.expect(token.Lt); err != nil {
			return nil, err
		}
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Comma); err != nil {
			return nil, err
		}
		value, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Gt); err != nil {
			return nil, err
		}
		return ast.NewMapType(key, value), nil
	}

	if name, ok := primitiveTokens[tok.Kind]; ok {
		return ast.NewPrimitiveType(name), nil
	}
	return nil, p.errorAt(tok, "expected type")
}
