package parser

import (
	"aki/interpreter-go/pkg/ast"
	"aki/interpreter-go/pkg/token"
)

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.peekKind() {
	case token.Let:
		return p.parseVariableDecl()
	case token.Func:
		return p.parseFunctionDecl()
	case token.If:
		return p.parseIfExpr()
	case token.While:
		return p.parseWhileLoop()
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		// Trailing semicolons are optional on bare expression statements.
		p.match(token.Semicolon)
		return expr, nil
	}
}

// parseVariableDecl parses `let name [: Type] [= expr] ;`. The semicolon is
// mandatory.
func (p *Parser) parseVariableDecl() (ast.Node, error) {
	p.advance() // consume 'let'

	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, p.errorHere("expected identifier after 'let'")
	}

	var annotation ast.TypeExpression
	if p.match(token.Colon) {
		annotation, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	var initializer ast.Expression
	if p.match(token.Assign) {
		initializer, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	if !p.match(token.Semicolon) {
		return nil, p.errorHere("expected semicolon after variable declaration")
	}
	return ast.NewVariableDecl(nameTok.Text, annotation, initializer), nil
}

// parseFunctionDecl parses attribute/async modifiers, the name, the
// parameter list, an optional return type, and the body block.
func (p *Parser) parseFunctionDecl() (ast.Node, error) {
	p.advance() // consume 'func'

	var attributes []ast.Attribute
	isAsync := false
loop:
	for {
		switch p.peekKind() {
		case token.WeakAttr:
			p.advance()
			attributes = append(attributes, ast.AttrWeak)
		case token.SyncAttr:
			p.advance()
			attributes = append(attributes, ast.AttrSync)
		case token.OwnAttr:
			p.advance()
			attributes = append(attributes, ast.AttrOwn)
		case token.ActorAttr:
			p.advance()
			attributes = append(attributes, ast.AttrActor)
		case token.Async:
			p.advance()
			isAsync = true
		default:
			break loop
		}
	}

	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, p.errorHere("expected function name")
	}

	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []ast.Parameter
	for p.peekKind() != token.RParen {
		if len(params) > 0 {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		paramTok, err := p.expect(token.Ident)
		if err != nil {
			return nil, p.errorHere("expected parameter name")
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		paramType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Parameter{Name: paramTok.Text, Type: paramType})
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	var returnType ast.TypeExpression
	if p.match(token.Arrow) {
		returnType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return ast.NewFunctionDecl(nameTok.Text, params, returnType, body, attributes, isAsync), nil
}

// parseIfExpr parses if/else with else-if handled by recursing on the else
// branch.
func (p *Parser) parseIfExpr() (ast.Expression, error) {
	p.advance() // consume 'if'

	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	thenBranch, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Expression
	if p.match(token.Else) {
		if p.peekKind() == token.If {
			elseBranch, err = p.parseIfExpr()
		} else {
			elseBranch, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
	}

	return ast.NewIfExpr(condition, thenBranch, elseBranch), nil
}

func (p *Parser) parseWhileLoop() (ast.Node, error) {
	p.advance() // consume 'while'

	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileLoop(condition, body), nil
}

// parseBlock parses `{ stmt* }`.
func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	var statements []ast.Node
	for p.peekKind() != token.RBrace {
		if p.atEnd() {
			return nil, p.errorEOF("expected RBrace")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return ast.NewBlock(statements), nil
}
