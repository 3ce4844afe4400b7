package parser

import (
	"aki/interpreter-go/pkg/ast"
	"aki/interpreter-go/pkg/token"
)

// parseExpression reduces one full expression, then attaches any assignment,
// compound-assignment, or postfix increment/decrement operator. Those
// operators only accept a fully reduced identifier on the left.
func (p *Parser) parseExpression() (ast.Expression, error) {
	expr, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}

	switch p.peekKind() {
	case token.Assign:
		return p.finishAssignment(expr, ast.OpAssign)
	case token.PlusEq:
		return p.finishAssignment(expr, ast.OpSelfAdd)
	case token.MinusEq:
		return p.finishAssignment(expr, ast.OpSelfSub)
	case token.PlusPlus:
		p.advance()
		if err := requireAssignable(p, expr); err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(ast.UnaryInc, expr), nil
	case token.MinusMinus:
		p.advance()
		if err := requireAssignable(p, expr); err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(ast.UnaryDec, expr), nil
	default:
		return expr, nil
	}
}

func (p *Parser) finishAssignment(target ast.Expression, op ast.Operator) (ast.Expression, error) {
	p.advance() // consume the operator token
	if err := requireAssignable(p, target); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewCompoundAssign(op, target, value), nil
}

func requireAssignable(p *Parser, target ast.Expression) error {
	if _, ok := target.(*ast.Identifier); !ok {
		return p.errorHere("invalid assignment target, expected identifier")
	}
	return nil
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.match(token.OrOr) {
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(ast.OpOr, left, right)
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.match(token.AndAnd) {
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(ast.OpAnd, left, right)
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Operator
		switch p.peekKind() {
		case token.Eq:
			op = ast.OpEq
		case token.NotEq:
			op = ast.OpNotEq
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(op, left, right)
	}
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Operator
		switch p.peekKind() {
		case token.Lt:
			op = ast.OpLt
		case token.Gt:
			op = ast.OpGt
		case token.LtEq:
			op = ast.OpLtEq
		case token.GtEq:
			op = ast.OpGtEq
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(op, left, right)
	}
}

func (p *Parser) parseTerm() (ast.Expression, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Operator
		switch p.peekKind() {
		case token.Plus:
			op = ast.OpAdd
		case token.Minus:
			op = ast.OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(op, left, right)
	}
}

func (p *Parser) parseFactor() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Operator
		switch p.peekKind() {
		case token.Star:
			op = ast.OpMul
		case token.Slash:
			op = ast.OpDiv
		case token.Percent:
			op = ast.OpMod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(op, left, right)
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	switch p.peekKind() {
	case token.Minus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(ast.UnaryNeg, operand), nil
	case token.Bang:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(ast.UnaryNot, operand), nil
	case token.PlusPlus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if err := requireAssignable(p, operand); err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(ast.UnaryInc, operand), nil
	case token.MinusMinus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if err := requireAssignable(p, operand); err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(ast.UnaryDec, operand), nil
	case token.Await:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewAwait(operand), nil
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary expression followed by any chain of `[index]`
// accesses.
func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.match(token.LBracket) {
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}
		expr = ast.NewIndexAccess(expr, index)
	}
	return expr, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.errorEOF("expected expression")
	}

	switch tok.Kind {
	case token.Integer:
		p.advance()
		return ast.NewIntegerLiteral(tok.Int), nil
	case token.Float:
		p.advance()
		return ast.NewFloatLiteral(tok.Float), nil
	case token.String:
		p.advance()
		return ast.NewStringLiteral(tok.Text), nil
	case token.Bool:
		p.advance()
		return ast.NewBooleanLiteral(tok.Bool), nil
	case token.Ident:
		p.advance()
		// An identifier is a call iff it is immediately followed by an
		// opening parenthesis; user-vs-builtin resolution is left entirely
		// to evaluation time.
		if p.peekKind() == token.LParen {
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			return ast.NewFunctionCall(tok.Text, args), nil
		}
		return ast.NewIdentifier(tok.Text), nil
	case token.Channel:
		p.advance()
		// `channel` and `channel()` are both accepted.
		if p.match(token.LParen) {
			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}
		}
		return ast.NewChannelCreate(), nil
	case token.Send:
		p.advance()
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		if len(args) != 2 {
			return nil, p.errorHere("send expects a channel and a value")
		}
		return ast.NewSend(args[0], args[1]), nil
	case token.Recv:
		p.advance()
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, p.errorHere("recv expects a channel")
		}
		return ast.NewReceive(args[0]), nil
	case token.LParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBracket:
		return p.parseVectorLiteral()
	case token.LBrace:
		return p.parseBlock()
	default:
		p.advance()
		return nil, p.errorAt(tok, "unexpected token in expression")
	}
}

// parseCallArgs parses `( expr, expr, ... )`.
func (p *Parser) parseCallArgs() ([]ast.Expression, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for p.peekKind() != token.RParen {
		if p.atEnd() {
			return nil, p.errorEOF("expected RParen")
		}
		if len(args) > 0 {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseVectorLiteral() (ast.Expression, error) {
	if _, err := p.expect(token.LBracket); err != nil {
		return nil, err
	}
	var elements []ast.Expression
	for p.peekKind() != token.RBracket {
		if p.atEnd() {
			return nil, p.errorEOF("expected RBracket")
		}
		if len(elements) > 0 {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		el, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	return ast.NewVectorLiteral(elements), nil
}
