// Package parser turns a finite token stream into an ordered sequence of
// AST nodes. It is predictive recursive descent with a single token of
// lookahead and destructive consumption; the first structural mismatch
// aborts the whole parse, there is no resynchronisation.
package parser

import (
	"fmt"

	"aki/interpreter-go/pkg/ast"
	"aki/interpreter-go/pkg/token"
)

// SyntaxError names the token the parser could not place.
type SyntaxError struct {
	Message string
	Got     token.Token
	AtEOF   bool
}

func (e *SyntaxError) Error() string {
	if e.AtEOF {
		return fmt.Sprintf("%s, got end of input", e.Message)
	}
	return fmt.Sprintf("%s, got %s", e.Message, e.Got)
}

// IsUnexpectedEOF reports whether err is a syntax error caused by the token
// stream running out. The REPL uses this to keep reading continuation lines.
func IsUnexpectedEOF(err error) bool {
	se, ok := err.(*SyntaxError)
	return ok && se.AtEOF
}

// Parser consumes a token slice front to back.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New creates a parser over the given tokens.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the whole stream into top-level statements.
func (p *Parser) Parse() ([]ast.Node, error) {
	var statements []ast.Node
	for !p.atEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

// peek returns the current token without consuming it; ok is false at end
// of input.
func (p *Parser) peek() (token.Token, bool) {
	if p.atEnd() {
		return token.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) peekKind() token.Kind {
	if p.atEnd() {
		return token.EOF
	}
	return p.tokens[p.pos].Kind
}

func (p *Parser) advance() (token.Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

// match consumes the current token when it has the given kind.
func (p *Parser) match(kind token.Kind) bool {
	if p.peekKind() != kind {
		return false
	}
	p.pos++
	return true
}

// expect consumes a token of the given kind or fails the parse.
func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	tok, ok := p.peek()
	if !ok {
		return token.Token{}, p.errorEOF(fmt.Sprintf("expected %s", kind))
	}
	if tok.Kind != kind {
		return token.Token{}, p.errorAt(tok, fmt.Sprintf("expected %s", kind))
	}
	p.pos++
	return tok, nil
}

func (p *Parser) errorAt(tok token.Token, message string) *SyntaxError {
	return &SyntaxError{Message: message, Got: tok}
}

func (p *Parser) errorEOF(message string) *SyntaxError {
	return &SyntaxError{Message: message, AtEOF: true}
}

// errorHere reports against the current token, or end of input.
func (p *Parser) errorHere(message string) *SyntaxError {
	if tok, ok := p.peek(); ok {
		return p.errorAt(tok, message)
	}
	return p.errorEOF(message)
}
