// Package lexer turns aki source text into the token stream consumed by the
// parser. Scanning is rune-based with one rune of lookahead; the stream ends
// with an EOF token once the input is exhausted.
package lexer

import (
	"fmt"
	"strconv"

	"aki/interpreter-go/pkg/token"
)

var keywords = map[string]token.Kind{
	"let":    token.Let,
	"func":   token.Func,
	"if":     token.If,
	"else":   token.Else,
	"while":  token.While,
	"for":    token.For,
	"in":     token.In,
	"return": token.Return,
	"mod":    token.Mod,
	"pub":    token.Pub,
	"use":    token.Use,
	"struct": token.Struct,
	"impl":   token.Impl,
	"async":  token.Async,
	"await":  token.Await,

	"channel": token.Channel,
	"send":    token.Send,
	"recv":    token.Recv,

	"Vec":     token.Vec,
	"HashMap": token.HashMap,

	"i8":     token.TypeI8,
	"i16":    token.TypeI16,
	"i32":    token.TypeI32,
	"i64":    token.TypeI64,
	"u8":     token.TypeU8,
	"u16":    token.TypeU16,
	"u32":    token.TypeU32,
	"u64":    token.TypeU64,
	"f32":    token.TypeF32,
	"f64":    token.TypeF64,
	"bool":   token.TypeBool,
	"string": token.TypeString,
	"dyn":    token.TypeDyn,
}

var attributes = map[string]token.Kind{
	"weak":  token.WeakAttr,
	"sync":  token.SyncAttr,
	"own":   token.OwnAttr,
	"actor": token.ActorAttr,
}

// Lexer scans a single source text.
type Lexer struct {
	input []rune
	pos   int
}

// New creates a lexer over the given source text.
func New(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

func (l *Lexer) current() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *Lexer) peek() (rune, bool) {
	if l.pos+1 >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos+1], true
}

func (l *Lexer) advance() {
	l.pos++
}

func (l *Lexer) skipWhitespace() {
	for {
		c, ok := l.current()
		if !ok || !isSpace(c) {
			return
		}
		l.advance()
	}
}

// Next returns the next token, or an EOF token once the input is exhausted.
func (l *Lexer) Next() token.Token {
	l.skipWhitespace()

	c, ok := l.current()
	if !ok {
		return token.Simple(token.EOF)
	}

	switch {
	case c >= '0' && c <= '9':
		return l.readNumber()
	case isIdentStart(c):
		return l.readIdentifier()
	}

	switch c {
	case '#':
		return l.readAttribute()
	case '"':
		return l.readString()
	case '~':
		l.advance()
		return token.Simple(token.Tilde)
	case '@':
		l.advance()
		return token.Simple(token.At)
	case '+':
		l.advance()
		if l.consume('=') {
			return token.Simple(token.PlusEq)
		}
		if l.consume('+') {
			return token.Simple(token.PlusPlus)
		}
		return token.Simple(token.Plus)
	case '-':
		l.advance()
		if l.consume('>') {
			return token.Simple(token.Arrow)
		}
		if l.consume('=') {
			return token.Simple(token.MinusEq)
		}
		if l.consume('-') {
			return token.Simple(token.MinusMinus)
		}
		return token.Simple(token.Minus)
	case '*':
		l.advance()
		return token.Simple(token.Star)
	case '/':
		l.advance()
		return token.Simple(token.Slash)
	case '%':
		l.advance()
		return token.Simple(token.Percent)
	case '=':
		l.advance()
		if l.consume('=') {
			return token.Simple(token.Eq)
		}
		return token.Simple(token.Assign)
	case '!':
		l.advance()
		if l.consume('=') {
			return token.Simple(token.NotEq)
		}
		return token.Simple(token.Bang)
	case '<':
		l.advance()
		if l.consume('=') {
			return token.Simple(token.LtEq)
		}
		return token.Simple(token.Lt)
	case '>':
		l.advance()
		if l.consume('=') {
			return token.Simple(token.GtEq)
		}
		return token.Simple(token.Gt)
	case '&':
		l.advance()
		if l.consume('&') {
			return token.Simple(token.AndAnd)
		}
		return token.NewInvalid('&')
	case '|':
		l.advance()
		if l.consume('|') {
			return token.Simple(token.OrOr)
		}
		return token.NewInvalid('|')
	case ':':
		l.advance()
		if l.consume(':') {
			return token.Simple(token.ColonColon)
		}
		return token.Simple(token.Colon)
	case '(':
		l.advance()
		return token.Simple(token.LParen)
	case ')':
		l.advance()
		return token.Simple(token.RParen)
	case '{':
		l.advance()
		return token.Simple(token.LBrace)
	case '}':
		l.advance()
		return token.Simple(token.RBrace)
	case '[':
		l.advance()
		return token.Simple(token.LBracket)
	case ']':
		l.advance()
		return token.Simple(token.RBracket)
	case ',':
		l.advance()
		return token.Simple(token.Comma)
	case '.':
		l.advance()
		return token.Simple(token.Dot)
	case ';':
		l.advance()
		return token.Simple(token.Semicolon)
	default:
		l.advance()
		return token.NewInvalid(c)
	}
}

// consume advances past the expected rune, reporting whether it was present.
func (l *Lexer) consume(expected rune) bool {
	c, ok := l.current()
	if !ok || c != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) readNumber() token.Token {
	start := l.pos
	isFloat := false

	for {
		c, ok := l.current()
		if !ok {
			break
		}
		if c >= '0' && c <= '9' {
			l.advance()
			continue
		}
		if c == '.' && !isFloat {
			// Only a digit after the dot makes this a float; a trailing dot
			// belongs to whatever follows.
			if next, ok := l.peek(); ok && next >= '0' && next <= '9' {
				isFloat = true
				l.advance()
				continue
			}
		}
		break
	}

	text := string(l.input[start:l.pos])
	if isFloat {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token.NewInvalid(rune(text[0]))
		}
		return token.NewFloat(value)
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token.NewInvalid(rune(text[0]))
	}
	return token.NewInt(value)
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.pos
	for {
		c, ok := l.current()
		if !ok || !isIdentPart(c) {
			break
		}
		l.advance()
	}

	text := string(l.input[start:l.pos])
	switch text {
	case "true":
		return token.NewBool(true)
	case "false":
		return token.NewBool(false)
	}
	if kind, ok := keywords[text]; ok {
		return token.Simple(kind)
	}
	return token.NewIdent(text)
}

func (l *Lexer) readAttribute() token.Token {
	l.advance() // consume '#'
	start := l.pos
	for {
		c, ok := l.current()
		if !ok || !isAlpha(c) {
			break
		}
		l.advance()
	}
	if kind, ok := attributes[string(l.input[start:l.pos])]; ok {
		return token.Simple(kind)
	}
	return token.NewInvalid('#')
}

func (l *Lexer) readString() token.Token {
	l.advance() // consume opening quote
	var out []rune

	for {
		c, ok := l.current()
		if !ok {
			// Unterminated string.
			return token.NewInvalid('"')
		}
		switch c {
		case '"':
			l.advance()
			return token.NewString(string(out))
		case '\\':
			l.advance()
			next, ok := l.current()
			if !ok {
				return token.NewInvalid('"')
			}
			switch next {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			default:
				out = append(out, next)
			}
			l.advance()
		default:
			out = append(out, c)
			l.advance()
		}
	}
}

// Scan collects the whole token stream for src, stopping before the EOF
// token. A stray rune in the input fails the scan.
func Scan(src string) ([]token.Token, error) {
	lx := New(src)
	var tokens []token.Token
	for {
		tok := lx.Next()
		switch tok.Kind {
		case token.EOF:
			return tokens, nil
		case token.Invalid:
			return nil, fmt.Errorf("invalid character %s", tok.Text)
		default:
			tokens = append(tokens, tok)
		}
	}
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(c rune) bool {
	return isAlpha(c) || c == '_'
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
