package parser

import (
	"errors"
	"fmt"
	"strconv"

	"spirit/internal/ast"
	"spirit/internal/lexer"
	"spirit/internal/token"
)

// Error is a parse failure located in the source text.
type Error struct {
	Position int
	Line     int
	Column   int
	Msg      string

	// Incomplete is set when the input ran out before the expression did.
	Incomplete bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%3d:%2d] %s", e.Line, e.Column, e.Msg)
}

// Parser builds one AST node per prefix expression. The grammar has no
// precedence and no grouping: every form starts with a keyword that fixes how
// many sub-expressions follow.
type Parser struct {
	tokenizer lexer.Tokenizer
	src       string // source code here

	curToken token.Token
}

func New(l lexer.Tokenizer, source string) *Parser {
	p := &Parser{
		tokenizer: l,
		src:       source,
	}
	p.nextToken()
	return p
}

// Parse parses every expression in src.
func Parse(src string) ([]ast.Node, error) {
	return New(lexer.New(src), src).ParseProgram()
}

// ParseOne parses src as exactly one expression.
func ParseOne(src string) (ast.Node, error) {
	return New(lexer.New(src), src).ParseExpression()
}

func (p *Parser) nextToken() {
	p.curToken = p.tokenizer.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) errorf(message string, args ...interface{}) *Error {
	line, col := GetLineAndColumn(p.src, p.curToken.Position)
	return &Error{
		Position: p.curToken.Position,
		Line:     line,
		Column:   col,
		Msg:      fmt.Sprintf(message, args...),

		Incomplete: p.curTokenIs(token.EOF),
	}
}

// IsIncomplete reports whether err is a parse error caused by truncated input,
// so more lines could complete it.
func IsIncomplete(err error) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Incomplete
}

func (p *Parser) unexpected() *Error {
	if p.curTokenIs(token.EOF) {
		return p.errorf("unexpected end of input")
	}
	if p.curTokenIs(token.ILLEGAL) {
		return p.errorf("illegal token %q", p.curToken.Literal)
	}
	return p.errorf("unexpected token %q", p.curToken.Literal)
}

// expect consumes the current token when it has type t.
func (p *Parser) expect(t token.TokenType) error {
	if !p.curTokenIs(t) {
		if p.curTokenIs(token.EOF) {
			return p.errorf("expected %s, got end of input", t)
		}
		return p.errorf("expected %s, got %q", t, p.curToken.Literal)
	}
	p.nextToken()
	return nil
}

// expectName consumes a SYMBOL token and returns its literal.
func (p *Parser) expectName() (string, error) {
	if !p.curTokenIs(token.SYMBOL) {
		if p.curTokenIs(token.EOF) {
			return "", p.errorf("expected a name, got end of input")
		}
		if token.IsKeyword(p.curToken.Literal) {
			return "", p.errorf("expected a name, got keyword %q", p.curToken.Literal)
		}
		return "", p.errorf("expected a name, got %q", p.curToken.Literal)
	}
	name := p.curToken.Literal
	p.nextToken()
	return name, nil
}

// ParseProgram parses expressions until the input is exhausted.
func (p *Parser) ParseProgram() ([]ast.Node, error) {
	program := []ast.Node{}
	for !p.curTokenIs(token.EOF) {
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		program = append(program, node)
	}
	return program, nil
}

// ParseExpression parses a single expression and rejects trailing input.
func (p *Parser) ParseExpression() (ast.Node, error) {
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(token.EOF) {
		return nil, p.errorf("unexpected trailing token %q", p.curToken.Literal)
	}
	return node, nil
}

func (p *Parser) parseExpression() (ast.Node, error) {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLet()
	case token.DEF:
		return p.parseDef()
	case token.APPLY:
		return p.parseApply()
	case token.NATIVE1:
		return p.parseNative1()
	case token.NATIVE2:
		return p.parseNative2()
	case token.FUNCTION:
		return p.parseFunction()
	case token.IF:
		return p.parseCond()
	case token.NUMBER:
		return p.parseNumber()
	case token.SYMBOL:
		sym := &ast.Symbol{Name: p.curToken.Literal}
		p.nextToken()
		return sym, nil
	default:
		return nil, p.unexpected()
	}
}

// let NAME = EXPR in EXPR
func (p *Parser) parseLet() (ast.Node, error) {
	p.nextToken()
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	head, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.IN); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Let{Name: name, Head: head, Body: body}, nil
}

// def NAME = EXPR
func (p *Parser) parseDef() (ast.Node, error) {
	p.nextToken()
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Def{Name: name, Value: value}, nil
}

// @ EXPR EXPR | apply EXPR EXPR
func (p *Parser) parseApply() (ast.Node, error) {
	p.nextToken()
	fn, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Apply{Func: fn, Arg: arg}, nil
}

// native1 NAME EXPR
func (p *Parser) parseNative1() (ast.Node, error) {
	p.nextToken()
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Native1{Name: name, Arg: arg}, nil
}

// native2 NAME EXPR EXPR
func (p *Parser) parseNative2() (ast.Node, error) {
	p.nextToken()
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	arg0, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	arg1, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Native2{Name: name, Arg0: arg0, Arg1: arg1}, nil
}

// fn NAME -> EXPR
func (p *Parser) parseFunction() (ast.Node, error) {
	p.nextToken()
	param, err := p.expectName()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Param: param, Body: body}, nil
}

// if EXPR then EXPR else EXPR
func (p *Parser) parseCond() (ast.Node, error) {
	p.nextToken()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.THEN); err != nil {
		return nil, err
	}
	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.ELSE); err != nil {
		return nil, err
	}
	otherwise, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Cond{Cond: cond, Then: then, Else: otherwise}, nil
}

func (p *Parser) parseNumber() (ast.Node, error) {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		return nil, p.errorf("could not parse %q as integer", p.curToken.Literal)
	}
	p.nextToken()
	return &ast.Const{Value: value}, nil
}

func GetLineAndColumn(src string, pos int) (line int, column int) {
	line = 1
	column = 1
	for i, char := range src {
		if i == pos {
			break
		}
		if char == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return
}
