package lexer

import (
	"strconv"

	"spirit/internal/token"
)

type GeneralTokenizer struct {
	lexer *Lexer
}

func NewGeneralTokenizer(lexer *Lexer) *GeneralTokenizer {
	return &GeneralTokenizer{lexer: lexer}
}

func (g *GeneralTokenizer) NextToken() token.Token {
	var tok token.Token

	g.lexer.skipWhitespace()

	tok.Position = g.lexer.position
	if g.lexer.atEOF() {
		tok.Type = token.EOF
		return tok
	}

	tok.Literal = g.lexer.readWord()
	switch {
	case looksNumeric(tok.Literal):
		if _, err := strconv.ParseInt(tok.Literal, 10, 64); err != nil {
			// out of int64 range
			tok.Type = token.ILLEGAL
		} else {
			tok.Type = token.NUMBER
		}
	default:
		tok.Type = token.LookupWord(tok.Literal)
	}
	return tok
}
