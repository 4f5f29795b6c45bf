package lexer

import "spirit/internal/token"

// Tokenize lexes src into a flat token slice, excluding the trailing EOF.
func Tokenize(src string) []token.Token {
	l := New(src)
	tokens := make([]token.Token, 0)
	for tok := l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
		tokens = append(tokens, tok)
	}
	return tokens
}

type TokenSliceProvider struct {
	tokens []token.Token
	pos    int
	end    int
}

func NewTokenSliceProvider(tokens []token.Token) *TokenSliceProvider {
	end := 0
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		end = last.Position + len(last.Literal)
	}
	return &TokenSliceProvider{
		tokens: tokens,
		pos:    0,
		end:    end,
	}
}

func (tsp *TokenSliceProvider) NextToken() token.Token {
	if tsp.pos >= len(tsp.tokens) {
		return token.Token{Type: token.EOF, Position: tsp.end}
	}
	tok := tsp.tokens[tsp.pos]
	tsp.pos++
	return tok
}
