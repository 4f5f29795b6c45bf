package lexer

import (
	"spirit/internal/token"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input        string
	position     int       // current byte position in input (points to start of current rune)
	readPosition int       // next byte position in input (start of next rune)
	ch           rune      // current rune under examination; meaningless once atEOF
	currentMode  Tokenizer // word tokenizer strategy
}

type Tokenizer interface {
	NextToken() token.Token
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.currentMode = NewGeneralTokenizer(l)
	l.readChar()
	return l
}

func (l *Lexer) NextToken() token.Token {
	return l.currentMode.NextToken()
}

func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case !l.atEOF() && l.ch == '#':
			l.skipToLineEnd()
		case !l.atEOF() && unicode.IsSpace(l.ch):
			l.readChar()
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for !l.atEOF() && l.ch != '\n' {
		l.readChar()
	}
}

// atEOF reports whether the whole input has been consumed. A NUL rune in the
// input is ordinary text.
func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// readWord returns the substring (bytes) covering the run of non-space runes
func (l *Lexer) readWord() string {
	start := l.position
	for !l.atEOF() && !unicode.IsSpace(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// looksNumeric reports whether word has the shape of an integer literal, with an
// optional leading sign.
func looksNumeric(word string) bool {
	if word == "" {
		return false
	}
	if word[0] == '-' || word[0] == '+' {
		word = word[1:]
	}
	if word == "" {
		return false
	}
	for _, ch := range word {
		if !isDigit(ch) {
			return false
		}
	}
	return true
}
