package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	SYMBOL = "SYMBOL" // x, add, native:add, true
	NUMBER = "NUMBER" // 1343456, -7

	// Punctuation words
	ASSIGN = "="
	ARROW  = "->"
	APPLY  = "@"

	// Keywords
	LET      = "LET"
	IN       = "IN"
	DEF      = "DEF"
	FUNCTION = "FUNCTION"
	IF       = "IF"
	THEN     = "THEN"
	ELSE     = "ELSE"
	NATIVE1  = "NATIVE1"
	NATIVE2  = "NATIVE2"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src index of the token
}

var keywords = map[string]TokenType{
	// punctuation
	"=":  ASSIGN,
	"->": ARROW,
	"@":  APPLY,

	// declarations
	"let": LET,
	"in":  IN,
	"def": DEF,
	"fn":  FUNCTION,

	// flow control
	"if":    IF,
	"then":  THEN,
	"else":  ELSE,
	"apply": APPLY,

	// host calls
	"native1": NATIVE1,
	"native2": NATIVE2,
}

// LookupWord returns the keyword type for word, or SYMBOL when word is not reserved.
func LookupWord(word string) TokenType {
	if tok, ok := keywords[word]; ok {
		return tok
	}
	return SYMBOL
}

// IsKeyword reports whether word is reserved by the grammar.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}
