package shunt

import (
	"iter"
	"strconv"
	"unicode/utf8"
)

// Lexer scans an expression string one token at a time. A Lexer makes a
// single forward pass over its input and cannot be rewound.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next token from the input. The second result is false once
// the input is exhausted.
func (l *Lexer) Next() (Token, bool) {
	if l.pos >= len(l.input) {
		return Token{}, false
	}

	ch := l.input[l.pos]
	if isDigit(ch) {
		return l.readNumber(), true
	}

	start := l.pos
	switch ch {
	case '+':
		l.pos++
		return Token{Kind: Add, Text: "+", Pos: start}, true
	case '-':
		l.pos++
		return Token{Kind: Sub, Text: "-", Pos: start}, true
	case '*':
		l.pos++
		return Token{Kind: Mul, Text: "*", Pos: start}, true
	case '/':
		l.pos++
		return Token{Kind: Div, Text: "/", Pos: start}, true
	case '^':
		l.pos++
		return Token{Kind: Exp, Text: "^", Pos: start}, true
	case '(':
		l.pos++
		return Token{Kind: Open, Text: "(", Pos: start}, true
	case ')':
		l.pos++
		return Token{Kind: Close, Text: ")", Pos: start}, true
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	text := l.input[start:l.pos]
	if r == NegGlyph {
		return Token{Kind: Neg, Text: text, Pos: start}, true
	}
	// Whitespace, a lone '.', invalid UTF-8 and everything else.
	return Token{Kind: Invalid, Text: text, Pos: start}, true
}

// readNumber reads an integer or decimal literal. A '.' only joins the
// literal when at least one digit follows it.
func (l *Lexer) readNumber() Token {
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}

	isFloat := false
	if l.pos+1 < len(l.input) && l.input[l.pos] == '.' && isDigit(l.input[l.pos+1]) {
		isFloat = true
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}

	raw := l.input[start:l.pos]
	if !isFloat {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Token{Kind: IntLiteral, Int: i, Text: raw, Pos: start}
		}
		// Too large for int64; keep the magnitude as a float.
	}
	f, _ := strconv.ParseFloat(raw, 64)
	return Token{Kind: Number, Num: f, Text: raw, Pos: start}
}

// Scan returns every token in input, including Invalid ones.
func Scan(input string) []Token {
	var tokens []Token
	l := NewLexer(input)
	for {
		tok, ok := l.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Tokenize returns the token sequence for input with Invalid tokens removed.
// The sequence is backed by a single Lexer and is meant to be ranged over
// once.
func Tokenize(input string) iter.Seq[Token] {
	l := NewLexer(input)
	return func(yield func(Token) bool) {
		for {
			tok, ok := l.Next()
			if !ok {
				return
			}
			if tok.Kind == Invalid {
				continue
			}
			if !yield(tok) {
				return
			}
		}
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
