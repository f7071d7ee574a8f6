// Package shunt implements the calculator's arithmetic core: a tokenizer, a
// shunting-yard infix-to-postfix converter and a postfix evaluator.
//
// The three stages compose into Solve. Every call is independent; nothing in
// this package holds state between calls, so it is safe for concurrent use.
package shunt

import (
	"fmt"
	"strconv"
)

// NegGlyph is the unary negation glyph (U+2013 EN DASH). It is distinct from
// the ASCII hyphen, which always means subtraction.
const NegGlyph = '–'

// Kind identifies the variant of a Token.
type Kind int

const (
	Invalid Kind = iota // unrecognized lexeme

	// Binary operators
	Add // +
	Sub // -
	Mul // *
	Div // /
	Exp // ^

	// Parentheses
	Open  // (
	Close // )

	// Literals
	Number     // literal with a fractional part
	IntLiteral // literal without a fractional part

	Neg // unary negation, NegGlyph
)

// Token is a single lexical token. Only the value field matching Kind has
// meaning: Num for Number, Int for IntLiteral.
type Token struct {
	Kind Kind
	Num  float64
	Int  int64
	Text string // raw lexeme
	Pos  int    // byte offset in the source
}

// String returns a debug-friendly name for the kind.
func (k Kind) String() string {
	switch k {
	case Invalid:
		return "INVALID"
	case Add:
		return "ADD"
	case Sub:
		return "SUB"
	case Mul:
		return "MUL"
	case Div:
		return "DIV"
	case Exp:
		return "EXP"
	case Open:
		return "OPEN"
	case Close:
		return "CLOSE"
	case Number:
		return "NUMBER"
	case IntLiteral:
		return "INT"
	case Neg:
		return "NEG"
	default:
		return "UNKNOWN"
	}
}

// Precedence returns the binding rank of an operator token. Parentheses,
// literals and invalid tokens have no rank.
func (t Token) Precedence() (int, bool) {
	switch t.Kind {
	case Neg:
		return 0, true
	case Add, Sub:
		return 1, true
	case Mul, Div:
		return 2, true
	case Exp:
		return 3, true
	default:
		return 0, false
	}
}

// IsLiteral reports whether the token is a numeric literal.
func (t Token) IsLiteral() bool {
	return t.Kind == Number || t.Kind == IntLiteral
}

// IsOperator reports whether the token is a unary or binary operator.
func (t Token) IsOperator() bool {
	_, ok := t.Precedence()
	return ok
}

// Value returns the numeric value of a literal token.
func (t Token) Value() (float64, bool) {
	switch t.Kind {
	case Number:
		return t.Num, true
	case IntLiteral:
		return float64(t.Int), true
	default:
		return 0, false
	}
}

// String renders the token as its lexeme.
func (t Token) String() string {
	switch t.Kind {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Exp:
		return "^"
	case Open:
		return "("
	case Close:
		return ")"
	case Neg:
		return string(NegGlyph)
	case Number:
		if t.Text != "" {
			return t.Text
		}
		return strconv.FormatFloat(t.Num, 'f', -1, 64)
	case IntLiteral:
		return strconv.FormatInt(t.Int, 10)
	default:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	}
}
