package shunt

import (
	"iter"
	"strings"
)

// Shunt reorders an infix token sequence into postfix order.
//
// Binary operators pop every stacked operator of equal or higher rank before
// being pushed, so all of them (exponentiation included) associate to the
// left: 2^3^2 is (2^3)^2. Neg is a prefix operator: it never pops anything
// and is emitted as soon as the operand that follows it is complete.
//
// Parentheses are validated by count only. An expression such as "())(" has
// as many opening as closing parentheses and is accepted.
func Shunt(tokens iter.Seq[Token]) ([]Token, error) {
	var (
		opstack []Token
		postfix []Token
		opened  int
		closed  int
	)

	pop := func() Token {
		top := opstack[len(opstack)-1]
		opstack = opstack[:len(opstack)-1]
		return top
	}

	// attachNeg emits the negations waiting for the operand just completed.
	attachNeg := func() {
		for len(opstack) > 0 && opstack[len(opstack)-1].Kind == Neg {
			postfix = append(postfix, pop())
		}
	}

	for tok := range tokens {
		switch tok.Kind {
		case Number, IntLiteral:
			postfix = append(postfix, tok)
			attachNeg()

		case Neg:
			opstack = append(opstack, tok)

		case Add, Sub, Mul, Div, Exp:
			rank, _ := tok.Precedence()
			for len(opstack) > 0 {
				top, ok := opstack[len(opstack)-1].Precedence()
				if !ok || top < rank {
					break
				}
				postfix = append(postfix, pop())
			}
			opstack = append(opstack, tok)

		case Open:
			opened++
			opstack = append(opstack, tok)

		case Close:
			closed++
			for len(opstack) > 0 {
				top := pop()
				if top.Kind == Open {
					attachNeg()
					break
				}
				postfix = append(postfix, top)
			}

		default:
			// Invalid tokens are filtered by Tokenize.
		}
	}

	for len(opstack) > 0 {
		top := pop()
		if top.Kind == Open {
			continue
		}
		postfix = append(postfix, top)
	}

	if opened != closed {
		return nil, newInequalParenthesisError(opened, closed)
	}
	return postfix, nil
}

// ShuntString tokenizes text and converts it to postfix order.
func ShuntString(text string) ([]Token, error) {
	return Shunt(Tokenize(text))
}

// Postfix renders the postfix form of text as space-separated lexemes.
func Postfix(text string) (string, error) {
	tokens, err := ShuntString(text)
	if err != nil {
		return "", err
	}
	return FormatTokens(tokens), nil
}

// FormatTokens joins the lexemes of tokens with single spaces.
func FormatTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.String()
	}
	return strings.Join(parts, " ")
}
