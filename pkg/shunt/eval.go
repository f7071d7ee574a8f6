package shunt

import "math"

// SolvePostfix evaluates a postfix token sequence with an operand stack.
//
// The result is the bottom-most value left on the stack. Any further values
// left over are ignored.
func SolvePostfix(postfix []Token) (float64, error) {
	var stack []float64

	pop := func() (float64, bool) {
		if len(stack) == 0 {
			return 0, false
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, true
	}

	for _, tok := range postfix {
		switch tok.Kind {
		case Number, IntLiteral:
			v, _ := tok.Value()
			stack = append(stack, v)

		case Neg:
			v, ok := pop()
			if !ok {
				return 0, newOperatorMissingNumbersError(tok)
			}
			stack = append(stack, -v)

		case Add, Sub, Mul, Div, Exp:
			b, ok := pop()
			if !ok {
				return 0, newOperatorMissingNumbersError(tok)
			}
			a, ok := pop()
			if !ok {
				return 0, newOperatorMissingNumbersError(tok)
			}
			v, err := apply(tok, a, b)
			if err != nil {
				return 0, err
			}
			stack = append(stack, v)

		default:
			return 0, newInternalError(tok)
		}
	}

	if len(stack) == 0 {
		return 0, newMissingNumberError()
	}
	return stack[0], nil
}

func apply(op Token, a, b float64) (float64, error) {
	switch op.Kind {
	case Add:
		return a + b, nil
	case Sub:
		return a - b, nil
	case Mul:
		return a * b, nil
	case Div:
		if b == 0 {
			return 0, newDivideByZeroError(op)
		}
		return a / b, nil
	case Exp:
		return math.Pow(a, b), nil
	default:
		return 0, newInternalError(op)
	}
}

// Solve evaluates an infix arithmetic expression.
//
// Characters that are not part of the expression grammar, whitespace
// included, are ignored. Use NegGlyph for unary negation; the ASCII hyphen is
// always binary subtraction.
func Solve(text string) (float64, error) {
	postfix, err := ShuntString(text)
	if err != nil {
		return 0, err
	}
	return SolvePostfix(postfix)
}
