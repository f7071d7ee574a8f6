package shunt

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an evaluation failure.
type ErrorKind int

const (
	// InequalParenthesis: open and close parenthesis counts differ.
	InequalParenthesis ErrorKind = iota + 1
	// OperatorMissingNumbers: an operator had fewer operands than it needs.
	OperatorMissingNumbers
	// DivideByZero: the right operand of a division was exactly zero.
	DivideByZero
	// MissingNumber: evaluation finished with an empty operand stack.
	MissingNumber
	// InternalError: the evaluator received a token the converter must never
	// emit. Signals a bug, not bad input.
	InternalError
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case InequalParenthesis:
		return "InequalParenthesis"
	case OperatorMissingNumbers:
		return "OperatorMissingNumbers"
	case DivideByZero:
		return "DivideByZero"
	case MissingNumber:
		return "MissingNumber"
	case InternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every stage of the pipeline.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     int // byte offset of the offending token, -1 if none
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	if e.Pos >= 0 {
		return fmt.Sprintf("%s: %s (at position %d)", e.Kind, e.Message, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInequalParenthesis     = &Error{Kind: InequalParenthesis, Pos: -1}
	ErrOperatorMissingNumbers = &Error{Kind: OperatorMissingNumbers, Pos: -1}
	ErrDivideByZero           = &Error{Kind: DivideByZero, Pos: -1}
	ErrMissingNumber          = &Error{Kind: MissingNumber, Pos: -1}
	ErrInternal               = &Error{Kind: InternalError, Pos: -1}
)

// KindOf returns the kind of err if it is (or wraps) an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func newInequalParenthesisError(opened, closed int) *Error {
	return &Error{
		Kind:    InequalParenthesis,
		Message: fmt.Sprintf("%d opening and %d closing parentheses", opened, closed),
		Pos:     -1,
	}
}

func newOperatorMissingNumbersError(op Token) *Error {
	return &Error{
		Kind:    OperatorMissingNumbers,
		Message: fmt.Sprintf("operator %s is missing an operand", op),
		Pos:     op.Pos,
	}
}

func newDivideByZeroError(op Token) *Error {
	return &Error{Kind: DivideByZero, Message: "division by zero", Pos: op.Pos}
}

func newMissingNumberError() *Error {
	return &Error{Kind: MissingNumber, Message: "expression has no value", Pos: -1}
}

func newInternalError(tok Token) *Error {
	return &Error{
		Kind:    InternalError,
		Message: fmt.Sprintf("unexpected %s token in postfix sequence", tok.Kind),
		Pos:     tok.Pos,
	}
}
