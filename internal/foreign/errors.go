package foreign

import (
	"errors"
	"fmt"

	"spirit/internal/ast"
)

var (
	ErrType  = errors.New("type error")
	ErrArity = errors.New("wrong arity")

	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("integer overflow")
)

type ArityError struct {
	Expected int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("wrong arity: expected %d, got %d", e.Expected, e.Got)
}

func (e *ArityError) Is(target error) bool { return target == ErrArity }

type TypeError struct {
	Op   string
	Args []ast.Node
}

func (e *TypeError) Error() string {
	msg := "type error: " + e.Op + " does not accept"
	for i, a := range e.Args {
		if i > 0 {
			msg += " and"
		}
		msg += " " + ast.TypeName(a)
	}
	return msg
}

func (e *TypeError) Is(target error) bool { return target == ErrType }

func unpack1(args []ast.Node) (ast.Node, error) {
	if len(args) != 1 {
		return nil, &ArityError{Expected: 1, Got: len(args)}
	}
	return args[0], nil
}

func unpack2(args []ast.Node) (ast.Node, ast.Node, error) {
	if len(args) != 2 {
		return nil, nil, &ArityError{Expected: 2, Got: len(args)}
	}
	return args[0], args[1], nil
}
