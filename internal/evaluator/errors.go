package evaluator

import (
	"errors"
	"fmt"

	"spirit/internal/ast"
)

var (
	ErrNotFunction     = errors.New("not a function")
	ErrUndefinedNative = errors.New("undefined native")
	ErrDepthExceeded   = errors.New("maximum evaluation depth exceeded")
)

// NotFunctionError carries the value found on the left of an application.
type NotFunctionError struct {
	Value ast.Node
}

func (e *NotFunctionError) Error() string {
	return fmt.Sprintf("calling %s which is not a function", e.Value)
}

func (e *NotFunctionError) Is(target error) bool { return target == ErrNotFunction }

type UndefinedNativeError struct {
	Name string
}

func (e *UndefinedNativeError) Error() string {
	return fmt.Sprintf("undefined native %s", e.Name)
}

func (e *UndefinedNativeError) Is(target error) bool { return target == ErrUndefinedNative }

type DepthError struct {
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%v (%d)", ErrDepthExceeded, e.Limit)
}

func (e *DepthError) Is(target error) bool { return target == ErrDepthExceeded }
