package foreign

import (
	"strings"

	"spirit/internal/ast"
)

func fnEq(args []ast.Node) (ast.Node, error) {
	lhs, rhs, err := unpack2(args)
	if err != nil {
		return nil, err
	}
	return ast.Bool(ast.Equal(lhs, rhs)), nil
}

// fnEqNum compares two Consts and answers Const 1 or Const 0.
func fnEqNum(args []ast.Node) (ast.Node, error) {
	return numericOp("eqnum", args, func(l, r int64) (int64, error) {
		if l == r {
			return 1, nil
		}
		return 0, nil
	})
}

func fnLt(args []ast.Node) (ast.Node, error) {
	return ordering("lt", args, func(c int) bool { return c < 0 })
}

func fnGt(args []ast.Node) (ast.Node, error) {
	return ordering("gt", args, func(c int) bool { return c > 0 })
}

// ordering compares Const pairs numerically and Symbol pairs lexicographically.
func ordering(op string, args []ast.Node, accept func(c int) bool) (ast.Node, error) {
	lhs, rhs, err := unpack2(args)
	if err != nil {
		return nil, err
	}
	switch l := lhs.(type) {
	case *ast.Const:
		if r, ok := rhs.(*ast.Const); ok {
			c := 0
			if l.Value < r.Value {
				c = -1
			} else if l.Value > r.Value {
				c = 1
			}
			return ast.Bool(accept(c)), nil
		}
	case *ast.Symbol:
		if r, ok := rhs.(*ast.Symbol); ok {
			return ast.Bool(accept(strings.Compare(l.Name, r.Name))), nil
		}
	}
	return nil, &TypeError{Op: op, Args: args}
}
