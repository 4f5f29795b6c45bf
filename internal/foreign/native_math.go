package foreign

import (
	"fmt"
	"math"

	"spirit/internal/ast"
)

func numericOp(op string, args []ast.Node, f func(l, r int64) (int64, error)) (ast.Node, error) {
	lhs, rhs, err := unpack2(args)
	if err != nil {
		return nil, err
	}
	l, lok := lhs.(*ast.Const)
	r, rok := rhs.(*ast.Const)
	if !lok || !rok {
		return nil, &TypeError{Op: op, Args: args}
	}
	v, err := f(l.Value, r.Value)
	if err != nil {
		return nil, fmt.Errorf("%s %d %d: %w", op, l.Value, r.Value, err)
	}
	return &ast.Const{Value: v}, nil
}

func fnAdd(args []ast.Node) (ast.Node, error) {
	return numericOp("add", args, func(l, r int64) (int64, error) {
		if (r > 0 && l > math.MaxInt64-r) || (r < 0 && l < math.MinInt64-r) {
			return 0, ErrOverflow
		}
		return l + r, nil
	})
}

func fnSub(args []ast.Node) (ast.Node, error) {
	return numericOp("sub", args, func(l, r int64) (int64, error) {
		if (r < 0 && l > math.MaxInt64+r) || (r > 0 && l < math.MinInt64+r) {
			return 0, ErrOverflow
		}
		return l - r, nil
	})
}

func fnMul(args []ast.Node) (ast.Node, error) {
	return numericOp("mul", args, func(l, r int64) (int64, error) {
		if l == 0 || r == 0 {
			return 0, nil
		}
		v := l * r
		if v/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return 0, ErrOverflow
		}
		return v, nil
	})
}

// fnDiv truncates toward zero.
func fnDiv(args []ast.Node) (ast.Node, error) {
	return numericOp("div", args, func(l, r int64) (int64, error) {
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		if l == math.MinInt64 && r == -1 {
			return 0, ErrOverflow
		}
		return l / r, nil
	})
}

// fnMod takes the sign of the dividend.
func fnMod(args []ast.Node) (ast.Node, error) {
	return numericOp("mod", args, func(l, r int64) (int64, error) {
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		if r == -1 {
			return 0, nil
		}
		return l % r, nil
	})
}
