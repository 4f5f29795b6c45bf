package foreign

import (
	"fmt"
	"io"

	"spirit/internal/ast"
)

func fnPrint(out io.Writer) NativeFn {
	return func(args []ast.Node) (ast.Node, error) {
		arg, err := unpack1(args)
		if err != nil {
			return nil, err
		}
		if _, err := fmt.Fprintln(out, arg.String()); err != nil {
			return nil, fmt.Errorf("print: %w", err)
		}
		return &ast.Nil{}, nil
	}
}
