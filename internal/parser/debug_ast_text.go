package parser

import (
	"fmt"
	"spirit/internal/ast"
	"strings"
)

// RenderASTAsText produces an indented tree, one node per line, for debugging how
// a prefix expression was grouped.
func RenderASTAsText(node ast.Node, indent int) string {
	var sb strings.Builder
	renderText(&sb, node, indent)
	return strings.TrimSuffix(sb.String(), "\n")
}

func renderText(sb *strings.Builder, node ast.Node, indent int) {
	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case nil:
		sb.WriteString(sp + "nil\n")
	case *ast.Nil, *ast.Const, *ast.Symbol:
		fmt.Fprintf(sb, "%s%s %s\n", sp, ast.TypeName(n), n.String())
	case *ast.Let:
		fmt.Fprintf(sb, "%sLet %s\n", sp, n.Name)
		renderText(sb, n.Head, indent+1)
		renderText(sb, n.Body, indent+1)
	case *ast.Def:
		fmt.Fprintf(sb, "%sDef %s\n", sp, n.Name)
		renderText(sb, n.Value, indent+1)
	case *ast.Function:
		fmt.Fprintf(sb, "%sFunction %s\n", sp, n.Param)
		renderText(sb, n.Body, indent+1)
	case *ast.Apply:
		sb.WriteString(sp + "Apply\n")
		renderText(sb, n.Func, indent+1)
		renderText(sb, n.Arg, indent+1)
	case *ast.Native1:
		fmt.Fprintf(sb, "%sNative1 %s\n", sp, n.Name)
		renderText(sb, n.Arg, indent+1)
	case *ast.Native2:
		fmt.Fprintf(sb, "%sNative2 %s\n", sp, n.Name)
		renderText(sb, n.Arg0, indent+1)
		renderText(sb, n.Arg1, indent+1)
	case *ast.Cond:
		sb.WriteString(sp + "Cond\n")
		renderText(sb, n.Cond, indent+1)
		renderText(sb, n.Then, indent+1)
		renderText(sb, n.Else, indent+1)
	}
}
