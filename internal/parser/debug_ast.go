package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"spirit/internal/ast"
)

// WalkAST recursively traverses an AST and serializes it into a map structure for JSON output.
func WalkAST(node ast.Node) interface{} {
	switch n := node.(type) {
	case *ast.Nil:
		return map[string]interface{}{
			"0.type": "Nil",
		}

	case *ast.Const:
		return map[string]interface{}{
			"0.type":  "Const",
			"1.value": n.Value,
		}

	case *ast.Symbol:
		return map[string]interface{}{
			"0.type": "Symbol",
			"1.name": n.Name,
		}

	case *ast.Let:
		return map[string]interface{}{
			"0.type": "Let",
			"1.name": n.Name,
			"2.head": WalkAST(n.Head),
			"3.body": WalkAST(n.Body),
		}

	case *ast.Def:
		return map[string]interface{}{
			"0.type":  "Def",
			"1.name":  n.Name,
			"2.value": WalkAST(n.Value),
		}

	case *ast.Function:
		return map[string]interface{}{
			"0.type":  "Function",
			"1.param": n.Param,
			"2.body":  WalkAST(n.Body),
		}

	case *ast.Apply:
		return map[string]interface{}{
			"0.type":     "Apply",
			"1.function": WalkAST(n.Func),
			"2.argument": WalkAST(n.Arg),
		}

	case *ast.Native1:
		return map[string]interface{}{
			"0.type": "Native1",
			"1.name": n.Name,
			"2.arg":  WalkAST(n.Arg),
		}

	case *ast.Native2:
		return map[string]interface{}{
			"0.type": "Native2",
			"1.name": n.Name,
			"2.arg0": WalkAST(n.Arg0),
			"3.arg1": WalkAST(n.Arg1),
		}

	case *ast.Cond:
		return map[string]interface{}{
			"0.type":      "Cond",
			"1.condition": WalkAST(n.Cond),
			"2.then":      WalkAST(n.Then),
			"3.else":      WalkAST(n.Else),
		}

	case nil:
		return nil

	default:
		return map[string]interface{}{
			"0.type": "Unknown",
			"1.node": fmt.Sprintf("%T", n),
		}
	}
}

func RenderASTAsJSON(nodes ...ast.Node) (string, error) {
	walked := make([]interface{}, len(nodes))
	for i, n := range nodes {
		walked[i] = WalkAST(n)
	}

	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(walked); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %v", err)
	}
	return buf.String(), nil
}

// WriteASTToJSON writes the JSON rendering of nodes to filename.
func WriteASTToJSON(filename string, nodes ...ast.Node) error {
	out, err := RenderASTAsJSON(nodes...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write AST to %s: %w", filename, err)
	}
	return nil
}
