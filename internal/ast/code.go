package ast

import "strings"

// Code renders n as source text the parser accepts. For any node the parser can
// produce, parsing the result yields a node Equal to n. String is the display form
// and is not re-parseable for native calls.
func Code(n Node) string {
	var out strings.Builder
	writeCode(&out, n)
	return out.String()
}

func writeCode(out *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Nil:
		// no literal syntax, only evaluation produces Nil
		out.WriteString("Nil")
	case *Const, *Symbol:
		out.WriteString(n.String())
	case *Let:
		out.WriteString("let " + n.Name + " = ")
		writeCode(out, n.Head)
		out.WriteString(" in ")
		writeCode(out, n.Body)
	case *Def:
		out.WriteString("def " + n.Name + " = ")
		writeCode(out, n.Value)
	case *Function:
		out.WriteString("fn " + n.Param + " -> ")
		writeCode(out, n.Body)
	case *Apply:
		out.WriteString("@ ")
		writeCode(out, n.Func)
		out.WriteString(" ")
		writeCode(out, n.Arg)
	case *Native1:
		out.WriteString("native1 " + n.Name + " ")
		writeCode(out, n.Arg)
	case *Native2:
		out.WriteString("native2 " + n.Name + " ")
		writeCode(out, n.Arg0)
		out.WriteString(" ")
		writeCode(out, n.Arg1)
	case *Cond:
		out.WriteString("if ")
		writeCode(out, n.Cond)
		out.WriteString(" then ")
		writeCode(out, n.Then)
		out.WriteString(" else ")
		writeCode(out, n.Else)
	}
}
