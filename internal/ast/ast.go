// Package ast holds the single tree type the interpreter uses both for parsed
// programs and for the values evaluation produces. A fully reduced node is itself
// a valid program fragment.
package ast

import (
	"bytes"
	"strconv"
)

const (
	TrueName  = "true"
	FalseName = "false"
)

// The base Node interface
type Node interface {
	String() string
	node()
}

type Nil struct{}

func (n *Nil) node()          {}
func (n *Nil) String() string { return "Nil" }

type Const struct {
	Value int64
}

func (c *Const) node()          {}
func (c *Const) String() string { return strconv.FormatInt(c.Value, 10) }

// Symbol is an identifier that has not been looked up, or a bare symbolic value.
// The names "true" and "false" double as the language's booleans.
type Symbol struct {
	Name string
}

func (s *Symbol) node()          {}
func (s *Symbol) String() string { return s.Name }

type Let struct {
	Name string
	Head Node
	Body Node
}

func (l *Let) node() {}
func (l *Let) String() string {
	var out bytes.Buffer
	out.WriteString("let ")
	out.WriteString(l.Name)
	out.WriteString(" = ")
	out.WriteString(l.Head.String())
	out.WriteString(" in ")
	out.WriteString(l.Body.String())
	return out.String()
}

type Def struct {
	Name  string
	Value Node
}

func (d *Def) node() {}
func (d *Def) String() string {
	return "def " + d.Name + " = " + d.Value.String()
}

// Function is a single-parameter abstraction. It captures no environment.
type Function struct {
	Param string
	Body  Node
}

func (f *Function) node() {}
func (f *Function) String() string {
	return "fn " + f.Param + " -> " + f.Body.String()
}

type Apply struct {
	Func Node
	Arg  Node
}

func (a *Apply) node() {}
func (a *Apply) String() string {
	return "@ " + a.Func.String() + " " + a.Arg.String()
}

type Native1 struct {
	Name string
	Arg  Node
}

func (n *Native1) node() {}
func (n *Native1) String() string {
	return "native " + n.Name + " " + n.Arg.String()
}

type Native2 struct {
	Name string
	Arg0 Node
	Arg1 Node
}

func (n *Native2) node() {}
func (n *Native2) String() string {
	return "native " + n.Name + " " + n.Arg0.String() + " " + n.Arg1.String()
}

type Cond struct {
	Cond Node
	Then Node
	Else Node
}

func (c *Cond) node() {}
func (c *Cond) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(c.Cond.String())
	// the double space is part of the canonical rendering
	out.WriteString("  then ")
	out.WriteString(c.Then.String())
	out.WriteString(" else ")
	out.WriteString(c.Else.String())
	return out.String()
}

func True() *Symbol  { return &Symbol{Name: TrueName} }
func False() *Symbol { return &Symbol{Name: FalseName} }

func Bool(b bool) *Symbol {
	if b {
		return True()
	}
	return False()
}

// IsTrue reports whether n is the symbol true. Nothing else is truthy.
func IsTrue(n Node) bool {
	s, ok := n.(*Symbol)
	return ok && s.Name == TrueName
}

// Equal reports structural equality: same variant and equal children.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *Const:
		b, ok := b.(*Const)
		return ok && a.Value == b.Value
	case *Symbol:
		b, ok := b.(*Symbol)
		return ok && a.Name == b.Name
	case *Let:
		b, ok := b.(*Let)
		return ok && a.Name == b.Name && Equal(a.Head, b.Head) && Equal(a.Body, b.Body)
	case *Def:
		b, ok := b.(*Def)
		return ok && a.Name == b.Name && Equal(a.Value, b.Value)
	case *Function:
		b, ok := b.(*Function)
		return ok && a.Param == b.Param && Equal(a.Body, b.Body)
	case *Apply:
		b, ok := b.(*Apply)
		return ok && Equal(a.Func, b.Func) && Equal(a.Arg, b.Arg)
	case *Native1:
		b, ok := b.(*Native1)
		return ok && a.Name == b.Name && Equal(a.Arg, b.Arg)
	case *Native2:
		b, ok := b.(*Native2)
		return ok && a.Name == b.Name && Equal(a.Arg0, b.Arg0) && Equal(a.Arg1, b.Arg1)
	case *Cond:
		b, ok := b.(*Cond)
		return ok && Equal(a.Cond, b.Cond) && Equal(a.Then, b.Then) && Equal(a.Else, b.Else)
	}
	return false
}

// TypeName returns the variant name used in error messages.
func TypeName(n Node) string {
	switch n.(type) {
	case *Nil:
		return "Nil"
	case *Const:
		return "Const"
	case *Symbol:
		return "Symbol"
	case *Let:
		return "Let"
	case *Def:
		return "Def"
	case *Function:
		return "Function"
	case *Apply:
		return "Apply"
	case *Native1:
		return "Native1"
	case *Native2:
		return "Native2"
	case *Cond:
		return "Cond"
	}
	return "<nil>"
}
