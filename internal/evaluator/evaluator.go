package evaluator

import (
	"spirit/internal/ast"
	"spirit/internal/object"
	"spirit/internal/trace"
)

const DefaultMaxDepth = 10000

// Evaluator reduces nodes against a single Environment. It is not safe for
// concurrent use.
type Evaluator struct {
	env      *object.Environment
	observer trace.Observer
	maxDepth int
	depth    int // current nesting of Eval calls
}

type Option func(*Evaluator)

func WithObserver(o trace.Observer) Option {
	return func(e *Evaluator) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithMaxDepth bounds Eval nesting; values below 1 select DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

func New(env *object.Environment, opts ...Option) *Evaluator {
	e := &Evaluator{
		env:      env,
		observer: trace.Nop,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) Env() *object.Environment { return e.env }

// Eval reduces node to a value. The input tree is never mutated; errors abort the
// whole reduction and bindings made on the way are released.
func (e *Evaluator) Eval(node ast.Node) (result ast.Node, err error) {
	if e.depth >= e.maxDepth {
		return nil, &DepthError{Limit: e.maxDepth}
	}
	e.depth++
	defer func() {
		e.depth--
		e.observer.Observe(trace.Event{
			Kind:   trace.Reduce,
			Depth:  e.env.Depth(),
			Value:  node,
			Result: result,
			Err:    err,
		})
	}()

	switch node := node.(type) {
	case *ast.Nil, *ast.Const, *ast.Function:
		return node, nil

	case *ast.Symbol:
		return e.evalSymbol(node)

	case *ast.Let:
		return e.evalLet(node)

	case *ast.Def:
		e.env.Set(node.Name, node.Value)
		return &ast.Nil{}, nil

	case *ast.Apply:
		return e.evalApply(node)

	case *ast.Native1:
		return e.evalNative(node.Name, node.Arg)

	case *ast.Native2:
		return e.evalNative(node.Name, node.Arg0, node.Arg1)

	case *ast.Cond:
		cond, err := e.Eval(node.Cond)
		if err != nil {
			return nil, err
		}
		if ast.IsTrue(cond) {
			return e.Eval(node.Then)
		}
		return e.Eval(node.Else)
	}
	return nil, &unknownNodeError{node: node}
}

// evalSymbol re-evaluates bound values, since Def stores unevaluated code. Unbound
// symbols evaluate to themselves, which is what makes true and false values.
func (e *Evaluator) evalSymbol(sym *ast.Symbol) (ast.Node, error) {
	bound, ok := e.env.Get(sym.Name)
	if !ok {
		return sym, nil
	}
	if self, ok := bound.(*ast.Symbol); ok && self.Name == sym.Name {
		return self, nil
	}
	return e.Eval(bound)
}

func (e *Evaluator) evalLet(let *ast.Let) (ast.Node, error) {
	head, err := e.Eval(let.Head)
	if err != nil {
		return nil, err
	}
	restore := e.env.Bind(let.Name, head)
	defer restore()

	body, err := e.Eval(let.Body)
	if err != nil {
		return nil, err
	}
	return capture(let.Name, head, body), nil
}

func (e *Evaluator) evalApply(apply *ast.Apply) (ast.Node, error) {
	callee, err := e.Eval(apply.Func)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*ast.Function)
	if !ok {
		return nil, &NotFunctionError{Value: callee}
	}
	arg, err := e.Eval(apply.Arg)
	if err != nil {
		return nil, err
	}

	e.env.PushFrame()
	defer e.env.PopFrame()
	restore := e.env.Bind(fn.Param, arg)
	defer restore()

	body, err := e.Eval(fn.Body)
	if err != nil {
		return nil, err
	}
	return capture(fn.Param, arg, body), nil
}

// capture keeps a binding alive inside a function value that is about to outlive
// it: fn p2 -> b2 becomes fn p2 -> let name = value in b2. Other results, and
// functions whose own parameter is name, pass through unchanged.
func capture(name string, value ast.Node, result ast.Node) ast.Node {
	fn, ok := result.(*ast.Function)
	if !ok || fn.Param == name {
		return result
	}
	return &ast.Function{
		Param: fn.Param,
		Body:  &ast.Let{Name: name, Head: value, Body: fn.Body},
	}
}

// evalNative reduces the arguments against a private copy of the environment so
// the call can neither see later changes nor leave bindings behind.
func (e *Evaluator) evalNative(name string, argNodes ...ast.Node) (ast.Node, error) {
	fn, ok := e.env.GetNative(name)
	if !ok {
		return nil, &UndefinedNativeError{Name: name}
	}

	scratch := &Evaluator{
		env:      e.env.Clone(),
		observer: e.observer,
		maxDepth: e.maxDepth,
		depth:    e.depth,
	}
	args := make([]ast.Node, len(argNodes))
	for i, n := range argNodes {
		v, err := scratch.Eval(n)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn(args)
}

type unknownNodeError struct {
	node ast.Node
}

func (e *unknownNodeError) Error() string {
	return "cannot evaluate node of type " + ast.TypeName(e.node)
}
