// Package foreign holds the host-implemented primitives that programs reach
// through native1/native2.
package foreign

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"spirit/internal/ast"
)

// NativeFn receives already-evaluated arguments.
type NativeFn func(args []ast.Node) (ast.Node, error)

var ErrSealed = errors.New("native registry is sealed")

// Registry maps native names to host functions. It is filled once at startup and
// sealed before evaluation begins.
type Registry struct {
	fns    map[string]NativeFn
	sealed bool
}

func NewRegistry() *Registry {
	return &Registry{fns: map[string]NativeFn{}}
}

func (r *Registry) Register(name string, fn NativeFn) error {
	if r.sealed {
		return fmt.Errorf("register %s: %w", name, ErrSealed)
	}
	if fn == nil {
		return fmt.Errorf("register %s: nil function", name)
	}
	r.fns[name] = fn
	return nil
}

func (r *Registry) MustRegister(name string, fn NativeFn) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (NativeFn, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}

// Seal makes the registry read-only and returns it.
func (r *Registry) Seal() *Registry {
	r.sealed = true
	return r
}

func (r *Registry) Sealed() bool { return r.sealed }

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetForeignFunctions returns the standard natives keyed by their registry name.
// print writes to out.
func GetForeignFunctions(out io.Writer) map[string]NativeFn {
	return map[string]NativeFn{
		"native:print": fnPrint(out),

		"native:add": fnAdd,
		"native:sub": fnSub,
		"native:mul": fnMul,
		"native:div": fnDiv,
		"native:mod": fnMod,

		"native:eq":    fnEq,
		"native:eqnum": fnEqNum,
		"native:lt":    fnLt,
		"native:gt":    fnGt,
	}
}

// Standard builds a sealed registry holding GetForeignFunctions(out).
func Standard(out io.Writer) *Registry {
	r := NewRegistry()
	for name, fn := range GetForeignFunctions(out) {
		r.MustRegister(name, fn)
	}
	return r.Seal()
}
