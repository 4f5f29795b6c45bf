package object

import (
	"spirit/internal/ast"
	"spirit/internal/foreign"
	"spirit/internal/trace"
)

// frameKey addresses one binding: a name may be bound at several depths at once.
type frameKey struct {
	frame int
	name  string
}

// Environment is a frame-indexed variable store. Lookup walks from the current
// frame down to frame 1, so bindings made in older frames stay visible unless a
// newer frame binds the same name. There is no closure chain.
type Environment struct {
	vars     map[frameKey]ast.Node
	frames   int
	natives  *foreign.Registry
	observer trace.Observer
}

type Option func(*Environment)

func WithObserver(o trace.Observer) Option {
	return func(e *Environment) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEnvironment starts at frame 1. A nil registry is replaced by an empty,
// unsealed one.
func NewEnvironment(natives *foreign.Registry, opts ...Option) *Environment {
	if natives == nil {
		natives = foreign.NewRegistry()
	}
	env := &Environment{
		vars:     make(map[frameKey]ast.Node),
		frames:   1,
		natives:  natives,
		observer: trace.Nop,
	}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

func (e *Environment) Depth() int { return e.frames }

// Len is the number of live bindings across all frames.
func (e *Environment) Len() int { return len(e.vars) }

func (e *Environment) PushFrame() {
	e.frames++
	e.observer.Observe(trace.Event{Kind: trace.FramePush, Depth: e.frames})
}

// PopFrame must be paired with an earlier PushFrame.
func (e *Environment) PopFrame() {
	if e.frames <= 1 {
		panic("attempted to pop the root frame")
	}
	e.observer.Observe(trace.Event{Kind: trace.FramePop, Depth: e.frames})
	e.frames--
}

// Set binds name at the current frame, replacing any binding at that exact depth.
func (e *Environment) Set(name string, value ast.Node) {
	e.observer.Observe(trace.Event{Kind: trace.Set, Depth: e.frames, Name: name, Value: value})
	e.vars[frameKey{frame: e.frames, name: name}] = value
}

func (e *Environment) Get(name string) (ast.Node, bool) {
	for frame := e.frames; frame > 0; frame-- {
		if value, ok := e.vars[frameKey{frame: frame, name: name}]; ok {
			e.observer.Observe(trace.Event{Kind: trace.Get, Depth: frame, Name: name, Value: value})
			return value, true
		}
	}
	return nil, false
}

// Local looks at the current frame only.
func (e *Environment) Local(name string) (ast.Node, bool) {
	value, ok := e.vars[frameKey{frame: e.frames, name: name}]
	return value, ok
}

// Delete removes name from the current frame; other depths are untouched.
func (e *Environment) Delete(name string) {
	e.deleteKey(frameKey{frame: e.frames, name: name})
}

func (e *Environment) deleteKey(key frameKey) {
	e.observer.Observe(trace.Event{Kind: trace.Delete, Depth: key.frame, Name: key.name})
	delete(e.vars, key)
}

// Bind sets name at the current frame and returns a function that puts back
// whatever that exact key held before, or removes it when it held nothing.
func (e *Environment) Bind(name string, value ast.Node) (restore func()) {
	key := frameKey{frame: e.frames, name: name}
	prev, had := e.vars[key]
	e.Set(name, value)
	return func() {
		if had {
			e.observer.Observe(trace.Event{Kind: trace.Set, Depth: key.frame, Name: name, Value: prev})
			e.vars[key] = prev
			return
		}
		e.deleteKey(key)
	}
}

func (e *Environment) AddNative(name string, fn foreign.NativeFn) error {
	return e.natives.Register(name, fn)
}

func (e *Environment) GetNative(name string) (foreign.NativeFn, bool) {
	return e.natives.Lookup(name)
}

// Clone returns a private copy holding the same bindings and depth. The native
// registry and the observer are shared.
func (e *Environment) Clone() *Environment {
	vars := make(map[frameKey]ast.Node, len(e.vars))
	for k, v := range e.vars {
		vars[k] = v
	}
	return &Environment{
		vars:     vars,
		frames:   e.frames,
		natives:  e.natives,
		observer: e.observer,
	}
}
