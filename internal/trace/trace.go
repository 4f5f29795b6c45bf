// Package trace carries observability events out of the environment and the
// evaluator. Observers never influence evaluation results.
package trace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"spirit/internal/ast"
)

type Kind int

const (
	FramePush Kind = iota
	FramePop
	Set
	Get
	Delete
	Reduce
)

var kindNames = [...]string{"FRAME PUSH", "FRAME POP", "SET", "GET", "DEL", "REDUCE"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Event describes one environment operation or reduction step. Value holds the
// bound value for Set/Get and the input node for Reduce; Result is only set for
// Reduce.
type Event struct {
	Kind   Kind
	Depth  int
	Name   string
	Value  ast.Node
	Result ast.Node
	Err    error
}

type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type nop struct{}

func (nop) Observe(Event) {}

// Nop discards every event.
var Nop Observer = nop{}

// Writer prints one human-readable line per event.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Observe(e Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch e.Kind {
	case FramePush:
		fmt.Fprintf(w.out, "%d> FRAME PUSH\n", e.Depth)
	case FramePop:
		fmt.Fprintf(w.out, "%d< FRAME POP\n", e.Depth)
	case Set:
		fmt.Fprintf(w.out, "%d: SET %s <- %s\n", e.Depth, e.Name, render(e.Value))
	case Get:
		fmt.Fprintf(w.out, "%d: GET %s\n", e.Depth, e.Name)
	case Delete:
		fmt.Fprintf(w.out, "%d: DEL %s\n", e.Depth, e.Name)
	case Reduce:
		if e.Err != nil {
			fmt.Fprintf(w.out, "%d: %s => ERROR %v\n", e.Depth, render(e.Value), e.Err)
		} else {
			fmt.Fprintf(w.out, "%d: %s => %s\n", e.Depth, render(e.Value), render(e.Result))
		}
	}
}

// Slog forwards events to a structured logger, at debug level unless changed
// with AtLevel.
type Slog struct {
	logger *slog.Logger
	level  slog.Level
}

func NewSlog(logger *slog.Logger) *Slog {
	return &Slog{logger: logger, level: slog.LevelDebug}
}

func (s *Slog) AtLevel(level slog.Level) *Slog {
	s.level = level
	return s
}

func (s *Slog) Observe(e Event) {
	ctx := context.Background()
	if !s.logger.Enabled(ctx, s.level) {
		return
	}
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.Int("depth", e.Depth),
	}
	if e.Name != "" {
		attrs = append(attrs, slog.String("name", e.Name))
	}
	if e.Value != nil {
		attrs = append(attrs, slog.String("value", e.Value.String()))
	}
	if e.Result != nil {
		attrs = append(attrs, slog.String("result", e.Result.String()))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("error", e.Err))
	}
	s.logger.LogAttrs(ctx, s.level, "trace", attrs...)
}

// Multi fans an event out to several observers in order.
func Multi(observers ...Observer) Observer {
	switch len(observers) {
	case 0:
		return Nop
	case 1:
		return observers[0]
	}
	return multi(observers)
}

type multi []Observer

func (m multi) Observe(e Event) {
	for _, o := range m {
		o.Observe(e)
	}
}

// Recorder keeps every event it sees.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
}

// Kinds returns the kinds of the recorded events, optionally filtered.
func (r *Recorder) Kinds(only ...Kind) []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]Kind, 0, len(r.Events))
	for _, e := range r.Events {
		if len(only) == 0 || containsKind(only, e.Kind) {
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, candidate := range kinds {
		if candidate == k {
			return true
		}
	}
	return false
}

func render(n ast.Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}
