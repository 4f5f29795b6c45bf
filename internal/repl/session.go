package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"spirit/internal/ast"
	"spirit/internal/evaluator"
	"spirit/internal/foreign"
	"spirit/internal/log"
	"spirit/internal/object"
	"spirit/internal/parser"
	"spirit/internal/store"
	"spirit/internal/trace"
	"spirit/internal/util"
)

// Session owns the single environment every line of a REPL or script run is
// evaluated against.
type Session struct {
	config   util.Configuration
	out      io.Writer
	traceOut io.Writer
	logger   *slog.Logger
	store    *store.Store

	natives *foreign.Registry
	env     *object.Environment
	eval    *evaluator.Evaluator
}

type Option func(*Session)

// WithOutput sets where results and native:print output go. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Session) { s.out = w }
}

// WithTraceOutput sets where trace lines and debug AST renderings go. Defaults
// to stderr.
func WithTraceOutput(w io.Writer) Option {
	return func(s *Session) { s.traceOut = w }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithStore persists successful top-level definitions and the transcript.
func WithStore(st *store.Store) Option {
	return func(s *Session) { s.store = st }
}

func NewSession(config util.Configuration, opts ...Option) *Session {
	s := &Session{
		config:   config,
		out:      os.Stdout,
		traceOut: os.Stderr,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	observers := []trace.Observer{trace.NewSlog(s.logger).AtLevel(log.LevelTrace)}
	if config.Trace {
		observers = append(observers, trace.NewWriter(s.traceOut))
	}
	observer := trace.Multi(observers...)

	s.natives = foreign.Standard(s.out)
	s.env = object.NewEnvironment(s.natives, object.WithObserver(observer))

	evalOpts := []evaluator.Option{evaluator.WithObserver(observer)}
	if config.MaxDepth > 0 {
		evalOpts = append(evalOpts, evaluator.WithMaxDepth(config.MaxDepth))
	}
	s.eval = evaluator.New(s.env, evalOpts...)
	return s
}

func (s *Session) Env() *object.Environment { return s.env }

func (s *Session) Out() io.Writer { return s.out }

// Bootstrap loads the prelude and then replays stored definitions in the
// order they were made. A stored definition that no longer parses is skipped.
func (s *Session) Bootstrap(ctx context.Context) error {
	if !s.config.NoPrelude {
		if err := s.load(Prelude); err != nil {
			return fmt.Errorf("failed to load prelude: %w", err)
		}
		s.logger.Debug("prelude loaded", "bindings", s.env.Len())
	}

	if s.store == nil {
		return nil
	}
	defs, err := s.store.Definitions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load definitions: %w", err)
	}
	for _, def := range defs {
		if err := s.load(def.Code); err != nil {
			s.logger.Warn("skipping stored definition",
				slog.String("name", def.Name),
				slog.Any("error", err))
		}
	}
	s.logger.Debug("definitions restored", "count", len(defs))
	return nil
}

// load evaluates src without echoing, persisting or recording it.
func (s *Session) load(src string) error {
	program, err := parser.Parse(src)
	if err != nil {
		return err
	}
	for _, node := range program {
		if _, err := s.eval.Eval(node); err != nil {
			return err
		}
	}
	return nil
}

// EvalLine parses line and evaluates each expression in it. Evaluation stops at
// the first error; results computed before it are returned alongside the error.
func (s *Session) EvalLine(ctx context.Context, line string) ([]ast.Node, error) {
	program, err := parser.Parse(line)
	if err != nil {
		return nil, err
	}
	s.debugAST(program)

	results := make([]ast.Node, 0, len(program))
	for _, node := range program {
		result, err := s.eval.Eval(node)
		if err != nil {
			return results, err
		}
		results = append(results, result)

		if def, ok := node.(*ast.Def); ok && s.store != nil {
			if err := s.store.SaveDefinition(ctx, def.Name, ast.Code(def)); err != nil {
				s.logger.Warn("failed to persist definition",
					slog.String("name", def.Name),
					slog.Any("error", err))
			}
		}
	}
	return results, nil
}

// Render evaluates line and prints one line per result, or ERROR : <message>
// when parsing or evaluation fails. It reports whether the line succeeded.
func (s *Session) Render(ctx context.Context, line string) bool {
	results, err := s.EvalLine(ctx, line)

	var sb strings.Builder
	for _, result := range results {
		sb.WriteString(result.String())
		sb.WriteByte('\n')
	}
	if err != nil {
		sb.WriteString("ERROR : ")
		sb.WriteString(err.Error())
		sb.WriteByte('\n')
		s.logError(line, err)
	}
	io.WriteString(s.out, sb.String())

	if s.store != nil && strings.TrimSpace(line) != "" {
		if _, rerr := s.store.RecordEval(ctx, line, strings.TrimSuffix(sb.String(), "\n"), err != nil); rerr != nil {
			s.logger.Warn("failed to record evaluation", slog.Any("error", rerr))
		}
	}
	return err == nil
}

func (s *Session) logError(line string, err error) {
	var perr *parser.Error
	switch {
	case errors.As(err, &perr):
		s.logger.Info("parse failed", slog.String("input", line), slog.Any("error", err))
	case errors.Is(err, evaluator.ErrDepthExceeded):
		s.logger.Warn("evaluation too deep", slog.String("input", line), slog.Any("error", err))
	default:
		s.logger.Info("evaluation failed", slog.String("input", line), slog.Any("error", err))
	}
}

func (s *Session) debugAST(program []ast.Node) {
	if s.config.DebugTxtAST {
		for _, node := range program {
			fmt.Fprintln(s.traceOut, parser.RenderASTAsText(node, 0))
		}
	}
	if s.config.DebugJsonAST {
		json, err := parser.RenderASTAsJSON(program...)
		if err != nil {
			s.logger.Warn("failed to render AST", slog.Any("error", err))
			return
		}
		fmt.Fprintln(s.traceOut, json)
	}
}
