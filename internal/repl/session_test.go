package repl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spirit/internal/ast"
	"spirit/internal/evaluator"
	"spirit/internal/store"
	"spirit/internal/util"
)

type harness struct {
	out     *bytes.Buffer
	trace   *bytes.Buffer
	session *Session
}

func newHarness(t *testing.T, cfg util.Configuration, opts ...Option) *harness {
	t.Helper()
	h := &harness{out: &bytes.Buffer{}, trace: &bytes.Buffer{}}
	opts = append([]Option{
		WithOutput(h.out),
		WithTraceOutput(h.trace),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	h.session = NewSession(cfg, opts...)
	require.NoError(t, h.session.Bootstrap(context.Background()))
	return h
}

// render feeds line to the session and returns what it printed.
func (h *harness) render(line string) string {
	h.out.Reset()
	h.session.Render(context.Background(), line)
	return h.out.String()
}

func TestRender(t *testing.T) {
	h := newHarness(t, util.DefaultConfiguration())

	tests := []struct {
		input    string
		expected string
	}{
		{"5", "5\n"},
		{"@ @ add 2 3", "5\n"},
		{"@ @ sub 2 3", "-1\n"},
		{"@ @ div 7 2", "3\n"},
		{"@ @ mod 7 2", "1\n"},
		{"@ @ lt 1 2", "true\n"},
		{"@ @ gt 1 2", "false\n"},
		{"@ @ eq foo foo", "true\n"},
		{"def x = 5", "Nil\n"},
		{"x", "5\n"},
		{"@ print 7", "7\nNil\n"},
		{"1 2", "1\n2\n"},
		{"if @ @ lt x 10 then small else big", "small\n"},
		{"", ""},
		{"let x = 5", "ERROR : [  1:10] expected IN, got end of input\n"},
		{"native1 native:nope 1", "ERROR : undefined native native:nope\n"},
		{"1 @ 2 3", "1\nERROR : calling 2 which is not a function\n"},
		{"@ @ add 1 nope", "ERROR : type error: add does not accept Const and Symbol\n"},
		{"@ @ div 1 0", "ERROR : div 1 0: division by zero\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, h.render(tt.input))
		})
	}
}

func TestRenderKeepsEnvironmentAfterErrors(t *testing.T) {
	h := newHarness(t, util.DefaultConfiguration())
	before := h.session.Env().Len()

	h.render("@ fn x -> @ 1 x 2")
	h.render("let y = 1 in native2 native:add y nope")

	assert.Equal(t, 1, h.session.Env().Depth())
	assert.Equal(t, before, h.session.Env().Len())
}

func TestEvalLine(t *testing.T) {
	h := newHarness(t, util.DefaultConfiguration())

	results, err := h.session.EvalLine(context.Background(), "def sq = fn x -> @ @ mul x x @ sq 9")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, &ast.Nil{}, results[0])
	assert.Equal(t, &ast.Const{Value: 81}, results[1])
}

func TestNoPrelude(t *testing.T) {
	cfg := util.DefaultConfiguration()
	cfg.NoPrelude = true
	h := newHarness(t, cfg)

	assert.Equal(t, 0, h.session.Env().Len())
	assert.Equal(t, "add\n", h.render("add"))
	assert.Equal(t, "3\n", h.render("native2 native:add 1 2"))
}

func TestMaxDepth(t *testing.T) {
	cfg := util.DefaultConfiguration()
	cfg.MaxDepth = 50
	h := newHarness(t, cfg)

	h.render("def loop = fn x -> @ loop x")
	_, err := h.session.EvalLine(context.Background(), "@ loop 1")
	assert.ErrorIs(t, err, evaluator.ErrDepthExceeded)
	assert.Equal(t, 1, h.session.Env().Depth())
}

func TestTraceAndDebugAST(t *testing.T) {
	cfg := util.DefaultConfiguration()
	cfg.Trace = true
	cfg.DebugTxtAST = true
	cfg.DebugJsonAST = true
	h := newHarness(t, cfg)

	h.trace.Reset()
	assert.Equal(t, "1\n", h.render("1"))
	assert.Contains(t, h.trace.String(), "Const 1\n")
	assert.Contains(t, h.trace.String(), `"0.type": "Const"`)
	assert.Contains(t, h.trace.String(), "1: 1 => 1\n")
}

func TestStorePersistsDefinitions(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, "sqlite3", filepath.Join(t.TempDir(), "spirit.db"))
	require.NoError(t, err)
	defer st.Close()

	first := newHarness(t, util.DefaultConfiguration(), WithStore(st))
	first.render("def sq = fn x -> @ @ mul x x")
	first.render("def two = native2 native:add 1 1")
	first.render("@ sq")
	first.render("nope nope")

	defs, err := st.Definitions(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "def sq = fn x -> @ @ mul x x", defs[0].Code)
	assert.Equal(t, "def two = native2 native:add 1 1", defs[1].Code)

	second := newHarness(t, util.DefaultConfiguration(), WithStore(st))
	assert.Equal(t, "49\n", second.render("@ sq 7"))
	assert.Equal(t, "2\n", second.render("two"))

	entries, err := st.Transcript(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 6)
	assert.Equal(t, "def sq = fn x -> @ @ mul x x", entries[0].Input)
	assert.Equal(t, "Nil", entries[0].Output)
	assert.True(t, strings.HasPrefix(entries[2].Output, "ERROR : "))
	assert.True(t, entries[2].Failed)
	assert.Equal(t, "49", entries[4].Output)
}

func TestStart(t *testing.T) {
	h := newHarness(t, util.DefaultConfiguration())
	h.out.Reset()

	in := strings.NewReader("1\n@ @ add 1 2\n@ 3\n")
	Start(context.Background(), in, h.out, h.session, PROMPT)

	expected := ">> 1\n" +
		">> 3\n" +
		">> ERROR : [  1: 4] unexpected end of input\n" +
		">> "
	assert.Equal(t, expected, h.out.String())
}
