package foreign

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spirit/internal/ast"
)

func c(v int64) ast.Node { return &ast.Const{Value: v} }

func sym(s string) ast.Node { return &ast.Symbol{Name: s} }

func args(n ...ast.Node) []ast.Node { return n }

func call(t *testing.T, name string, in ...ast.Node) (ast.Node, error) {
	t.Helper()
	fn, ok := Standard(&bytes.Buffer{}).Lookup(name)
	require.True(t, ok, "native %s is not registered", name)
	return fn(in)
}

func TestArithmetic(t *testing.T) {
	pairs := [][2]int64{{0, 0}, {3, 4}, {-5, 12}, {100, -100}, {math.MaxInt32, 7}}
	for _, p := range pairs {
		a, b := p[0], p[1]
		sum, err := call(t, "native:add", c(a), c(b))
		require.NoError(t, err)
		assert.True(t, ast.Equal(c(a+b), sum))

		diff, err := call(t, "native:sub", c(a), c(b))
		require.NoError(t, err)
		assert.True(t, ast.Equal(c(a-b), diff))

		prod, err := call(t, "native:mul", c(a), c(b))
		require.NoError(t, err)
		assert.True(t, ast.Equal(c(a*b), prod))
	}
}

func TestDivMod(t *testing.T) {
	q, err := call(t, "native:div", c(-7), c(2))
	require.NoError(t, err)
	assert.True(t, ast.Equal(c(-3), q))

	m, err := call(t, "native:mod", c(-7), c(2))
	require.NoError(t, err)
	assert.True(t, ast.Equal(c(-1), m))

	_, err = call(t, "native:div", c(1), c(0))
	assert.ErrorIs(t, err, ErrDivisionByZero)
	_, err = call(t, "native:mod", c(1), c(0))
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestOverflow(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
	}{
		{"native:add", math.MaxInt64, 1},
		{"native:add", math.MinInt64, -1},
		{"native:sub", math.MinInt64, 1},
		{"native:sub", math.MaxInt64, -1},
		{"native:mul", math.MaxInt64, 2},
		{"native:mul", math.MinInt64, -1},
		{"native:mul", -1, math.MinInt64},
		{"native:div", math.MinInt64, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, tt.name, c(tt.a), c(tt.b))
			assert.ErrorIs(t, err, ErrOverflow)
		})
	}
}

func TestArithmeticTypeErrors(t *testing.T) {
	for _, name := range []string{"native:add", "native:sub", "native:mul", "native:div", "native:mod", "native:eqnum"} {
		t.Run(name, func(t *testing.T) {
			_, err := call(t, name, c(1), sym("x"))
			assert.ErrorIs(t, err, ErrType)
			var te *TypeError
			require.True(t, errors.As(err, &te))
			assert.Contains(t, err.Error(), "type error")
			assert.Contains(t, err.Error(), "Const and Symbol")
		})
	}
}

func TestArity(t *testing.T) {
	_, err := call(t, "native:add", c(1))
	assert.EqualError(t, err, "wrong arity: expected 2, got 1")
	assert.ErrorIs(t, err, ErrArity)

	_, err = call(t, "native:print", c(1), c(2))
	assert.EqualError(t, err, "wrong arity: expected 1, got 2")

	_, err = call(t, "native:lt")
	assert.EqualError(t, err, "wrong arity: expected 2, got 0")
}

func TestEq(t *testing.T) {
	yes, err := call(t, "native:eq", c(3), c(3))
	require.NoError(t, err)
	assert.True(t, ast.IsTrue(yes))

	no, err := call(t, "native:eq", c(3), c(4))
	require.NoError(t, err)
	assert.True(t, ast.Equal(ast.False(), no))

	mixed, err := call(t, "native:eq", c(1), sym("1"))
	require.NoError(t, err)
	assert.False(t, ast.IsTrue(mixed))

	fn := &ast.Function{Param: "x", Body: sym("x")}
	same, err := call(t, "native:eq", fn, &ast.Function{Param: "x", Body: sym("x")})
	require.NoError(t, err)
	assert.True(t, ast.IsTrue(same))

	one, err := call(t, "native:eqnum", c(5), c(5))
	require.NoError(t, err)
	assert.True(t, ast.Equal(c(1), one))
	zero, err := call(t, "native:eqnum", c(5), c(6))
	require.NoError(t, err)
	assert.True(t, ast.Equal(c(0), zero))
}

func TestOrdering(t *testing.T) {
	tests := []struct {
		name     string
		a, b     ast.Node
		expected bool
	}{
		{"native:lt", c(1), c(2), true},
		{"native:lt", c(2), c(2), false},
		{"native:gt", c(3), c(2), true},
		{"native:gt", c(-3), c(2), false},
		{"native:lt", sym("apple"), sym("banana"), true},
		{"native:gt", sym("apple"), sym("banana"), false},
		{"native:gt", sym("b"), sym("a"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name+" "+tt.a.String()+" "+tt.b.String(), func(t *testing.T) {
			res, err := call(t, tt.name, tt.a, tt.b)
			require.NoError(t, err)
			assert.True(t, ast.Equal(ast.Bool(tt.expected), res))
		})
	}
}

func TestOrderingTypeErrors(t *testing.T) {
	for _, name := range []string{"native:lt", "native:gt"} {
		_, err := call(t, name, c(1), sym("a"))
		assert.ErrorIs(t, err, ErrType)
		_, err = call(t, name, sym("a"), c(1))
		assert.ErrorIs(t, err, ErrType)
		_, err = call(t, name, &ast.Nil{}, &ast.Nil{})
		assert.ErrorIs(t, err, ErrType)
	}
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	fn, ok := Standard(&out).Lookup("native:print")
	require.True(t, ok)

	res, err := fn(args(&ast.Function{Param: "x", Body: sym("x")}))
	require.NoError(t, err)
	assert.IsType(t, &ast.Nil{}, res)
	assert.Equal(t, "fn x -> x\n", out.String())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("native:one", func([]ast.Node) (ast.Node, error) { return c(1), nil }))
	assert.Error(t, r.Register("native:nil", nil))

	_, ok := r.Lookup("native:one")
	assert.True(t, ok)
	_, ok = r.Lookup("native:two")
	assert.False(t, ok)

	r.Seal()
	assert.True(t, r.Sealed())
	err := r.Register("native:two", fnAdd)
	assert.ErrorIs(t, err, ErrSealed)
	assert.Panics(t, func() { r.MustRegister("native:two", fnAdd) })

	assert.Equal(t, []string{
		"native:add", "native:div", "native:eq", "native:eqnum", "native:gt",
		"native:lt", "native:mod", "native:mul", "native:print", "native:sub",
	}, Standard(&bytes.Buffer{}).Names())
}
