package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryOperands(t *testing.T) {
	lit := NewLiteral("1")
	e := lit.Eq(2)

	require.Equal(t, OpEq, e.ExprOp())
	ops := e.Operands()
	require.Len(t, ops, 2)
	assert.Same(t, lit, ops[0])
	assert.Equal(t, 2, ops[1])
}

func TestFluentChaining(t *testing.T) {
	a := NewLiteral("a")
	b := NewLiteral("b")

	e := a.Add(b).Mul(3)
	require.Equal(t, OpMul, e.ExprOp())

	inner, ok := e.Operands()[0].(Expr)
	require.True(t, ok)
	assert.Equal(t, OpAdd, inner.ExprOp())

	// Binary and unary results stay chainable.
	n := a.Add(b).IsNull().Not()
	require.Equal(t, OpNot, n.ExprOp())
	cmp := a.Sub(b).Abs().Ge(0)
	require.Equal(t, OpGe, cmp.ExprOp())
}

func TestAlias(t *testing.T) {
	e := NewLiteral("count(*)").As("total")
	assert.Equal(t, "total", e.AliasName())

	// As returns the same node, not a wrapper.
	lit, ok := e.(*Literal)
	require.True(t, ok)
	assert.Equal(t, "count(*)", lit.SQL())
}

func TestUnary(t *testing.T) {
	e := NewLiteral("x").IsNull()
	assert.Equal(t, OpIsNull, e.ExprOp())
	assert.Len(t, e.Operands(), 1)

	n := Not(e)
	assert.Equal(t, OpNot, n.ExprOp())
}

func TestFold(t *testing.T) {
	assert.Nil(t, And())

	single := NewLiteral("a")
	assert.Same(t, Expr(single), And(single))

	e := And(NewLiteral("a"), NewLiteral("b"), NewLiteral("c"))
	require.Equal(t, OpAnd, e.ExprOp())

	// Left-associated: ((a AND b) AND c)
	left, ok := e.Operands()[0].(Expr)
	require.True(t, ok)
	assert.Equal(t, OpAnd, left.ExprOp())
}

func TestCall(t *testing.T) {
	c := Func("lower", NewLiteral("name"))
	assert.Equal(t, OpCall, c.ExprOp())
	assert.Equal(t, "lower", c.Name())
	assert.Empty(t, c.Schema())

	q := Funcs{Schema: "pg_catalog"}.Call("now")
	assert.Equal(t, "pg_catalog", q.Schema())
	assert.Equal(t, "now", q.Name())
	assert.Empty(t, q.Operands())
}
