// Package expr provides the expression tree used to compose SQL fragments.
// Expressions are built fluently from field descriptors, literals and
// function calls; dialect builders render them into SQL with bound
// arguments.
package expr

// Op identifies the kind of an expression node. Dialect builders key their
// emitters and operator precedence off this value.
type Op string

const (
	OpField   Op = "field"
	OpLiteral Op = "literal"
	OpCall    Op = "call"

	OpLt Op = "lt"
	OpLe Op = "le"
	OpEq Op = "eq"
	OpNe Op = "ne"
	OpGt Op = "gt"
	OpGe Op = "ge"

	OpNeg Op = "neg"
	OpPos Op = "pos"
	OpAbs Op = "abs"
	OpNot Op = "not"

	OpAnd Op = "and"
	OpOr  Op = "or"
	OpXor Op = "xor"

	OpAdd    Op = "add"
	OpSub    Op = "sub"
	OpMul    Op = "mul"
	OpDiv    Op = "div"
	OpMod    Op = "mod"
	OpPow    Op = "pow"
	OpLshift Op = "lshift"
	OpRshift Op = "rshift"

	OpIsNull    Op = "is_null"
	OpIsNotNull Op = "is_not_null"

	OpAsc  Op = "asc"
	OpDesc Op = "desc"
)

// Expr is implemented by every node of the expression tree.
type Expr interface {
	// ExprOp returns the node kind.
	ExprOp() Op
	// Operands returns the child nodes. Entries that are not themselves
	// Expr are rendered as bound query arguments.
	Operands() []interface{}
	// AliasName returns the output alias set with As, or "".
	AliasName() string
}

// FieldRef is the subset of a field descriptor the dialect builders need.
// It is satisfied by model.Field without expr importing the model package.
type FieldRef interface {
	Expr
	TableAlias() string
	ColumnName() string
}

// Base provides the fluent builder methods shared by every expression node.
// Types embedding Base must call Init with themselves before use.
type Base struct {
	self  Expr
	alias string
}

// Init binds the embedding node so fluent methods can reference it.
func (b *Base) Init(self Expr) {
	b.self = self
}

// AliasName returns the output alias set with As, or "".
func (b *Base) AliasName() string {
	return b.alias
}

// As sets the output alias and returns the expression.
func (b *Base) As(alias string) Expr {
	b.alias = alias
	return b.self
}

func (b *Base) Lt(other interface{}) *Binary { return NewBinary(OpLt, b.self, other) }
func (b *Base) Le(other interface{}) *Binary { return NewBinary(OpLe, b.self, other) }
func (b *Base) Eq(other interface{}) *Binary { return NewBinary(OpEq, b.self, other) }
func (b *Base) Ne(other interface{}) *Binary { return NewBinary(OpNe, b.self, other) }
func (b *Base) Gt(other interface{}) *Binary { return NewBinary(OpGt, b.self, other) }
func (b *Base) Ge(other interface{}) *Binary { return NewBinary(OpGe, b.self, other) }

func (b *Base) Add(other interface{}) *Binary { return NewBinary(OpAdd, b.self, other) }
func (b *Base) Sub(other interface{}) *Binary { return NewBinary(OpSub, b.self, other) }
func (b *Base) Mul(other interface{}) *Binary { return NewBinary(OpMul, b.self, other) }
func (b *Base) Div(other interface{}) *Binary { return NewBinary(OpDiv, b.self, other) }
func (b *Base) Mod(other interface{}) *Binary { return NewBinary(OpMod, b.self, other) }
func (b *Base) Pow(other interface{}) *Binary { return NewBinary(OpPow, b.self, other) }

func (b *Base) Lshift(other interface{}) *Binary { return NewBinary(OpLshift, b.self, other) }
func (b *Base) Rshift(other interface{}) *Binary { return NewBinary(OpRshift, b.self, other) }
func (b *Base) Xor(other interface{}) *Binary { return NewBinary(OpXor, b.self, other) }

func (b *Base) And(other interface{}) *Binary { return NewBinary(OpAnd, b.self, other) }
func (b *Base) Or(other interface{}) *Binary { return NewBinary(OpOr, b.self, other) }

func (b *Base) Neg() *Unary { return NewUnary(OpNeg, b.self) }
func (b *Base) Pos() *Unary { return NewUnary(OpPos, b.self) }
func (b *Base) Abs() *Unary { return NewUnary(OpAbs, b.self) }
func (b *Base) Not() *Unary { return NewUnary(OpNot, b.self) }

func (b *Base) IsNull() *Unary { return NewUnary(OpIsNull, b.self) }
func (b *Base) IsNotNull() *Unary { return NewUnary(OpIsNotNull, b.self) }

// Binary is an infix operator applied to two operands.
type Binary struct {
	Base
	op    Op
	left  interface{}
	right interface{}
}

// NewBinary creates a binary operator node. Operands that are not Expr are
// bound as query arguments when rendered.
func NewBinary(op Op, left, right interface{}) *Binary {
	e := &Binary{op: op, left: left, right: right}
	e.Init(e)
	return e
}

func (e *Binary) ExprOp() Op { return e.op }

func (e *Binary) Operands() []interface{} { return []interface{}{e.left, e.right} }

// Unary is a prefix or suffix operator applied to a single operand.
type Unary struct {
	Base
	op    Op
	value interface{}
}

// NewUnary creates a unary operator node.
func NewUnary(op Op, value interface{}) *Unary {
	e := &Unary{op: op, value: value}
	e.Init(e)
	return e
}

func (e *Unary) ExprOp() Op { return e.op }

func (e *Unary) Operands() []interface{} { return []interface{}{e.value} }

// Literal is a raw SQL fragment spliced into the output verbatim.
// Use with care; literals bypass argument binding.
type Literal struct {
	Base
	sql string
}

// NewLiteral creates a raw SQL literal.
func NewLiteral(sql string) *Literal {
	e := &Literal{sql: sql}
	e.Init(e)
	return e
}

func (e *Literal) ExprOp() Op { return OpLiteral }

func (e *Literal) Operands() []interface{} { return nil }

// SQL returns the raw fragment.
func (e *Literal) SQL() string { return e.sql }

// Not negates an expression.
func Not(value Expr) Expr {
	return NewUnary(OpNot, value)
}

// Asc marks an ORDER BY term as ascending.
func Asc(value Expr) Expr {
	return NewUnary(OpAsc, value)
}

// Desc marks an ORDER BY term as descending.
func Desc(value Expr) Expr {
	return NewUnary(OpDesc, value)
}

// And folds the given expressions into a left-associated conjunction.
// It returns nil when called with no expressions.
func And(exprs ...Expr) Expr {
	return fold(OpAnd, exprs)
}

// Or folds the given expressions into a left-associated disjunction.
// It returns nil when called with no expressions.
func Or(exprs ...Expr) Expr {
	return fold(OpOr, exprs)
}

func fold(op Op, exprs []Expr) Expr {
	if len(exprs) == 0 {
		return nil
	}
	acc := exprs[0]
	for _, e := range exprs[1:] {
		acc = NewBinary(op, acc, e)
	}
	return acc
}
