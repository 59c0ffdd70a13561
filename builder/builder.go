// Package builder renders composed queries into dialect-specific SQL with
// positional bound arguments.
package builder

import (
	"fmt"
	"strings"

	"github.com/grovetools/quill/errors"
	"github.com/grovetools/quill/expr"
	"github.com/grovetools/quill/model"
	"github.com/grovetools/quill/query"
)

// Builder renders a query into SQL and its bound arguments.
type Builder interface {
	// Build refuses queries whose Err is non-nil.
	Build(q query.Query) (sql string, args []interface{}, err error)
	// Name returns the dialect name ("postgres", "sqlite", "mysql").
	Name() string
}

// ForDriver returns the builder matching a database/sql driver name.
func ForDriver(driver string) (Builder, error) {
	switch driver {
	case "postgres", "pgx":
		return NewPostgres(), nil
	case "sqlite", "sqlite3":
		return NewSQLite(), nil
	case "mysql":
		return NewMySQL(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("no dialect for driver %q", driver))
	}
}

// Args collects bound arguments and hands out their placeholders.
type Args struct {
	placeholder func(n int) string
	values      []interface{}
}

// Add binds a value and returns its placeholder.
func (a *Args) Add(value interface{}) string {
	a.values = append(a.values, value)
	return a.placeholder(len(a.values))
}

// precedence tiers, tightest binding first. A sub-expression is
// parenthesized when it binds looser than its parent.
var precedenceTiers = [][]expr.Op{
	{expr.OpField, expr.OpLiteral, expr.OpCall},
	{expr.OpPos, expr.OpNeg},
	{expr.OpMul, expr.OpDiv, expr.OpMod},
	{expr.OpAdd, expr.OpSub},
	{expr.OpIsNull},
	{expr.OpIsNotNull},
	{}, // unknown operators
	{expr.OpLt, expr.OpGt, expr.OpEq, expr.OpLe, expr.OpGe, expr.OpNe},
	{expr.OpNot},
	{expr.OpAnd},
	{expr.OpOr},
}

var (
	precedenceMap     map[expr.Op]int
	argPrecedence     int
	unknownPrecedence int
)

func init() {
	precedenceMap = make(map[expr.Op]int)
	for tier, ops := range precedenceTiers {
		if len(ops) == 0 {
			unknownPrecedence = tier
		}
		for _, op := range ops {
			precedenceMap[op] = tier
		}
	}
	argPrecedence = precedenceMap[expr.OpField]
}

// dialect is the set of knobs distinguishing one SQL flavor from another.
type dialect struct {
	name        string
	placeholder func(n int) string
	quote       func(part string) string
	// xorOp is the bitwise XOR operator, or "" when the dialect has none.
	xorOp string
	// supportsReturning gates RETURNING clauses.
	supportsReturning bool
}

// core implements Builder over a dialect.
type core struct {
	dialect
}

func (c *core) Name() string { return c.name }

func (c *core) newArgs() *Args {
	return &Args{placeholder: c.placeholder}
}

// Build dispatches on the query shape. ModelSelect and its relatives are
// matched structurally so generic instantiations build without special
// cases.
func (c *core) Build(q query.Query) (string, []interface{}, error) {
	if err := q.Err(); err != nil {
		return "", nil, err
	}

	args := c.newArgs()
	var sql string
	var err error

	switch qq := q.(type) {
	case selectShape:
		sql, err = c.buildSelect(qq, args)
	case updateShape:
		sql, err = c.buildUpdate(qq, args)
	case insertShape:
		sql, err = c.buildInsert(qq, args)
	case deleteShape:
		sql, err = c.buildDelete(qq, args)
	default:
		err = errors.New(errors.ErrCodeUnsupportedQuery,
			fmt.Sprintf("cannot build query of type %T", q))
	}
	if err != nil {
		return "", nil, err
	}
	return sql, args.values, nil
}

// Structural views of the query types. Order matters in the type switch
// above: an update also looks like an insert, and both look like a delete.

type selectShape interface {
	query.Query
	SelectValues() []expr.Expr
	FromTables() []*model.Meta
	Filters() []expr.Expr
	Joins() []query.Join
	OrderTerms() []expr.Expr
	LimitValue() (int, bool)
	OffsetValue() (int, bool)
}

type updateShape interface {
	query.Query
	Table() *model.Meta
	Assignments() []query.Assignment
	Filters() []expr.Expr
	ReturningValues() []expr.Expr
}

type insertShape interface {
	query.Query
	Table() *model.Meta
	Assignments() []query.Assignment
	ReturningValues() []expr.Expr
}

type deleteShape interface {
	query.Query
	Table() *model.Meta
	Filters() []expr.Expr
	ReturningValues() []expr.Expr
}

// emit renders a value: expressions recursively, anything else as a bound
// argument.
func (c *core) emit(value interface{}, args *Args) (string, error) {
	if e, ok := value.(expr.Expr); ok {
		return c.emitExpr(e, args)
	}
	return args.Add(value), nil
}

func (c *core) precedenceOf(value interface{}) int {
	e, ok := value.(expr.Expr)
	if !ok {
		return argPrecedence
	}
	if p, ok := precedenceMap[e.ExprOp()]; ok {
		return p
	}
	return unknownPrecedence
}

var infixOps = map[expr.Op]string{
	expr.OpLt:     " < ",
	expr.OpLe:     " <= ",
	expr.OpEq:     " = ",
	expr.OpNe:     " <> ",
	expr.OpGt:     " > ",
	expr.OpGe:     " >= ",
	expr.OpAdd:    " + ",
	expr.OpSub:    " - ",
	expr.OpMul:    " * ",
	expr.OpDiv:    " / ",
	expr.OpMod:    " % ",
	expr.OpLshift: " << ",
	expr.OpRshift: " >> ",
	expr.OpAnd:    " AND ",
	expr.OpOr:     " OR ",
}

var prefixOps = map[expr.Op]string{
	expr.OpNeg: "-",
	expr.OpPos: "+",
	expr.OpNot: "NOT ",
}

var suffixOps = map[expr.Op]string{
	expr.OpIsNull:    " IS NULL",
	expr.OpIsNotNull: " IS NOT NULL",
	expr.OpAsc:       " ASC",
	expr.OpDesc:      " DESC",
}

// funcOps maps operators the dialects express as function calls.
var funcOps = map[expr.Op]string{
	expr.OpAbs: "abs",
	expr.OpPow: "power",
}

func (c *core) emitExpr(e expr.Expr, args *Args) (string, error) {
	op := e.ExprOp()

	switch op {
	case expr.OpField:
		f, ok := e.(expr.FieldRef)
		if !ok {
			return "", errors.UnsupportedExpr(string(op))
		}
		return c.quote(f.TableAlias()) + "." + c.quote(f.ColumnName()), nil

	case expr.OpLiteral:
		lit, ok := e.(*expr.Literal)
		if !ok {
			return "", errors.UnsupportedExpr(string(op))
		}
		return lit.SQL(), nil

	case expr.OpCall:
		call, ok := e.(*expr.Call)
		if !ok {
			return "", errors.UnsupportedExpr(string(op))
		}
		name := call.Name()
		if call.Schema() != "" {
			name = call.Schema() + "." + name
		}
		return c.emitCall(name, call.Operands(), args)

	case expr.OpXor:
		if c.xorOp == "" {
			return "", errors.UnsupportedExpr(string(op))
		}
		return c.emitOp(e, args, "", c.xorOp, "")
	}

	if sym, ok := infixOps[op]; ok {
		return c.emitOp(e, args, "", sym, "")
	}
	if sym, ok := prefixOps[op]; ok {
		return c.emitOp(e, args, sym, "", "")
	}
	if sym, ok := suffixOps[op]; ok {
		return c.emitOp(e, args, "", "", sym)
	}
	if name, ok := funcOps[op]; ok {
		return c.emitCall(name, e.Operands(), args)
	}

	return "", errors.UnsupportedExpr(string(op))
}

func (c *core) emitCall(name string, callArgs []interface{}, args *Args) (string, error) {
	parts := make([]string, 0, len(callArgs))
	for _, a := range callArgs {
		s, err := c.emit(a, args)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", ")), nil
}

func (c *core) emitOp(e expr.Expr, args *Args, prefix, infix, suffix string) (string, error) {
	precedence := c.precedenceOf(e)

	parts := make([]string, 0, len(e.Operands()))
	for _, operand := range e.Operands() {
		s, err := c.emit(operand, args)
		if err != nil {
			return "", err
		}
		if precedence < c.precedenceOf(operand) {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}

	return prefix + strings.Join(parts, infix) + suffix, nil
}
