package query

import (
	"github.com/grovetools/quill/errors"
	"github.com/grovetools/quill/expr"
	"github.com/grovetools/quill/model"
)

// SelectQuery composes a SELECT statement. The zero value is not usable;
// start from Select.
type SelectQuery struct {
	values  []expr.Expr
	froms   []*model.Meta
	filters []expr.Expr
	joins   []Join
	orderBy []expr.Expr
	limit   *int
	offset  *int
	joinSrc *model.Meta
	err     error
}

// Select starts a SELECT query. Each value is either an expression or a
// registered table, which expands to all of its fields.
func Select(values ...interface{}) *SelectQuery {
	q := &SelectQuery{}
	return q.Select(values...)
}

// Select appends output values.
func (q *SelectQuery) Select(values ...interface{}) *SelectQuery {
	exprs, err := expandValues(values)
	if err != nil {
		q.fail(err)
		return q
	}
	q.values = append(q.values, exprs...)
	return q
}

// From appends source tables. The last source becomes the implicit join
// source.
func (q *SelectQuery) From(sources ...model.Tabler) *SelectQuery {
	for _, s := range sources {
		q.froms = append(q.froms, s.TableMeta())
	}
	if len(q.froms) > 0 {
		q.joinSrc = q.froms[len(q.froms)-1]
	}
	return q
}

// ReplaceFrom clears the FROM list and any joins before adding sources.
func (q *SelectQuery) ReplaceFrom(sources ...model.Tabler) *SelectQuery {
	q.froms = nil
	q.joins = nil
	q.joinSrc = nil
	return q.From(sources...)
}

// Where appends filters; all filters are AND-joined when rendered.
func (q *SelectQuery) Where(filters ...expr.Expr) *SelectQuery {
	q.filters = append(q.filters, filters...)
	return q
}

// Switch resets the implicit join source. Passing nil switches back to the
// last FROM table.
func (q *SelectQuery) Switch(src model.Tabler) *SelectQuery {
	if src != nil {
		q.joinSrc = src.TableMeta()
		return q
	}
	if len(q.froms) == 0 {
		q.fail(errors.New(errors.ErrCodeInvalidInput, "switch without a FROM table"))
		return q
	}
	q.joinSrc = q.froms[len(q.froms)-1]
	return q
}

// Join joins dest onto the current join source. Without an explicit On
// condition, one is inferred from a foreign key on dest that references the
// source table. After the call, dest becomes the join source.
func (q *SelectQuery) Join(dest model.Tabler, typ JoinType, opts ...JoinOption) *SelectQuery {
	var spec joinSpec
	for _, opt := range opts {
		opt(&spec)
	}

	src := spec.src
	if src == nil {
		src = q.joinSrc
	}
	if src == nil {
		q.fail(errors.New(errors.ErrCodeInvalidInput, "join without a source table"))
		return q
	}

	j, err := resolveJoin(src, dest.TableMeta(), typ, spec)
	if err != nil {
		q.fail(err)
		return q
	}

	q.joins = append(q.joins, j)
	q.joinSrc = j.Dest
	return q
}

// OrderBy appends ORDER BY terms; wrap terms in expr.Desc for descending
// order.
func (q *SelectQuery) OrderBy(terms ...expr.Expr) *SelectQuery {
	q.orderBy = append(q.orderBy, terms...)
	return q
}

// Limit caps the number of returned rows.
func (q *SelectQuery) Limit(n int) *SelectQuery {
	q.limit = &n
	return q
}

// Offset skips the first n rows.
func (q *SelectQuery) Offset(n int) *SelectQuery {
	q.offset = &n
	return q
}

func (q *SelectQuery) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

// Err returns the first error recorded while composing the query.
func (q *SelectQuery) Err() error { return q.err }

// Accessors used by dialect builders and Unwrap.

func (q *SelectQuery) SelectValues() []expr.Expr { return q.values }
func (q *SelectQuery) FromTables() []*model.Meta { return q.froms }
func (q *SelectQuery) Filters() []expr.Expr      { return q.filters }
func (q *SelectQuery) Joins() []Join             { return q.joins }
func (q *SelectQuery) OrderTerms() []expr.Expr   { return q.orderBy }
func (q *SelectQuery) LimitValue() (int, bool) {
	if q.limit == nil {
		return 0, false
	}
	return *q.limit, true
}
func (q *SelectQuery) OffsetValue() (int, bool) {
	if q.offset == nil {
		return 0, false
	}
	return *q.offset, true
}

// ModelSelect is a SELECT whose rows unwrap into instances of T.
type ModelSelect[T any] struct {
	SelectQuery
	source *model.Meta
}

// SelectModel starts a SELECT over a registered table, selecting all of its
// fields and using it as the FROM source and join source. Extra values for
// joined tables are added with Select.
func SelectModel[T any](table *model.Table[T], values ...interface{}) *ModelSelect[T] {
	q := &ModelSelect[T]{source: table.TableMeta()}
	q.SelectQuery.Select(table)
	q.SelectQuery.From(table)
	q.SelectQuery.Select(values...)
	return q
}

// Source returns the table rows unwrap into.
func (q *ModelSelect[T]) Source() *model.Meta { return q.source }

// Select appends output values.
func (q *ModelSelect[T]) Select(values ...interface{}) *ModelSelect[T] {
	q.SelectQuery.Select(values...)
	return q
}

// Where appends filters.
func (q *ModelSelect[T]) Where(filters ...expr.Expr) *ModelSelect[T] {
	q.SelectQuery.Where(filters...)
	return q
}

// Join joins dest onto the current join source.
func (q *ModelSelect[T]) Join(dest model.Tabler, typ JoinType, opts ...JoinOption) *ModelSelect[T] {
	q.SelectQuery.Join(dest, typ, opts...)
	return q
}

// Switch resets the implicit join source.
func (q *ModelSelect[T]) Switch(src model.Tabler) *ModelSelect[T] {
	q.SelectQuery.Switch(src)
	return q
}

// OrderBy appends ORDER BY terms.
func (q *ModelSelect[T]) OrderBy(terms ...expr.Expr) *ModelSelect[T] {
	q.SelectQuery.OrderBy(terms...)
	return q
}

// Limit caps the number of returned rows.
func (q *ModelSelect[T]) Limit(n int) *ModelSelect[T] {
	q.SelectQuery.Limit(n)
	return q
}

// Offset skips the first n rows.
func (q *ModelSelect[T]) Offset(n int) *ModelSelect[T] {
	q.SelectQuery.Offset(n)
	return q
}

// Unwrap maps result rows into model instances. Instances are deduplicated
// by primary key, source instances are returned in first-appearance order,
// and joined children are appended to the parent field named by their join.
func (q *ModelSelect[T]) Unwrap(rows []Row) ([]*T, error) {
	instances, err := unwrapModels(q.source, q.joins, rows)
	if err != nil {
		return nil, err
	}
	out := make([]*T, len(instances))
	for i, inst := range instances {
		out[i] = inst.(*T)
	}
	return out, nil
}
