package query

import (
	"github.com/grovetools/quill/expr"
	"github.com/grovetools/quill/model"
)

// DeleteQuery composes a DELETE statement for one table.
type DeleteQuery[T any] struct {
	meta      *model.Meta
	filters   []expr.Expr
	returning []expr.Expr
	err       error
}

// DeleteFrom starts a DELETE from a registered table.
func DeleteFrom[T any](table *model.Table[T]) *DeleteQuery[T] {
	return &DeleteQuery[T]{meta: table.TableMeta()}
}

// Where appends filters; all filters are AND-joined when rendered.
// A DELETE with no filters deletes every row, as in SQL.
func (q *DeleteQuery[T]) Where(filters ...expr.Expr) *DeleteQuery[T] {
	q.filters = append(q.filters, filters...)
	return q
}

// Returning appends RETURNING values.
func (q *DeleteQuery[T]) Returning(values ...interface{}) *DeleteQuery[T] {
	exprs, err := expandValues(values)
	if err != nil && q.err == nil {
		q.err = err
		return q
	}
	q.returning = append(q.returning, exprs...)
	return q
}

// Err returns the first error recorded while composing the query.
func (q *DeleteQuery[T]) Err() error { return q.err }

// Accessors used by dialect builders.

func (q *DeleteQuery[T]) Table() *model.Meta           { return q.meta }
func (q *DeleteQuery[T]) Filters() []expr.Expr         { return q.filters }
func (q *DeleteQuery[T]) ReturningValues() []expr.Expr { return q.returning }

// Unwrap maps RETURNING rows into model instances.
func (q *DeleteQuery[T]) Unwrap(rows []Row) ([]*T, error) {
	instances, err := unwrapModels(q.meta, nil, rows)
	if err != nil {
		return nil, err
	}
	out := make([]*T, len(instances))
	for i, inst := range instances {
		out[i] = inst.(*T)
	}
	return out, nil
}
