package query

import (
	"github.com/grovetools/quill/errors"
	"github.com/grovetools/quill/expr"
	"github.com/grovetools/quill/model"
)

// UpdateQuery composes an UPDATE statement for one table.
type UpdateQuery[T any] struct {
	meta      *model.Meta
	sets      []Assignment
	filters   []expr.Expr
	returning []expr.Expr
	err       error
}

// Update starts an UPDATE of a registered table.
func Update[T any](table *model.Table[T]) *UpdateQuery[T] {
	return &UpdateQuery[T]{meta: table.TableMeta()}
}

// Set assigns a value to a column. Values may be plain arguments or
// expressions.
func (q *UpdateQuery[T]) Set(column string, value interface{}) *UpdateQuery[T] {
	f, err := q.meta.Column(column)
	if err != nil {
		q.fail(err)
		return q
	}
	q.sets = append(q.sets, Assignment{Field: f, Value: value})
	return q
}

// Where appends filters; all filters are AND-joined when rendered.
func (q *UpdateQuery[T]) Where(filters ...expr.Expr) *UpdateQuery[T] {
	q.filters = append(q.filters, filters...)
	return q
}

// Returning appends RETURNING values.
func (q *UpdateQuery[T]) Returning(values ...interface{}) *UpdateQuery[T] {
	exprs, err := expandValues(values)
	if err != nil {
		q.fail(err)
		return q
	}
	q.returning = append(q.returning, exprs...)
	return q
}

func (q *UpdateQuery[T]) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

// Err returns the first error recorded while composing the query.
func (q *UpdateQuery[T]) Err() error {
	if q.err != nil {
		return q.err
	}
	if len(q.sets) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "update with no assignments")
	}
	return nil
}

// Accessors used by dialect builders.

func (q *UpdateQuery[T]) Table() *model.Meta           { return q.meta }
func (q *UpdateQuery[T]) Assignments() []Assignment    { return q.sets }
func (q *UpdateQuery[T]) Filters() []expr.Expr         { return q.filters }
func (q *UpdateQuery[T]) ReturningValues() []expr.Expr { return q.returning }

// Unwrap maps RETURNING rows into model instances.
func (q *UpdateQuery[T]) Unwrap(rows []Row) ([]*T, error) {
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
